package public

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/minishop/internal/http/handlers/shared"
	"github.com/minishop/internal/http/response"
	"github.com/minishop/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表（公开）
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePaginationQuery(c)
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.ProductService.List(search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "获取商品列表失败", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"products": products}, response.NewPagination(page, pageSize, total))
}

// GetProduct 获取商品详情（公开）
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "商品 ID 无效", nil)
		return
	}

	product, svcErr := h.ProductService.GetByID(uint(id))
	if svcErr != nil {
		if errors.Is(svcErr, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "商品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取商品详情失败", svcErr)
		return
	}

	response.Success(c, gin.H{"product": product})
}
