package admin

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/minishop/internal/http/handlers/shared"
	"github.com/minishop/internal/http/response"
	"github.com/minishop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// parseProductForm 解析商品 multipart 表单
// 图片字段可选，缺失时 Image 为 nil。
func parseProductForm(c *gin.Context) (service.ProductInput, error) {
	var input service.ProductInput

	input.Name = strings.TrimSpace(c.PostForm("name"))
	input.Description = strings.TrimSpace(c.PostForm("description"))

	priceRaw := strings.TrimSpace(c.PostForm("price"))
	if priceRaw != "" {
		price, err := decimal.NewFromString(priceRaw)
		if err != nil {
			return input, err
		}
		input.Price = price
	}

	stockRaw := strings.TrimSpace(c.PostForm("stock"))
	if stockRaw != "" {
		stock, err := strconv.Atoi(stockRaw)
		if err != nil {
			return input, err
		}
		input.Stock = stock
	}

	if file, err := c.FormFile("image"); err == nil {
		input.Image = file
	}
	return input, nil
}

func respondProductError(c *gin.Context, err error, fallback string) {
	if ve, ok := service.AsValidationError(err); ok {
		response.ErrorWithData(c, response.CodeBadRequest, "商品信息校验失败", gin.H{
			"errors": ve.Messages,
		})
		return
	}
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "商品不存在", nil)
	case errors.Is(err, service.ErrUploadTooLarge):
		respondError(c, response.CodeBadRequest, "图片大小超过限制", nil)
	case errors.Is(err, service.ErrUploadExtensionInvalid):
		respondError(c, response.CodeBadRequest, "图片格式不被支持", nil)
	default:
		respondError(c, response.CodeInternal, fallback, err)
	}
}

// GetAdminProducts 商品列表（后台）
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePaginationQuery(c)
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.ProductService.List(search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "获取商品列表失败", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"products": products}, response.NewPagination(page, pageSize, total))
}

// GetAdminProduct 商品详情（后台）
func (h *Handler) GetAdminProduct(c *gin.Context) {
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

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	input, err := parseProductForm(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	product, svcErr := h.ProductService.Create(input)
	if svcErr != nil {
		respondProductError(c, svcErr, "创建商品失败")
		return
	}

	requestLog(c).Infow("admin_product_created", "product_id", product.ID, "name", product.Name)
	response.Success(c, gin.H{"product": product})
}

// UpdateProduct 更新商品
// 上传新图片时替换并清理旧图片文件。
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "商品 ID 无效", nil)
		return
	}

	input, err := parseProductForm(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	product, svcErr := h.ProductService.Update(uint(id), input)
	if svcErr != nil {
		respondProductError(c, svcErr, "更新商品失败")
		return
	}

	response.Success(c, gin.H{"product": product})
}

// DeleteProduct 删除商品
// 已被订单引用的商品拒绝删除，保护历史订单数据。
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "商品 ID 无效", nil)
		return
	}

	if svcErr := h.ProductService.Delete(uint(id)); svcErr != nil {
		switch {
		case errors.Is(svcErr, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "商品不存在", nil)
		case errors.Is(svcErr, service.ErrProductInUse):
			respondError(c, response.CodeConflict, "商品已被订单引用，无法删除", nil)
		default:
			respondError(c, response.CodeInternal, "删除商品失败", svcErr)
		}
		return
	}

	requestLog(c).Infow("admin_product_deleted", "product_id", id)
	response.Success(c, gin.H{"deleted": true})
}
