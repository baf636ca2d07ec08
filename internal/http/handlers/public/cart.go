package public

import (
	"errors"
	"strconv"

	"github.com/minishop/internal/http/response"
	"github.com/minishop/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 添加购物车项请求
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest 更新购物车项请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	detail, err := h.CartService.ListByUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "获取购物车失败", err)
		return
	}

	response.Success(c, detail)
}

// AddCartItem 添加商品到购物车
// 同一商品重复添加时数量累加。
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.CartService.AddItem(uid, req.ProductID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "商品不存在", nil)
		case errors.Is(err, service.ErrInvalidQuantity):
			respondError(c, response.CodeBadRequest, "数量必须大于 0", nil)
		case errors.Is(err, service.ErrOutOfStock):
			respondError(c, response.CodeBadRequest, "商品库存不足", nil)
		default:
			respondError(c, response.CodeInternal, "添加购物车失败", err)
		}
		return
	}

	response.Success(c, gin.H{"added": true})
}

// UpdateCartItem 更新购物车项数量
// 数量为 0 时删除该项。
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "购物车项 ID 无效", nil)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.CartService.UpdateQuantity(uid, uint(itemID), req.Quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			respondError(c, response.CodeNotFound, "购物车项不存在", nil)
		case errors.Is(err, service.ErrOutOfStock):
			respondError(c, response.CodeBadRequest, "商品库存不足", nil)
		case errors.Is(err, service.ErrInvalidQuantity):
			respondError(c, response.CodeBadRequest, "数量无效", nil)
		default:
			respondError(c, response.CodeInternal, "更新购物车失败", err)
		}
		return
	}

	response.Success(c, gin.H{"updated": true})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "购物车项 ID 无效", nil)
		return
	}

	if err := h.CartService.RemoveItem(uid, uint(itemID)); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			respondError(c, response.CodeNotFound, "购物车项不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "删除购物车项失败", err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
