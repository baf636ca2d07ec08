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

// CheckoutRequest 结算请求（收货信息）
type CheckoutRequest struct {
	RecipientName    string `json:"recipient_name"`
	RecipientPhone   string `json:"recipient_phone"`
	RecipientAddress string `json:"recipient_address"`
}

// Checkout 购物车结算
// 在单个事务内扣减库存、创建订单并清空购物车，任一商品库存不足则整体失败。
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.Checkout(uid, service.RecipientInfo{
		Name:    req.RecipientName,
		Phone:   req.RecipientPhone,
		Address: req.RecipientAddress,
	})
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			response.ErrorWithData(c, response.CodeBadRequest, "收货信息校验失败", gin.H{
				"errors": ve.Messages,
			})
			return
		}
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			respondError(c, response.CodeBadRequest, "购物车是空的", nil)
		case errors.Is(err, service.ErrOutOfStock):
			respondError(c, response.CodeBadRequest, "部分商品库存不足，下单失败", nil)
		default:
			respondError(c, response.CodeInternal, "下单失败", err)
		}
		return
	}

	requestLog(c).Infow("order_checkout",
		"user_id", uid,
		"order_no", order.OrderNo,
		"total_amount", order.TotalAmount.String(),
	)
	response.Success(c, gin.H{"order": order})
}

// ListOrders 获取当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePaginationQuery(c)

	orders, total, err := h.OrderService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"orders": orders}, response.NewPagination(page, pageSize, total))
}

// GetOrder 获取当前用户订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单 ID 无效", nil)
		return
	}

	order, svcErr := h.OrderService.GetByIDAndUser(uint(orderID), uid)
	if svcErr != nil {
		if errors.Is(svcErr, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取订单详情失败", svcErr)
		return
	}

	response.Success(c, gin.H{"order": order})
}

// GetOrderByOrderNo 通过订单编号获取订单（下单成功页使用）
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "订单编号无效", nil)
		return
	}

	order, err := h.OrderService.GetByOrderNoAndUser(orderNo, uid)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取订单详情失败", err)
		return
	}

	response.Success(c, gin.H{"order": order})
}
