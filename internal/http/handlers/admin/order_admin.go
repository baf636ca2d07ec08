package admin

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/minishop/internal/http/handlers/shared"
	"github.com/minishop/internal/http/response"
	"github.com/minishop/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminUpdateOrderStatusRequest 更新订单状态请求
type AdminUpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminListOrders 订单列表（后台）
// 支持按状态过滤。
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePaginationQuery(c)
	status := strings.TrimSpace(c.Query("status"))

	orders, total, err := h.OrderService.ListForAdmin(status, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrOrderStatusInvalid) {
			respondError(c, response.CodeBadRequest, "无效的订单状态", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"orders": orders}, response.NewPagination(page, pageSize, total))
}

// AdminGetOrder 订单详情（后台）
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单 ID 无效", nil)
		return
	}

	order, svcErr := h.OrderService.GetForAdmin(uint(orderID))
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

// AdminUpdateOrderStatus 更新订单状态
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "订单 ID 无效", nil)
		return
	}

	var req AdminUpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, svcErr := h.OrderService.UpdateStatus(uint(orderID), req.Status)
	if svcErr != nil {
		switch {
		case errors.Is(svcErr, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		case errors.Is(svcErr, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "无效的订单状态", nil)
		default:
			respondError(c, response.CodeInternal, "更新订单状态失败", svcErr)
		}
		return
	}

	requestLog(c).Infow("admin_order_status_updated", "order_id", order.ID, "status", order.Status)
	response.Success(c, gin.H{"order": order})
}
