package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/minishop/internal/constants"
	"github.com/minishop/internal/logger"
	"github.com/minishop/internal/models"
	"github.com/minishop/internal/queue"
	"github.com/minishop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	cartRepo     repository.CartRepository
	userRepo     repository.UserRepository
	queueClient  *queue.Client
	emailService *EmailService
}

// NewOrderService 创建订单服务
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	queueClient *queue.Client,
	emailService *EmailService,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		userRepo:     userRepo,
		queueClient:  queueClient,
		emailService: emailService,
	}
}

// RecipientInfo 收货信息
type RecipientInfo struct {
	Name    string
	Phone   string
	Address string
}

func validateRecipientInfo(info RecipientInfo) error {
	ve := &ValidationError{}
	if strings.TrimSpace(info.Name) == "" {
		ve.Add("请填写收件人姓名")
	}
	if strings.TrimSpace(info.Phone) == "" {
		ve.Add("请填写收件人手机号")
	}
	if strings.TrimSpace(info.Address) == "" {
		ve.Add("请填写收件人地址")
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// Checkout 结算购物车
// 在单个事务内完成：条件扣库存、创建订单与订单项（单价快照）、清空购物车。
// 任一商品库存不足则整体回滚。支付为模拟流程，订单直接进入已发货状态。
func (s *OrderService) Checkout(userID uint, recipient RecipientInfo) (*models.Order, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	if err := validateRecipientInfo(recipient); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.productRepo.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		cartItems, err := cartRepo.ListByUser(userID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(cartItems))
		for _, item := range cartItems {
			product := item.Product
			if product == nil || product.ID == 0 {
				return ErrProductNotFound
			}

			affected, err := productRepo.DecrementStock(product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrOutOfStock
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(subtotal)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
			})
		}

		now := time.Now()
		order = &models.Order{
			OrderNo:          generateOrderNo(),
			UserID:           userID,
			Status:           constants.OrderStatusShipped,
			TotalAmount:      models.NewMoneyFromDecimal(total),
			RecipientName:    strings.TrimSpace(recipient.Name),
			RecipientPhone:   strings.TrimSpace(recipient.Phone),
			RecipientAddress: strings.TrimSpace(recipient.Address),
			PaymentTime:      &now,
			ShipTime:         &now,
		}
		if err := orderRepo.Create(order, orderItems); err != nil {
			return err
		}
		order.Items = orderItems

		return cartRepo.ClearByUser(userID)
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后异步通知，失败不影响下单结果
	s.notifyOrderConfirmation(order)

	return order, nil
}

// notifyOrderConfirmation 发送订单确认通知
// 优先走异步队列；队列未启用时直接发送。所有失败只记日志。
func (s *OrderService) notifyOrderConfirmation(order *models.Order) {
	if order == nil {
		return
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueOrderConfirmationEmail(queue.OrderConfirmationEmailPayload{OrderID: order.ID})
		if err != nil {
			logger.Warnw("order_confirmation_enqueue_failed", "order_id", order.ID, "order_no", order.OrderNo, "error", err)
		}
		return
	}
	if s.emailService == nil || s.userRepo == nil {
		return
	}
	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil || user == nil {
		logger.Warnw("order_confirmation_user_lookup_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return
	}
	if err := s.emailService.SendOrderConfirmation(user.Email, OrderConfirmationInput{
		OrderNo:          order.OrderNo,
		Amount:           order.TotalAmount,
		Username:         user.Username,
		RecipientName:    order.RecipientName,
		RecipientPhone:   order.RecipientPhone,
		RecipientAddress: order.RecipientAddress,
	}); err != nil {
		logger.Warnw("order_confirmation_send_failed", "order_id", order.ID, "order_no", order.OrderNo, "error", err)
	}
}

// GetByIDAndUser 获取用户订单详情
func (s *OrderService) GetByIDAndUser(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetByOrderNoAndUser 获取用户订单详情（按订单号，用于下单成功页）
func (s *OrderService) GetByOrderNoAndUser(orderNo string, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNoAndUser(orderNo, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListByUser 用户订单列表
func (s *OrderService) ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	})
}

// ListForAdmin 后台订单列表（可按状态过滤）
func (s *OrderService) ListForAdmin(status string, page, pageSize int) ([]models.Order, int64, error) {
	if status != "" && !constants.IsValidOrderStatus(status) {
		return nil, 0, ErrOrderStatusInvalid
	}
	return s.orderRepo.ListAdmin(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   status,
	})
}

// GetForAdmin 后台订单详情
func (s *OrderService) GetForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 管理员更新订单状态
// 目标状态只做集合校验，不限制状态迁移方向。
// shipped 刷新发货时间；completed 仅在未发货时间时补记。
func (s *OrderService) UpdateStatus(orderID uint, status string) (*models.Order, error) {
	if !constants.IsValidOrderStatus(status) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	switch status {
	case constants.OrderStatusShipped:
		updates["ship_time"] = now
		order.ShipTime = &now
	case constants.OrderStatusCompleted:
		if order.ShipTime == nil {
			updates["ship_time"] = now
			order.ShipTime = &now
		}
	}

	if err := s.orderRepo.UpdateStatus(order.ID, status, updates); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// generateOrderNo 生成订单编号
// 格式：ORD + 时间戳（秒）+ 8 位十六进制随机串。
func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("ORD%s%s", now, randHex(8))
}

func randHex(length int) string {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// 熵源不可用时退化为全零，订单号仍带时间戳
		return fmt.Sprintf("%0*d", length, 0)
	}
	return hex.EncodeToString(buf)[:length]
}
