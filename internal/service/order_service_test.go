package service

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/minishop/internal/config"
	"github.com/minishop/internal/constants"
	"github.com/minishop/internal/models"
	"github.com/minishop/internal/repository"

	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		repository.NewCartRepository(db),
		repository.NewUserRepository(db),
		nil,
		NewEmailService(&config.EmailConfig{}),
	)
}

func newCartServiceForDB(db *gorm.DB) *CartService {
	return NewCartService(repository.NewCartRepository(db), repository.NewProductRepository(db))
}

func testRecipient() RecipientInfo {
	return RecipientInfo{
		Name:    "张伟",
		Phone:   "13800138000",
		Address: "北京市朝阳区望京街 1 号",
	}
}

func TestCheckoutCreatesShippedOrder(t *testing.T) {
	db := newTestDB(t, "order_checkout")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")
	coffee := mustCreateProduct(t, db, "咖啡杯", "10.00", 5)
	sticker := mustCreateProduct(t, db, "贴纸", "3.50", 10)

	cartService := newCartServiceForDB(db)
	if err := cartService.AddItem(user.ID, coffee.ID, 2); err != nil {
		t.Fatalf("add coffee failed: %v", err)
	}
	if err := cartService.AddItem(user.ID, sticker.ID, 1); err != nil {
		t.Fatalf("add sticker failed: %v", err)
	}

	order, err := newOrderService(db).Checkout(user.ID, testRecipient())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if order.TotalAmount.String() != "23.50" {
		t.Fatalf("total want 23.50 got %s", order.TotalAmount.String())
	}
	if order.RecipientName != "张伟" || order.RecipientPhone != "13800138000" || order.RecipientAddress != "北京市朝阳区望京街 1 号" {
		t.Fatalf("recipient info not persisted on order: %+v", order)
	}
	if order.Status != constants.OrderStatusShipped {
		t.Fatalf("status want shipped got %s", order.Status)
	}
	if order.PaymentTime == nil || order.ShipTime == nil {
		t.Fatalf("payment/ship time should be set on checkout")
	}
	orderNoPattern := regexp.MustCompile(`^ORD\d{14}[0-9a-f]{8}$`)
	if !orderNoPattern.MatchString(order.OrderNo) {
		t.Fatalf("unexpected order no format: %s", order.OrderNo)
	}
	if len(order.Items) != 2 {
		t.Fatalf("order items want 2 got %d", len(order.Items))
	}

	// 单价快照与库存扣减
	var storedCoffee models.Product
	if err := db.First(&storedCoffee, coffee.ID).Error; err != nil {
		t.Fatalf("load coffee failed: %v", err)
	}
	if storedCoffee.Stock != 3 {
		t.Fatalf("coffee stock want 3 got %d", storedCoffee.Stock)
	}
	for _, item := range order.Items {
		if item.ProductID == coffee.ID && item.UnitPrice.String() != "10.00" {
			t.Fatalf("coffee unit price snapshot want 10.00 got %s", item.UnitPrice.String())
		}
	}

	// 购物车已清空
	var remaining int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("cart should be empty after checkout, got %d items", remaining)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t, "order_empty_cart")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")

	if _, err := newOrderService(db).Checkout(user.ID, testRecipient()); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart got %v", err)
	}
}

func TestCheckoutRequiresRecipientInfo(t *testing.T) {
	db := newTestDB(t, "order_recipient")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")
	product := mustCreateProduct(t, db, "商品", "10.00", 5)

	cartService := newCartServiceForDB(db)
	if err := cartService.AddItem(user.ID, product.ID, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	_, err := newOrderService(db).Checkout(user.ID, RecipientInfo{Name: " ", Phone: "", Address: "\t"})
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("want ValidationError got %v", err)
	}
	if len(ve.Messages) != 3 {
		t.Fatalf("want 3 messages got %d: %v", len(ve.Messages), ve.Messages)
	}

	// 校验失败不应动库存、不应下单、不应清空购物车
	var stored models.Product
	if err := db.First(&stored, product.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if stored.Stock != 5 {
		t.Fatalf("stock should be untouched, got %d", stored.Stock)
	}
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("no order should exist, got %d", orderCount)
	}
	var remaining int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("cart should be kept, got %d items", remaining)
	}
}

func TestCheckoutOutOfStockRollsBack(t *testing.T) {
	db := newTestDB(t, "order_rollback")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")
	plenty := mustCreateProduct(t, db, "现货商品", "10.00", 100)
	scarce := mustCreateProduct(t, db, "紧俏商品", "5.00", 1)

	cartService := newCartServiceForDB(db)
	if err := cartService.AddItem(user.ID, plenty.ID, 2); err != nil {
		t.Fatalf("add plenty failed: %v", err)
	}
	if err := cartService.AddItem(user.ID, scarce.ID, 1); err != nil {
		t.Fatalf("add scarce failed: %v", err)
	}
	// 加入购物车之后库存被他人买走
	if err := db.Model(&models.Product{}).Where("id = ?", scarce.ID).Update("stock", 0).Error; err != nil {
		t.Fatalf("drain stock failed: %v", err)
	}

	if _, err := newOrderService(db).Checkout(user.ID, testRecipient()); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock got %v", err)
	}

	// 整体回滚：已扣减的库存恢复，没有落下订单
	var storedPlenty models.Product
	if err := db.First(&storedPlenty, plenty.ID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	if storedPlenty.Stock != 100 {
		t.Fatalf("stock should be restored to 100, got %d", storedPlenty.Stock)
	}
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("no order should exist after rollback, got %d", orderCount)
	}

	// 购物车保留，等待用户调整
	var remaining int64
	if err := db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("cart should be kept after failed checkout, got %d items", remaining)
	}
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t, "order_status")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")
	product := mustCreateProduct(t, db, "商品", "10.00", 5)

	cartService := newCartServiceForDB(db)
	if err := cartService.AddItem(user.ID, product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	svc := newOrderService(db)
	order, err := svc.Checkout(user.ID, testRecipient())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	originalShipTime := *order.ShipTime

	if _, err := svc.UpdateStatus(order.ID, "refunded"); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("want ErrOrderStatusInvalid got %v", err)
	}
	if _, err := svc.UpdateStatus(order.ID+100, constants.OrderStatusCompleted); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}

	// 已有发货时间的订单完成时不覆盖发货时间
	updated, err := svc.UpdateStatus(order.ID, constants.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("update to completed failed: %v", err)
	}
	if updated.Status != constants.OrderStatusCompleted {
		t.Fatalf("status want completed got %s", updated.Status)
	}
	if updated.ShipTime == nil || !updated.ShipTime.Equal(originalShipTime) {
		t.Fatalf("ship time should be preserved on completion")
	}

	// 重新标记发货会刷新发货时间
	time.Sleep(10 * time.Millisecond)
	reshipped, err := svc.UpdateStatus(order.ID, constants.OrderStatusShipped)
	if err != nil {
		t.Fatalf("update to shipped failed: %v", err)
	}
	if reshipped.ShipTime == nil || !reshipped.ShipTime.After(originalShipTime) {
		t.Fatalf("ship time should be refreshed on re-ship")
	}
}

func TestGetByOrderNoAndUserScopesToOwner(t *testing.T) {
	db := newTestDB(t, "order_by_no")
	owner := mustCreateUser(t, db, "owner", "owner@example.com")
	other := mustCreateUser(t, db, "other", "other@example.com")
	product := mustCreateProduct(t, db, "商品", "8.00", 5)

	cartService := newCartServiceForDB(db)
	if err := cartService.AddItem(owner.ID, product.ID, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	svc := newOrderService(db)
	order, err := svc.Checkout(owner.ID, testRecipient())
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	found, err := svc.GetByOrderNoAndUser(order.OrderNo, owner.ID)
	if err != nil {
		t.Fatalf("lookup by order no failed: %v", err)
	}
	if found.ID != order.ID {
		t.Fatalf("order id want %d got %d", order.ID, found.ID)
	}

	if _, err := svc.GetByOrderNoAndUser(order.OrderNo, other.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("other user should not see the order, got %v", err)
	}
}

func TestGenerateOrderNoUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		no := generateOrderNo()
		if seen[no] {
			t.Fatalf("duplicate order no generated: %s", no)
		}
		seen[no] = true
	}
}
