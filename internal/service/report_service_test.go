package service

import (
	"testing"
	"time"

	"github.com/minishop/internal/config"
	"github.com/minishop/internal/constants"
	"github.com/minishop/internal/models"
	"github.com/minishop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newReportService(db *gorm.DB) *ReportService {
	return NewReportService(&config.ReportConfig{DefaultWindowDays: 30, TopProductLimit: 10}, repository.NewReportRepository(db))
}

func mustCreateOrder(t *testing.T, db *gorm.DB, userID uint, status, amount string, items []models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:     generateOrderNo(),
		UserID:      userID,
		Status:      status,
		TotalAmount: models.NewMoneyFromDecimal(decimal.RequireFromString(amount)),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			t.Fatalf("create order items failed: %v", err)
		}
	}
	return order
}

func TestBuildSalesReportExcludesCancelled(t *testing.T) {
	db := newTestDB(t, "report_cancelled")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")

	mustCreateOrder(t, db, user.ID, constants.OrderStatusShipped, "100.00", nil)
	mustCreateOrder(t, db, user.ID, constants.OrderStatusCompleted, "50.00", nil)
	mustCreateOrder(t, db, user.ID, constants.OrderStatusCancelled, "999.00", nil)

	report, err := newReportService(db).BuildSalesReport(nil, nil)
	if err != nil {
		t.Fatalf("build report failed: %v", err)
	}
	if report.OrderCount != 2 {
		t.Fatalf("order count want 2 got %d", report.OrderCount)
	}
	if report.TotalRevenue.String() != "150.00" {
		t.Fatalf("revenue want 150.00 got %s", report.TotalRevenue.String())
	}
	if report.AverageOrder.String() != "75.00" {
		t.Fatalf("average want 75.00 got %s", report.AverageOrder.String())
	}
}

func TestBuildSalesReportEmptyWindow(t *testing.T) {
	db := newTestDB(t, "report_empty")

	report, err := newReportService(db).BuildSalesReport(nil, nil)
	if err != nil {
		t.Fatalf("build report failed: %v", err)
	}
	if report.OrderCount != 0 {
		t.Fatalf("order count want 0 got %d", report.OrderCount)
	}
	if !report.AverageOrder.Decimal.IsZero() {
		t.Fatalf("average should be zero for empty window, got %s", report.AverageOrder.String())
	}
	if len(report.TopProducts) != 0 {
		t.Fatalf("top products should be empty, got %d", len(report.TopProducts))
	}
}

func TestBuildSalesReportDefaultWindow(t *testing.T) {
	db := newTestDB(t, "report_window")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")

	inside := mustCreateOrder(t, db, user.ID, constants.OrderStatusShipped, "10.00", nil)
	_ = inside
	old := mustCreateOrder(t, db, user.ID, constants.OrderStatusShipped, "20.00", nil)
	past := time.Now().AddDate(0, 0, -60)
	if err := db.Model(&models.Order{}).Where("id = ?", old.ID).Update("created_at", past).Error; err != nil {
		t.Fatalf("backdate order failed: %v", err)
	}

	report, err := newReportService(db).BuildSalesReport(nil, nil)
	if err != nil {
		t.Fatalf("build report failed: %v", err)
	}
	if report.OrderCount != 1 {
		t.Fatalf("default 30-day window should exclude 60-day-old order, got %d", report.OrderCount)
	}

	since := time.Now().AddDate(0, 0, -90)
	wide, err := newReportService(db).BuildSalesReport(&since, nil)
	if err != nil {
		t.Fatalf("build wide report failed: %v", err)
	}
	if wide.OrderCount != 2 {
		t.Fatalf("explicit window should include both orders, got %d", wide.OrderCount)
	}
}

func TestBuildSalesReportTopProductsRankedByQuantity(t *testing.T) {
	db := newTestDB(t, "report_top")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")
	cheapHot := mustCreateProduct(t, db, "热销便宜货", "1.00", 100)
	expensiveSlow := mustCreateProduct(t, db, "高价慢销货", "100.00", 100)

	mustCreateOrder(t, db, user.ID, constants.OrderStatusShipped, "105.00", []models.OrderItem{
		{ProductID: cheapHot.ID, Quantity: 5, UnitPrice: cheapHot.Price},
		{ProductID: expensiveSlow.ID, Quantity: 1, UnitPrice: expensiveSlow.Price},
	})

	report, err := newReportService(db).BuildSalesReport(nil, nil)
	if err != nil {
		t.Fatalf("build report failed: %v", err)
	}
	if len(report.TopProducts) != 2 {
		t.Fatalf("top products want 2 got %d", len(report.TopProducts))
	}
	// 排行按销量而非销售额
	if report.TopProducts[0].ProductID != cheapHot.ID {
		t.Fatalf("highest quantity product should rank first, got product %d", report.TopProducts[0].ProductID)
	}
	if report.TopProducts[0].Quantity != 5 {
		t.Fatalf("quantity want 5 got %d", report.TopProducts[0].Quantity)
	}
	if report.TopProducts[1].Revenue.String() != "100.00" {
		t.Fatalf("revenue want 100.00 got %s", report.TopProducts[1].Revenue.String())
	}
}

func TestBuildDashboardCounts(t *testing.T) {
	db := newTestDB(t, "report_dashboard")
	user := mustCreateUser(t, db, "buyer", "buyer@example.com")
	mustCreateProduct(t, db, "商品A", "10.00", 5)
	mustCreateProduct(t, db, "商品B", "20.00", 5)
	mustCreateOrder(t, db, user.ID, constants.OrderStatusShipped, "30.00", nil)

	counts, err := newReportService(db).BuildDashboardCounts()
	if err != nil {
		t.Fatalf("build dashboard counts failed: %v", err)
	}
	if counts.Users != 1 || counts.Products != 2 || counts.Orders != 1 {
		t.Fatalf("counts want 1/2/1 got %d/%d/%d", counts.Users, counts.Products, counts.Orders)
	}
	if counts.Revenue.String() != "30.00" {
		t.Fatalf("revenue want 30.00 got %s", counts.Revenue.String())
	}
}
