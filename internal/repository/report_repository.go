package repository

import (
	"time"

	"github.com/minishop/internal/constants"
	"github.com/minishop/internal/models"

	"gorm.io/gorm"
)

// ReportRepository 销售报表聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type ReportRepository interface {
	GetSalesOverview(startAt, endAt time.Time) (SalesOverviewRow, error)
	GetTopProducts(startAt, endAt time.Time, limit int) ([]ProductSalesRow, error)
	GetCounts() (ReportCountsRow, error)
}

// SalesOverviewRow 销售总览原始统计结果
type SalesOverviewRow struct {
	OrderCount int64
	Revenue    float64
}

// ProductSalesRow 商品销量原始行
type ProductSalesRow struct {
	ProductID uint
	Name      string
	Quantity  int64
	Revenue   float64
}

// ReportCountsRow 仪表盘总量统计
type ReportCountsRow struct {
	Users    int64
	Products int64
	Orders   int64
}

// GormReportRepository GORM 报表聚合实现
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建报表仓库
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// 已取消订单不计入销售统计
func (r *GormReportRepository) countedOrders(startAt, endAt time.Time) *gorm.DB {
	return r.db.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ? AND status <> ?", startAt, endAt, constants.OrderStatusCancelled)
}

// GetSalesOverview 获取窗口内订单数与营收
func (r *GormReportRepository) GetSalesOverview(startAt, endAt time.Time) (SalesOverviewRow, error) {
	result := SalesOverviewRow{}

	if err := r.countedOrders(startAt, endAt).Count(&result.OrderCount).Error; err != nil {
		return result, err
	}
	if err := r.countedOrders(startAt, endAt).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.Revenue).Error; err != nil {
		return result, err
	}
	return result, nil
}

// GetTopProducts 获取窗口内销量排行
func (r *GormReportRepository) GetTopProducts(startAt, endAt time.Time, limit int) ([]ProductSalesRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []ProductSalesRow
	err := r.db.Model(&models.OrderItem{}).
		Select("order_items.product_id AS product_id, products.name AS name, SUM(order_items.quantity) AS quantity, COALESCE(SUM(order_items.quantity * order_items.unit_price), 0) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("orders.created_at >= ? AND orders.created_at < ? AND orders.status <> ?", startAt, endAt, constants.OrderStatusCancelled).
		Group("order_items.product_id, products.name").
		Order("quantity DESC, revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetCounts 获取用户、商品、订单总量
func (r *GormReportRepository) GetCounts() (ReportCountsRow, error) {
	result := ReportCountsRow{}
	if err := r.db.Model(&models.User{}).Count(&result.Users).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Product{}).Count(&result.Products).Error; err != nil {
		return result, err
	}
	if err := r.db.Model(&models.Order{}).Count(&result.Orders).Error; err != nil {
		return result, err
	}
	return result, nil
}
