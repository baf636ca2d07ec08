package service

import (
	"time"

	"github.com/minishop/internal/config"
	"github.com/minishop/internal/constants"
	"github.com/minishop/internal/models"
	"github.com/minishop/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService 销售报表服务
type ReportService struct {
	cfg  *config.ReportConfig
	repo repository.ReportRepository
}

// NewReportService 创建报表服务
func NewReportService(cfg *config.ReportConfig, repo repository.ReportRepository) *ReportService {
	return &ReportService{cfg: cfg, repo: repo}
}

// ProductSales 商品销量条目
type ProductSales struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Quantity  int64        `json:"quantity"`
	Revenue   models.Money `json:"revenue"`
}

// SalesReport 销售报表
type SalesReport struct {
	Since        time.Time      `json:"since"`
	Until        time.Time      `json:"until"`
	OrderCount   int64          `json:"order_count"`
	TotalRevenue models.Money   `json:"total_revenue"`
	AverageOrder models.Money   `json:"average_order_value"`
	TopProducts  []ProductSales `json:"top_products"`
}

// DashboardCounts 仪表盘总量统计
type DashboardCounts struct {
	Users    int64        `json:"users"`
	Products int64        `json:"products"`
	Orders   int64        `json:"orders"`
	Revenue  models.Money `json:"revenue"`
}

func (s *ReportService) defaultWindowDays() int {
	if s.cfg != nil && s.cfg.DefaultWindowDays > 0 {
		return s.cfg.DefaultWindowDays
	}
	return constants.ReportDefaultWindowDays
}

func (s *ReportService) topProductLimit() int {
	if s.cfg != nil && s.cfg.TopProductLimit > 0 {
		return s.cfg.TopProductLimit
	}
	return 10
}

// BuildSalesReport 生成销售报表
// 窗口为 [since, until)，缺省 until 取当前时间，since 取默认窗口天数。
// 已取消订单不计入；窗口内无订单时平均单价为 0。
func (s *ReportService) BuildSalesReport(since, until *time.Time) (*SalesReport, error) {
	end := time.Now()
	if until != nil {
		end = *until
	}
	start := end.AddDate(0, 0, -s.defaultWindowDays())
	if since != nil {
		start = *since
	}

	overview, err := s.repo.GetSalesOverview(start, end)
	if err != nil {
		return nil, err
	}

	revenue := decimal.NewFromFloat(overview.Revenue)
	average := decimal.Zero
	if overview.OrderCount > 0 {
		average = revenue.Div(decimal.NewFromInt(overview.OrderCount))
	}

	rows, err := s.repo.GetTopProducts(start, end, s.topProductLimit())
	if err != nil {
		return nil, err
	}
	top := make([]ProductSales, 0, len(rows))
	for _, row := range rows {
		top = append(top, ProductSales{
			ProductID: row.ProductID,
			Name:      row.Name,
			Quantity:  row.Quantity,
			Revenue:   models.NewMoneyFromDecimal(decimal.NewFromFloat(row.Revenue)),
		})
	}

	return &SalesReport{
		Since:        start,
		Until:        end,
		OrderCount:   overview.OrderCount,
		TotalRevenue: models.NewMoneyFromDecimal(revenue),
		AverageOrder: models.NewMoneyFromDecimal(average),
		TopProducts:  top,
	}, nil
}

// BuildDashboardCounts 生成仪表盘总量统计
func (s *ReportService) BuildDashboardCounts() (*DashboardCounts, error) {
	counts, err := s.repo.GetCounts()
	if err != nil {
		return nil, err
	}
	// 营收口径与报表一致：全量时间窗口内的非取消订单
	overview, err := s.repo.GetSalesOverview(time.Time{}, time.Now().AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return &DashboardCounts{
		Users:    counts.Users,
		Products: counts.Products,
		Orders:   counts.Orders,
		Revenue:  models.NewMoneyFromDecimal(decimal.NewFromFloat(overview.Revenue)),
	}, nil
}
