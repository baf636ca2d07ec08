package admin

import (
	"strings"
	"time"

	"github.com/minishop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// parseReportTime 解析报表时间参数，支持 RFC3339 与日期两种格式。
func parseReportTime(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return &t, true
	}
	return nil, false
}

// GetSalesReport 销售报表
// since/until 均可省略，默认统计最近 30 天。
func (h *Handler) GetSalesReport(c *gin.Context) {
	since, ok := parseReportTime(c.Query("since"))
	if !ok {
		respondError(c, response.CodeBadRequest, "开始时间格式错误", nil)
		return
	}
	until, ok := parseReportTime(c.Query("until"))
	if !ok {
		respondError(c, response.CodeBadRequest, "结束时间格式错误", nil)
		return
	}

	report, err := h.ReportService.BuildSalesReport(since, until)
	if err != nil {
		respondError(c, response.CodeInternal, "生成销售报表失败", err)
		return
	}

	response.Success(c, report)
}

// GetDashboardOverview 仪表盘总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	counts, err := h.ReportService.BuildDashboardCounts()
	if err != nil {
		respondError(c, response.CodeInternal, "获取仪表盘数据失败", err)
		return
	}

	response.Success(c, counts)
}
