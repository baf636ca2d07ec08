package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// orderStatuses 合法订单状态集合
var orderStatuses = map[string]struct{}{
	OrderStatusPending:   {},
	OrderStatusShipped:   {},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// IsValidOrderStatus 判断订单状态是否合法
func IsValidOrderStatus(status string) bool {
	_, ok := orderStatuses[status]
	return ok
}

// 用户注册校验常量
const (
	MinUsernameLength = 4
	MinPasswordLength = 6
)

// 异步任务类型常量
const (
	TaskTypeOrderConfirmationEmail = "email:order_confirmation"
)

// 异步队列名称常量
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// 上下文键常量
const (
	ContextKeyUserID    = "user_id"
	ContextKeyIsAdmin   = "is_admin"
	ContextKeyRequestID = "request_id"
)

// 报表默认统计窗口天数
const ReportDefaultWindowDays = 30
