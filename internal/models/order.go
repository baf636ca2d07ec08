package models

import (
	"time"
)

// Order 订单表
type Order struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo     string     `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	UserID      uint       `gorm:"index;not null" json:"user_id"`                             // 用户ID
	Status      string     `gorm:"index;not null" json:"status"`                              // 订单状态
	TotalAmount Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 实付金额

	RecipientName    string `gorm:"not null" json:"recipient_name"`              // 收件人姓名
	RecipientPhone   string `gorm:"not null" json:"recipient_phone"`             // 收件人手机号
	RecipientAddress string `gorm:"type:text;not null" json:"recipient_address"` // 收件人地址

	PaymentTime *time.Time `json:"payment_time"`                                              // 支付时间
	ShipTime    *time.Time `json:"ship_time"`                                                 // 发货时间
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                                                // 更新时间

	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`                             // 下单用户
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
