package service

import (
	"errors"
	"strings"
)

// 服务层统一错误定义
var (
	ErrNotFound           = errors.New("资源不存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUsernameExists     = errors.New("用户名已被占用")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrProductNotFound    = errors.New("商品不存在")
	ErrProductInUse       = errors.New("商品已被订单引用，无法删除")
	ErrInvalidQuantity    = errors.New("数量必须大于 0")
	ErrOutOfStock         = errors.New("商品库存不足")
	ErrEmptyCart          = errors.New("购物车是空的")
	ErrCartItemNotFound   = errors.New("购物车项不存在")
	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderStatusInvalid = errors.New("无效的订单状态")
	ErrForbidden          = errors.New("没有权限执行该操作")

	ErrEmailServiceDisabled      = errors.New("邮件服务未启用")
	ErrEmailServiceNotConfigured = errors.New("邮件服务未配置")
	ErrInvalidEmail              = errors.New("邮箱格式不正确")

	ErrUploadTooLarge         = errors.New("文件大小超过限制")
	ErrUploadExtensionInvalid = errors.New("文件扩展名不被允许")
)

// ValidationError 字段校验错误集合
// 注册等操作一次性收集所有字段问题后整体返回。
type ValidationError struct {
	Messages []string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	if e == nil || len(e.Messages) == 0 {
		return "参数校验失败"
	}
	return strings.Join(e.Messages, "; ")
}

// Add 追加一条校验错误
func (e *ValidationError) Add(message string) {
	e.Messages = append(e.Messages, message)
}

// HasErrors 是否存在校验错误
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Messages) > 0
}

// AsValidationError 判断错误是否为校验错误集合
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
