package public

import (
	"errors"
	"time"

	"github.com/minishop/internal/http/response"
	"github.com/minishop/internal/models"
	"github.com/minishop/internal/service"

	"github.com/gin-gonic/gin"
)

// UserView 用户信息响应
type UserView struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone"`
	Address     *string    `json:"address"`
	IsAdmin     bool       `json:"is_admin"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func buildUserView(user *models.User) UserView {
	return UserView{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Phone:       user.Phone,
		Address:     user.Address,
		IsAdmin:     user.IsAdmin,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// UserRegisterRequest 注册请求
// password2 为确认密码，必须与 password 一致。
type UserRegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2"`
}

// UserRegister 用户注册
// 字段校验错误一次性全部返回，不在第一个错误处中断。
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	user, err := h.AuthService.Register(req.Username, req.Email, req.Password, req.Password2)
	if err != nil {
		if ve, ok := service.AsValidationError(err); ok {
			response.ErrorWithData(c, response.CodeBadRequest, "注册信息校验失败", gin.H{
				"errors": ve.Messages,
			})
			return
		}
		respondError(c, response.CodeInternal, "注册失败", err)
		return
	}

	response.Success(c, gin.H{"user": buildUserView(user)})
}

// UserLoginRequest 登录请求
// identifier 可以是用户名或邮箱。
type UserLoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Identifier, req.Password, req.RememberMe)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "用户名或密码错误", nil)
			return
		}
		respondError(c, response.CodeInternal, "登录失败", err)
		return
	}

	response.Success(c, gin.H{
		"user":       buildUserView(user),
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// UserLogout 用户登出
// 通过提升 token 版本并记录失效时间，使所有已签发 token 作废。
func (h *Handler) UserLogout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.AuthService.Logout(uid); err != nil {
		respondError(c, response.CodeInternal, "登出失败", err)
		return
	}

	response.Success(c, gin.H{"logout": true})
}

// GetCurrentUser 获取当前登录用户信息
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.AuthService.GetByID(uid)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "用户不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取用户信息失败", err)
		return
	}

	response.Success(c, gin.H{"user": buildUserView(user)})
}
