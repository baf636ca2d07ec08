package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/minishop/internal/cache"
	"github.com/minishop/internal/config"
	"github.com/minishop/internal/constants"
	"github.com/minishop/internal/http/response"
	"github.com/minishop/internal/repository"
	"github.com/minishop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
		}
	}
	methodsHeader := strings.Join(methods, ", ")
	headersHeader := strings.Join(headers, ", ")

	return func(c *gin.Context) {
		h := c.Writer.Header()
		if allowed := resolveAllowedOrigin(c.GetHeader("Origin"), origins, cfg.AllowCredentials); allowed != "" {
			h.Set("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Headers", headersHeader)
		h.Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 为每个请求注入 request_id，响应头同步返回
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	if value, ok := c.Get(constants.ContextKeyRequestID); ok {
		if requestID, ok := value.(string); ok {
			return requestID
		}
	}
	return ""
}

// UserJWTAuthMiddleware 用户 JWT 鉴权。先校验签名与版本，
// 鉴权快照优先走 Redis，未命中时回查数据库并回填缓存。
func UserJWTAuthMiddleware(secretKey string, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			abortUnauthorized(c, "JWT 密钥未配置")
			return
		}
		if userRepo == nil {
			abortUnauthorized(c, "无效的登录凭证")
			return
		}

		tokenString, ok := extractBearerToken(c)
		if !ok {
			return
		}

		claims, err := parseUserClaims(tokenString, secretKey)
		if err != nil {
			abortUnauthorized(c, "无效的登录凭证")
			return
		}

		// 缓存命中路径
		if state, hit, cacheErr := cache.GetUserAuthState(c.Request.Context(), claims.UserID); cacheErr == nil && hit && state != nil {
			if !tokenStillValid(claims, state.TokenVersion, state.TokenInvalidBefore) {
				abortUnauthorized(c, "登录已失效，请重新登录")
				return
			}
			setAuthContext(c, claims.UserID, state.IsAdmin)
			c.Next()
			return
		}

		user, err := userRepo.GetByID(claims.UserID)
		if err != nil || user == nil {
			abortUnauthorized(c, "无效的登录凭证")
			return
		}
		invalidBefore := int64(0)
		if user.TokenInvalidBefore != nil {
			invalidBefore = user.TokenInvalidBefore.Unix()
		}
		if !tokenStillValid(claims, user.TokenVersion, invalidBefore) {
			abortUnauthorized(c, "登录已失效，请重新登录")
			return
		}
		_ = cache.SetUserAuthState(c.Request.Context(), cache.BuildUserAuthState(user))

		setAuthContext(c, claims.UserID, user.IsAdmin)
		c.Next()
	}
}

// RequireAdminMiddleware 管理员权限校验，必须位于 UserJWTAuthMiddleware 之后
func RequireAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(constants.ContextKeyIsAdmin)
		if !exists {
			abortUnauthorized(c, "未登录或登录已过期")
			return
		}
		if isAdmin, ok := value.(bool); !ok || !isAdmin {
			response.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortUnauthorized(c, "缺少 Authorization 请求头")
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		abortUnauthorized(c, "Authorization 请求头格式错误")
		return "", false
	}
	return parts[1], true
}

func parseUserClaims(tokenString, secretKey string) (*service.UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &service.UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// tokenStillValid 校验 token 版本一致且签发时间不早于失效线（Unix 秒，0 表示无失效线）
func tokenStillValid(claims *service.UserJWTClaims, tokenVersion uint64, invalidBeforeUnix int64) bool {
	if claims.TokenVersion != tokenVersion {
		return false
	}
	if invalidBeforeUnix <= 0 {
		return true
	}
	if claims.IssuedAt == nil {
		return false
	}
	return claims.IssuedAt.Time.Unix() >= invalidBeforeUnix
}

func setAuthContext(c *gin.Context, userID uint, isAdmin bool) {
	c.Set(constants.ContextKeyUserID, userID)
	c.Set(constants.ContextKeyIsAdmin, isAdmin)
}

func abortUnauthorized(c *gin.Context, msg string) {
	response.Unauthorized(c, msg)
	c.Abort()
}
