// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"strings"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/service"
	"portfolio-cms/pkg/token"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserKey 保存当前用户 *model.User。
	ContextUserKey = "user"
	// ContextClaimsKey 保存 token 的 *token.CustomClaims。
	ContextClaimsKey = "claims"
	// ContextTokenKey 保存原始 access token，供登出使用。
	ContextTokenKey = "accessToken"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"code": status, "message": msg, "data": nil})
}

// AuthMiddleware 创建一个 Gin 中间件，用于 JWT 认证。
// 它会从请求头中提取 token，验证其有效性，并将完整的 User 对象存入 Gin 的上下文中。
func AuthMiddleware(jwtManager *token.JWTManager, userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "请求未包含授权头")
			return
		}

		// Token 以 "Bearer <token>" 的形式提供
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abort(c, http.StatusUnauthorized, "无效的授权头格式")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))

		claims, err := jwtManager.VerifyAccessToken(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "无效或已过期的 token")
			return
		}
		if userService.IsTokenRevoked(c.Request.Context(), tokenString) {
			abort(c, http.StatusUnauthorized, "token 已注销")
			return
		}

		// 用户可能已被删除
		user, err := userService.GetProfile(c.Request.Context(), claims.UserID)
		if err != nil {
			abort(c, http.StatusUnauthorized, "用户不存在")
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextClaimsKey, claims)
		c.Set(ContextTokenKey, tokenString)
		c.Next()
	}
}

// CurrentUser 返回 AuthMiddleware 写入的用户。
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
