package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRoles 检查用户角色是否在允许列表中。
// 此中间件必须在 AuthMiddleware 之后使用。
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			// AuthMiddleware 未执行或未写入用户
			abort(c, http.StatusUnauthorized, "无法获取用户信息")
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			abort(c, http.StatusForbidden, "权限不足")
			return
		}
		c.Next()
	}
}
