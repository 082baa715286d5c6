package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/service"
	"portfolio-cms/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUsers 只实现中间件用到的方法。
type stubUsers struct {
	service.UserService
	users   map[string]*model.User
	revoked map[string]bool
}

func (s *stubUsers) GetProfile(_ context.Context, id string) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, service.NotFound("用户不存在")
}

func (s *stubUsers) IsTokenRevoked(_ context.Context, tok string) bool {
	return s.revoked[tok]
}

func TestRoleGate(t *testing.T) {
	jwt := token.NewJWTManager("secret", 15, 7)
	users := &stubUsers{
		users: map[string]*model.User{
			"u-admin":  {ID: "u-admin", Username: "admin", Role: model.RoleSuperAdmin},
			"u-reader": {ID: "u-reader", Username: "reader", Role: model.RoleReader},
		},
		revoked: map[string]bool{},
	}

	r := gin.New()
	auth := AuthMiddleware(jwt, users)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.POST("/articles", auth, RequireRoles(model.RoleSuperAdmin), ok)
	r.GET("/languages", auth, RequireRoles(model.RoleSuperAdmin, model.RoleReader), ok)

	issue := func(id, role string) string {
		tok, err := jwt.GenerateToken(id, "name", role)
		require.NoError(t, err)
		return tok
	}
	adminTok := issue("u-admin", model.RoleSuperAdmin)
	readerTok := issue("u-reader", model.RoleReader)
	ghostTok := issue("u-ghost", model.RoleSuperAdmin)
	refreshTok, err := jwt.GenerateRefreshToken("u-admin", "admin", model.RoleSuperAdmin)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		header string
		want   int
	}{
		{"缺少授权头", http.MethodPost, "/articles", "", http.StatusUnauthorized},
		{"格式错误", http.MethodPost, "/articles", "Token " + adminTok, http.StatusUnauthorized},
		{"无效 token", http.MethodPost, "/articles", "Bearer nope", http.StatusUnauthorized},
		{"refresh token 不能访问", http.MethodPost, "/articles", "Bearer " + refreshTok, http.StatusUnauthorized},
		{"用户不存在", http.MethodPost, "/articles", "Bearer " + ghostTok, http.StatusUnauthorized},
		{"管理员写入", http.MethodPost, "/articles", "Bearer " + adminTok, http.StatusOK},
		{"只读用户写入", http.MethodPost, "/articles", "Bearer " + readerTok, http.StatusForbidden},
		{"只读用户读取语言", http.MethodGet, "/languages", "Bearer " + readerTok, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	t.Run("已登出的 token", func(t *testing.T) {
		users.revoked[adminTok] = true
		defer delete(users.revoked, adminTok)
		req := httptest.NewRequest(http.MethodPost, "/articles", nil)
		req.Header.Set("Authorization", "Bearer "+adminTok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRolesWithoutAuth(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireRoles(model.RoleSuperAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
