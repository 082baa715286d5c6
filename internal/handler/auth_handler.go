package handler

import (
	"net/http"

	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/service"
	"portfolio-cms/pkg/log"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责登录、刷新 token 与登出。
type AuthHandler struct {
	userService service.UserService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// LoginRequest 定义了用户登录 API 的请求体结构。
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求。
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		log.Warnf("Login: 用户 '%s' 认证失败, error: %v", req.Username, err)
		respondError(c, err)
		return
	}
	log.Infof("用户 '%s' 登录成功", req.Username)
	respond(c, http.StatusOK, "Login successful", res)
}

// RefreshTokenRequest 定义了刷新 token API 的请求体结构。
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken 处理刷新 token 的请求。
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.userService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		log.Warnf("RefreshToken: 刷新失败, error: %v", err)
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Token refreshed successfully", res)
}

// Logout 使当前 access token 失效。
func (h *AuthHandler) Logout(c *gin.Context) {
	tok := c.GetString(middleware.ContextTokenKey)
	if err := h.userService.Logout(c.Request.Context(), tok); err != nil {
		respondError(c, err)
		return
	}
	if user, found := middleware.CurrentUser(c); found {
		log.Infof("用户 '%s' 已登出", user.Username)
	}
	respond(c, http.StatusOK, "登出成功", nil)
}

// Profile 返回当前登录用户。
func (h *AuthHandler) Profile(c *gin.Context) {
	user, found := middleware.CurrentUser(c)
	if !found {
		respond(c, http.StatusUnauthorized, "无法获取用户信息", nil)
		return
	}
	ok(c, user)
}
