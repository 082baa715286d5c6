package handler

import (
	"net/http"

	"portfolio-cms/internal/service"
	"portfolio-cms/pkg/log"

	"github.com/gin-gonic/gin"
)

// SetupTokenHeader 初始化账号时携带一次性令牌的请求头。
const SetupTokenHeader = "X-Setup-Token"

// UserHandler 负责初始账号的创建。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// InitUsers 在系统没有任何用户时创建管理员与只读账号。
func (h *UserHandler) InitUsers(c *gin.Context) {
	var req service.InitUsersInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	users, err := h.userService.InitUsers(c.Request.Context(), c.GetHeader(SetupTokenHeader), req)
	if err != nil {
		log.Warnf("InitUsers: 初始化账号失败, error: %v", err)
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "初始账号创建成功", users)
}
