package handler

import (
	"net/http"

	"portfolio-cms/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler 负责联系表单消息的 API。
type ContactHandler struct {
	contacts service.ContactService
}

// NewContactHandler 创建一个新的 ContactHandler 实例。
func NewContactHandler(contacts service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func (h *ContactHandler) Create(c *gin.Context) {
	var req service.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	m, err := h.contacts.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, m)
}

func (h *ContactHandler) List(c *gin.Context) {
	msgs, err := h.contacts.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, msgs)
}

func (h *ContactHandler) Get(c *gin.Context) {
	m, err := h.contacts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, m)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.contacts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "消息已删除", nil)
}
