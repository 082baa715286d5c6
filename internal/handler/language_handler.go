package handler

import (
	"net/http"

	"portfolio-cms/internal/service"

	"github.com/gin-gonic/gin"
)

// LanguageHandler 负责语言的 API。
type LanguageHandler struct {
	languages service.LanguageService
}

// NewLanguageHandler 创建一个新的 LanguageHandler 实例。
func NewLanguageHandler(languages service.LanguageService) *LanguageHandler {
	return &LanguageHandler{languages: languages}
}

func (h *LanguageHandler) Create(c *gin.Context) {
	var req service.CreateLanguageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	lang, err := h.languages.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, lang)
}

func (h *LanguageHandler) List(c *gin.Context) {
	langs, err := h.languages.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, langs)
}

func (h *LanguageHandler) Get(c *gin.Context) {
	lang, err := h.languages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, lang)
}

func (h *LanguageHandler) Update(c *gin.Context) {
	var req service.LanguagePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	lang, err := h.languages.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, lang)
}

func (h *LanguageHandler) Delete(c *gin.Context) {
	if err := h.languages.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "语言已删除", nil)
}
