package handler

import (
	"net/http"

	"portfolio-cms/internal/service"

	"github.com/gin-gonic/gin"
)

// AchievementHandler 负责学术成就的 API。
type AchievementHandler struct {
	achievements service.AchievementService
}

// NewAchievementHandler 创建一个新的 AchievementHandler 实例。
func NewAchievementHandler(achievements service.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

func (h *AchievementHandler) Create(c *gin.Context) {
	a, err := h.achievements.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, a)
}

func (h *AchievementHandler) Delete(c *gin.Context) {
	if err := h.achievements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "学术成就已删除", nil)
}

func (h *AchievementHandler) AddTranslation(c *gin.Context) {
	var req service.AchievementTranslationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.achievements.AddTranslation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, t)
}

func (h *AchievementHandler) List(c *gin.Context) {
	views, err := h.achievements.ListByLanguage(c.Request.Context(), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, views)
}

func (h *AchievementHandler) Get(c *gin.Context) {
	view, err := h.achievements.Get(c.Request.Context(), c.Param("id"), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, view)
}

func (h *AchievementHandler) UpdateTranslation(c *gin.Context) {
	var req service.AchievementTranslationPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.achievements.UpdateTranslation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, t)
}

func (h *AchievementHandler) DeleteTranslation(c *gin.Context) {
	if err := h.achievements.DeleteTranslation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "学术成就翻译已删除", nil)
}

func (h *AchievementHandler) UploadImage(c *gin.Context) {
	f, closer, err := formFile(c, "image", true)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closer.Close()
	a, err := h.achievements.UploadImage(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, a)
}
