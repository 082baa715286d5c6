package handler

import (
	"net/http"

	"portfolio-cms/internal/service"

	"github.com/gin-gonic/gin"
)

// ExperienceHandler 负责工作履历及其关联文章的 API。
type ExperienceHandler struct {
	experiences service.ExperienceService
}

// NewExperienceHandler 创建一个新的 ExperienceHandler 实例。
func NewExperienceHandler(experiences service.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{experiences: experiences}
}

func (h *ExperienceHandler) Create(c *gin.Context) {
	e, err := h.experiences.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, e)
}

func (h *ExperienceHandler) Delete(c *gin.Context) {
	if err := h.experiences.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "履历已删除", nil)
}

func (h *ExperienceHandler) AddTranslation(c *gin.Context) {
	var req service.ExperienceTranslationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.experiences.AddTranslation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, t)
}

func (h *ExperienceHandler) List(c *gin.Context) {
	views, err := h.experiences.ListByLanguage(c.Request.Context(), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, views)
}

func (h *ExperienceHandler) Get(c *gin.Context) {
	view, err := h.experiences.Get(c.Request.Context(), c.Param("id"), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, view)
}

func (h *ExperienceHandler) UpdateTranslation(c *gin.Context) {
	var req service.ExperienceTranslationPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.experiences.UpdateTranslation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, t)
}

func (h *ExperienceHandler) DeleteTranslation(c *gin.Context) {
	if err := h.experiences.DeleteTranslation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "履历翻译已删除", nil)
}

func (h *ExperienceHandler) AddArticles(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.experiences.AddArticles(c.Request.Context(), c.Param("id"), req.ArticleIDs); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "文章已关联", nil)
}

func (h *ExperienceHandler) RemoveArticle(c *gin.Context) {
	if err := h.experiences.RemoveArticle(c.Request.Context(), c.Param("id"), c.Param("articleId")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "文章关联已移除", nil)
}
