package handler

import (
	"net/http"

	"portfolio-cms/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 负责分类的 API。
type CategoryHandler struct {
	categories service.CategoryService
}

// NewCategoryHandler 创建一个新的 CategoryHandler 实例。
func NewCategoryHandler(categories service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	cat, err := h.categories.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, cat)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "分类已删除", nil)
}

func (h *CategoryHandler) AddTranslation(c *gin.Context) {
	var req service.CategoryTranslationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.categories.AddTranslation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, t)
}

func (h *CategoryHandler) List(c *gin.Context) {
	items, err := h.categories.ListByLanguage(c.Request.Context(), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, items)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	view, err := h.categories.Get(c.Request.Context(), c.Param("id"), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, view)
}

func (h *CategoryHandler) UpdateTranslation(c *gin.Context) {
	var req service.NamePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.categories.UpdateTranslation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, t)
}

// UpdateTranslationByLanguage 通过分类 ID 与 lang 查询参数定位翻译。
func (h *CategoryHandler) UpdateTranslationByLanguage(c *gin.Context) {
	var req service.NamePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.categories.UpdateTranslationByLanguage(c.Request.Context(), c.Param("id"), c.Query("lang"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, t)
}

func (h *CategoryHandler) DeleteTranslation(c *gin.Context) {
	if err := h.categories.DeleteTranslation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "分类翻译已删除", nil)
}

// TagHandler 负责标签的 API。
type TagHandler struct {
	tags service.TagService
}

// NewTagHandler 创建一个新的 TagHandler 实例。
func NewTagHandler(tags service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

func (h *TagHandler) Create(c *gin.Context) {
	tag, err := h.tags.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, tag)
}

func (h *TagHandler) Delete(c *gin.Context) {
	if err := h.tags.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "标签已删除", nil)
}

func (h *TagHandler) AddTranslation(c *gin.Context) {
	var req service.TagTranslationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.tags.AddTranslation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, t)
}

func (h *TagHandler) List(c *gin.Context) {
	items, err := h.tags.ListByLanguage(c.Request.Context(), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, items)
}

func (h *TagHandler) Get(c *gin.Context) {
	view, err := h.tags.Get(c.Request.Context(), c.Param("id"), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, view)
}

func (h *TagHandler) UpdateTranslation(c *gin.Context) {
	var req service.NamePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.tags.UpdateTranslation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, t)
}

func (h *TagHandler) UpdateTranslationByLanguage(c *gin.Context) {
	var req service.NamePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.tags.UpdateTranslationByLanguage(c.Request.Context(), c.Param("id"), c.Query("lang"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, t)
}

func (h *TagHandler) DeleteTranslation(c *gin.Context) {
	if err := h.tags.DeleteTranslation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "标签翻译已删除", nil)
}
