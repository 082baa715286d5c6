package handler

import (
	"net/http"

	"portfolio-cms/internal/service"

	"github.com/gin-gonic/gin"
)

// BannerHandler 负责首页横幅的 API。
type BannerHandler struct {
	banners service.BannerService
}

// NewBannerHandler 创建一个新的 BannerHandler 实例。
func NewBannerHandler(banners service.BannerService) *BannerHandler {
	return &BannerHandler{banners: banners}
}

func (h *BannerHandler) Create(c *gin.Context) {
	b, err := h.banners.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, b)
}

func (h *BannerHandler) Delete(c *gin.Context) {
	if err := h.banners.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "横幅已删除", nil)
}

func (h *BannerHandler) AddTranslation(c *gin.Context) {
	var req service.BannerTranslationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.banners.AddTranslation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, t)
}

func (h *BannerHandler) List(c *gin.Context) {
	views, err := h.banners.ListByLanguage(c.Request.Context(), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, views)
}

func (h *BannerHandler) Get(c *gin.Context) {
	view, err := h.banners.Get(c.Request.Context(), c.Param("id"), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, view)
}

func (h *BannerHandler) UpdateTranslation(c *gin.Context) {
	var req service.BannerTranslationPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.banners.UpdateTranslation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, t)
}

func (h *BannerHandler) DeleteTranslation(c *gin.Context) {
	if err := h.banners.DeleteTranslation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "横幅翻译已删除", nil)
}

func (h *BannerHandler) UploadImage(c *gin.Context) {
	f, closer, err := formFile(c, "image", true)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closer.Close()
	b, err := h.banners.UploadImage(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, b)
}

func (h *BannerHandler) AddTags(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.banners.AddTags(c.Request.Context(), c.Param("id"), req.TagIDs); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "标签已添加", nil)
}

func (h *BannerHandler) RemoveTag(c *gin.Context) {
	if err := h.banners.RemoveTag(c.Request.Context(), c.Param("id"), c.Param("tagId")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "标签已移除", nil)
}
