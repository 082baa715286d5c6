package handler

import (
	"net/http"

	"portfolio-cms/internal/service"

	"github.com/gin-gonic/gin"
)

// SitemapHandler 输出站点地图 XML。
type SitemapHandler struct {
	sitemap service.SitemapService
}

// NewSitemapHandler 创建一个新的 SitemapHandler 实例。
func NewSitemapHandler(sitemap service.SitemapService) *SitemapHandler {
	return &SitemapHandler{sitemap: sitemap}
}

func (h *SitemapHandler) Get(c *gin.Context) {
	data, err := h.sitemap.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", data)
}
