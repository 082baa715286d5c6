package handler

import (
	"net/http"

	"portfolio-cms/internal/service"
	"portfolio-cms/pkg/patch"

	"github.com/gin-gonic/gin"
)

// PdfHandler 负责站点 PDF（简历）的 API，请求体为 multipart 表单。
type PdfHandler struct {
	pdfs service.PdfService
}

// NewPdfHandler 创建一个新的 PdfHandler 实例。
func NewPdfHandler(pdfs service.PdfService) *PdfHandler {
	return &PdfHandler{pdfs: pdfs}
}

func (h *PdfHandler) Create(c *gin.Context) {
	var req service.PdfInput
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	f, closer, err := formFile(c, "file", true)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closer.Close()
	p, err := h.pdfs.Create(c.Request.Context(), req, f)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, p)
}

// Get 没有 PDF 时 data 为 null。
func (h *PdfHandler) Get(c *gin.Context) {
	p, err := h.pdfs.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, p)
}

// Update 只更新表单中出现的字段，file 可选。
func (h *PdfHandler) Update(c *gin.Context) {
	var p service.PdfPatch
	if v, ok := c.GetPostForm("fileName"); ok {
		p.FileName = patch.Of(v)
	}
	if v, ok := c.GetPostForm("metaKeywords"); ok {
		p.MetaKeywords = patch.Of(v)
	}
	f, closer, err := formFile(c, "file", false)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closer.Close()
	res, err := h.pdfs.Update(c.Request.Context(), c.Param("id"), p, f)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, res)
}

func (h *PdfHandler) Delete(c *gin.Context) {
	if err := h.pdfs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "PDF 已删除", nil)
}
