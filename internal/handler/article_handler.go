package handler

import (
	"net/http"
	"strconv"
	"strings"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/service"

	"github.com/gin-gonic/gin"
)

// ArticleHandler 负责文章及其翻译、标签、封面与检索的 API。
type ArticleHandler struct {
	articles service.ArticleService
	search   service.SearchService
}

// NewArticleHandler 创建一个新的 ArticleHandler 实例。
func NewArticleHandler(articles service.ArticleService, search service.SearchService) *ArticleHandler {
	return &ArticleHandler{articles: articles, search: search}
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req service.CreateArticleInput
	if err := bindOptionalJSON(c, &req); err != nil {
		bindError(c, err)
		return
	}
	a, err := h.articles.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, a)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.articles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "文章已删除", nil)
}

func (h *ArticleHandler) AddTranslation(c *gin.Context) {
	var req service.ArticleTranslationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.articles.AddTranslation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, t)
}

func (h *ArticleHandler) List(c *gin.Context) {
	views, err := h.articles.ListByLanguage(c.Request.Context(), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, views)
}

// Paginated 支持 page、limit、category 以及逗号分隔或重复出现的 tags 参数。
func (h *ArticleHandler) Paginated(c *gin.Context) {
	q := model.ArticleQuery{Lang: c.Query("lang"), Category: c.Query("category")}
	var err error
	if q.Page, err = intQuery(c, "page"); err != nil {
		respondError(c, err)
		return
	}
	if q.Limit, err = intQuery(c, "limit"); err != nil {
		respondError(c, err)
		return
	}
	for _, raw := range c.QueryArray("tags") {
		q.Tags = append(q.Tags, strings.Split(raw, ",")...)
	}

	page, err := h.articles.Paginate(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, page)
}

func (h *ArticleHandler) Search(c *gin.Context) {
	size, err := intQuery(c, "size")
	if err != nil {
		respondError(c, err)
		return
	}
	hits, err := h.search.Search(c.Request.Context(), c.Query("lang"), c.Query("q"), size)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, hits)
}

// Get 的路径参数可以是文章 ID 或 slug。
func (h *ArticleHandler) Get(c *gin.Context) {
	view, err := h.articles.Get(c.Request.Context(), c.Param("id"), c.Query("lang"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, view)
}

func (h *ArticleHandler) UpdateTranslation(c *gin.Context) {
	var req service.ArticleTranslationPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.articles.UpdateTranslation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, t)
}

func (h *ArticleHandler) DeleteTranslation(c *gin.Context) {
	if err := h.articles.DeleteTranslation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "文章翻译已删除", nil)
}

func (h *ArticleHandler) UploadImage(c *gin.Context) {
	f, closer, err := formFile(c, "image", true)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closer.Close()
	a, err := h.articles.UploadImage(c.Request.Context(), c.Param("id"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, a)
}

func (h *ArticleHandler) AddTags(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.articles.AddTags(c.Request.Context(), c.Param("id"), req.TagIDs); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "标签已添加", nil)
}

func (h *ArticleHandler) RemoveTag(c *gin.Context) {
	if err := h.articles.RemoveTag(c.Request.Context(), c.Param("id"), c.Param("tagId")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "标签已移除", nil)
}

// intQuery 解析可选的整数查询参数，缺省时返回 0。
func intQuery(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, service.BadRequest(name + " 必须为整数")
	}
	return n, nil
}
