package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"portfolio-cms/internal/model"
	"portfolio-cms/pkg/patch"
	"portfolio-cms/pkg/storage"
	"portfolio-cms/pkg/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestArticleTranslationSlug(t *testing.T) {
	e := newEnv(t)
	svc := e.articleService()

	a, err := svc.Create(e.ctx, CreateArticleInput{})
	require.NoError(t, err)

	tr, err := svc.AddTranslation(e.ctx, ArticleTranslationInput{
		ArticleID: a.ID, LanguageID: e.es.ID, Title: "Título con Ñ, tildes!",
		Content: `<p>hola</p><script>alert(1)</script>`,
	})
	require.NoError(t, err)
	assert.Equal(t, "titulo-con-n-tildes", tr.URL)
	assert.Equal(t, "<p>hola</p>", tr.Content)

	t.Run("同一文章同一语言重复翻译", func(t *testing.T) {
		_, err := svc.AddTranslation(e.ctx, ArticleTranslationInput{ArticleID: a.ID, LanguageID: e.es.ID, Title: "Otro"})
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("slug 全局唯一", func(t *testing.T) {
		other, err := svc.Create(e.ctx, CreateArticleInput{})
		require.NoError(t, err)
		_, err = svc.AddTranslation(e.ctx, ArticleTranslationInput{ArticleID: other.ID, LanguageID: e.en.ID, Title: "titulo con n tildes"})
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("标题无法生成 slug", func(t *testing.T) {
		_, err := svc.AddTranslation(e.ctx, ArticleTranslationInput{ArticleID: a.ID, LanguageID: e.en.ID, Title: "!!!"})
		assert.Equal(t, KindBadRequest, KindOf(err))
	})

	t.Run("文章或语言不存在", func(t *testing.T) {
		_, err := svc.AddTranslation(e.ctx, ArticleTranslationInput{ArticleID: "missing", LanguageID: e.en.ID, Title: "x"})
		assert.Equal(t, KindNotFound, KindOf(err))
		_, err = svc.AddTranslation(e.ctx, ArticleTranslationInput{ArticleID: a.ID, LanguageID: "missing", Title: "x"})
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("按 id 与 slug 读取", func(t *testing.T) {
		byID, err := svc.Get(e.ctx, a.ID, "es")
		require.NoError(t, err)
		bySlug, err := svc.Get(e.ctx, "titulo-con-n-tildes", "es")
		require.NoError(t, err)
		assert.Equal(t, byID.TranslationID, bySlug.TranslationID)

		_, err = svc.Get(e.ctx, a.ID, "en")
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("UUID 形式的 slug", func(t *testing.T) {
		other, err := svc.Create(e.ctx, CreateArticleInput{})
		require.NoError(t, err)
		title := "3F2504E0-4F89-11D3-9A0C-0305E82C3301"
		tr, err := svc.AddTranslation(e.ctx, ArticleTranslationInput{ArticleID: other.ID, LanguageID: e.en.ID, Title: title})
		require.NoError(t, err)
		require.True(t, model.IsUUID(tr.URL), tr.URL)

		view, err := svc.Get(e.ctx, tr.URL, "en")
		require.NoError(t, err)
		assert.Equal(t, other.ID, view.ID)

		_, err = svc.Get(e.ctx, "00000000-0000-0000-0000-000000000000", "en")
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestArticleUpdateTranslationPatch(t *testing.T) {
	e := newEnv(t)
	svc := e.articleService()
	a, err := svc.Create(e.ctx, CreateArticleInput{})
	require.NoError(t, err)
	date := model.NewDate(2024, 3, 1)
	tr, err := svc.AddTranslation(e.ctx, ArticleTranslationInput{
		ArticleID: a.ID, LanguageID: e.en.ID, Title: "First Title",
		Content: "body", Promo: "promo", Date: &date,
	})
	require.NoError(t, err)

	// 未出现的字段保持不变
	got, err := svc.UpdateTranslation(e.ctx, tr.ID, ArticleTranslationPatch{Content: patch.Of("new body")})
	require.NoError(t, err)
	assert.Equal(t, "new body", got.Content)
	assert.Equal(t, "promo", got.Promo)
	assert.Equal(t, "first-title", got.URL)
	require.NotNil(t, got.Date)

	// 显式空字符串清空字段，null 清空日期，标题变化时重新生成 slug
	got, err = svc.UpdateTranslation(e.ctx, tr.ID, ArticleTranslationPatch{
		Title: patch.Of("Second Title"),
		Promo: patch.Of(""),
		Date:  patch.Field[model.Date]{Set: true, Null: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "", got.Promo)
	assert.Equal(t, "second-title", got.URL)
	assert.Nil(t, got.Date)

	stored, err := e.arts.FindTranslationByID(e.ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, "", stored.Promo)
	assert.Equal(t, "new body", stored.Content)
	assert.Nil(t, stored.Date)

	_, err = svc.UpdateTranslation(e.ctx, "missing", ArticleTranslationPatch{})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestArticleAddTagsIdempotent(t *testing.T) {
	e := newEnv(t)
	svc := e.articleService()
	a, err := svc.Create(e.ctx, CreateArticleInput{})
	require.NoError(t, err)
	tr, err := svc.AddTranslation(e.ctx, ArticleTranslationInput{ArticleID: a.ID, LanguageID: e.en.ID, Title: "Tagged"})
	require.NoError(t, err)
	golang := e.newTag(t, "go")
	sql := e.newTag(t, "sql")

	require.NoError(t, svc.AddTags(e.ctx, tr.ID, []string{golang.ID, golang.ID}))
	require.NoError(t, svc.AddTags(e.ctx, tr.ID, []string{golang.ID, sql.ID}))

	view, err := svc.Get(e.ctx, a.ID, "en")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "sql"}, view.Tags)

	err = svc.AddTags(e.ctx, tr.ID, []string{"missing"})
	assert.Equal(t, KindNotFound, KindOf(err))
	err = svc.AddTags(e.ctx, tr.ID, nil)
	assert.Equal(t, KindBadRequest, KindOf(err))

	require.NoError(t, svc.RemoveTag(e.ctx, tr.ID, sql.ID))
	view, err = svc.Get(e.ctx, a.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, view.Tags)
}

func TestArticleDeleteCascades(t *testing.T) {
	e := newEnv(t)
	svc := e.articleService()
	a, err := svc.Create(e.ctx, CreateArticleInput{})
	require.NoError(t, err)
	tr, err := svc.AddTranslation(e.ctx, ArticleTranslationInput{ArticleID: a.ID, LanguageID: e.en.ID, Title: "Doomed"})
	require.NoError(t, err)
	tag := e.newTag(t, "go")
	require.NoError(t, svc.AddTags(e.ctx, tr.ID, []string{tag.ID}))

	require.NoError(t, svc.Delete(e.ctx, a.ID))

	_, err = e.arts.FindTranslationByID(e.ctx, tr.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	_, err = svc.Get(e.ctx, a.ID, "en")
	assert.Equal(t, KindNotFound, KindOf(err))
	// 标签本身不受影响
	_, err = e.tags.FindByID(e.ctx, tag.ID)
	assert.NoError(t, err)

	assert.Equal(t, KindNotFound, KindOf(svc.Delete(e.ctx, a.ID)))
	assert.Equal(t, []string{tasks.ActionCreated, tasks.ActionUpdated, tasks.ActionUpdated, tasks.ActionDeleted}, e.events.actions())
}

func TestArticleCreateWithCategory(t *testing.T) {
	e := newEnv(t)
	svc := e.articleService()

	missing := "missing"
	_, err := svc.Create(e.ctx, CreateArticleInput{CategoryID: &missing})
	assert.Equal(t, KindNotFound, KindOf(err))

	cat, err := e.categoryService().Create(e.ctx)
	require.NoError(t, err)
	a, err := svc.Create(e.ctx, CreateArticleInput{CategoryID: &cat.ID})
	require.NoError(t, err)
	require.NotNil(t, a.CategoryID)

	// 删除分类后文章保留，分类置空
	require.NoError(t, e.categoryService().Delete(e.ctx, cat.ID))
	got, err := e.arts.FindByID(e.ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
}

func TestArticleUploadImageReplacesOld(t *testing.T) {
	e := newEnv(t)
	svc := e.articleService()
	a, err := svc.Create(e.ctx, CreateArticleInput{})
	require.NoError(t, err)

	first, err := svc.UploadImage(e.ctx, a.ID, file("cover.png", pngHeader))
	require.NoError(t, err)
	require.NotNil(t, first.Image)
	firstPath := filepath.Join(e.store.Dir(), storage.ObjectKey(*first.Image))
	_, err = os.Stat(firstPath)
	require.NoError(t, err)

	second, err := svc.UploadImage(e.ctx, a.ID, file("cover 2.png", pngHeader))
	require.NoError(t, err)
	assert.NotEqual(t, *first.Image, *second.Image)
	_, err = os.Stat(firstPath)
	assert.True(t, os.IsNotExist(err), "旧图片应被删除")

	_, err = svc.UploadImage(e.ctx, a.ID, file("notes.txt", []byte("plain text")))
	assert.Equal(t, KindBadRequest, KindOf(err))
	_, err = svc.UploadImage(e.ctx, a.ID, nil)
	assert.Equal(t, KindBadRequest, KindOf(err))
	_, err = svc.UploadImage(e.ctx, "missing", file("cover.png", pngHeader))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestArticlePaginateValidation(t *testing.T) {
	e := newEnv(t)
	svc := e.articleService()

	_, err := svc.Paginate(e.ctx, model.ArticleQuery{})
	assert.Equal(t, KindBadRequest, KindOf(err))
	_, err = svc.Paginate(e.ctx, model.ArticleQuery{Lang: "en", Page: -1})
	assert.Equal(t, KindBadRequest, KindOf(err))

	page, err := svc.Paginate(e.ctx, model.ArticleQuery{Lang: "en", Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, maxLimit, page.Limit)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(0), page.Total)
}
