package repository_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	articles repository.ArticleRepository
	en       *model.Language
	es       *model.Language
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	ctx := context.Background()
	langs := repository.NewLanguageRepository(db)
	en := &model.Language{Name: "English", Code: "en"}
	es := &model.Language{Name: "Español", Code: "es"}
	require.NoError(t, langs.Create(ctx, en))
	require.NoError(t, langs.Create(ctx, es))
	return &fixture{db: db, articles: repository.NewArticleRepository(db), en: en, es: es}
}

func (f *fixture) article(t *testing.T, lang *model.Language, title string, day int, categoryID *string) (*model.Article, *model.ArticleTranslation) {
	ctx := context.Background()
	a := &model.Article{CategoryID: categoryID}
	require.NoError(t, f.articles.Create(ctx, a))
	d := model.NewDate(2024, time.January, day)
	tr := &model.ArticleTranslation{
		ArticleID:  a.ID,
		LanguageID: lang.ID,
		Title:      title,
		URL:        fmt.Sprintf("%s-%s", lang.Code, a.ID),
		Content:    "content of " + title,
		Date:       &d,
	}
	require.NoError(t, f.articles.CreateTranslation(ctx, tr))
	return a, tr
}

func (f *fixture) tag(t *testing.T, lang *model.Language, name string) *model.Tag {
	ctx := context.Background()
	tags := repository.NewTagRepository(f.db)
	tag := &model.Tag{}
	require.NoError(t, tags.Create(ctx, tag))
	require.NoError(t, tags.CreateTranslation(ctx, &model.TagTranslation{TagID: tag.ID, LanguageID: lang.ID, Name: name}))
	return tag
}

func TestPaginateSplitsPagesByArticle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		f.article(t, f.en, fmt.Sprintf("Article %02d", i), i, nil)
	}
	// 其他语言的文章不计入
	f.article(t, f.es, "Artículo", 1, nil)

	page1, err := f.articles.Paginate(ctx, model.ArticleQuery{Lang: "en", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page1.Items, 10)
	assert.EqualValues(t, 12, page1.Total)
	assert.Equal(t, 2, page1.TotalPages)
	// 按日期倒序
	assert.Equal(t, "Article 12", page1.Items[0].Title)

	page2, err := f.articles.Paginate(ctx, model.ArticleQuery{Lang: "en", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page2.Items, 2)
	assert.Equal(t, "Article 01", page2.Items[1].Title)

	page3, err := f.articles.Paginate(ctx, model.ArticleQuery{Lang: "en", Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page3.Items)
	assert.NotNil(t, page3.Items)
	assert.EqualValues(t, 12, page3.Total)
	assert.Equal(t, 2, page3.TotalPages)
}

func TestPaginatePageBeyondRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.article(t, f.en, "Only One", 1, nil)

	for _, p := range []int{2, math.MaxInt / 10, math.MaxInt} {
		page, err := f.articles.Paginate(ctx, model.ArticleQuery{Lang: "en", Page: p, Limit: 100})
		require.NoError(t, err)
		assert.Empty(t, page.Items, "page=%d", p)
		assert.NotNil(t, page.Items)
		assert.EqualValues(t, 1, page.Total)
		assert.Equal(t, 1, page.TotalPages)
		assert.Equal(t, p, page.Page)
	}
}

func TestPaginateEmptyResult(t *testing.T) {
	f := newFixture(t)
	page, err := f.articles.Paginate(context.Background(), model.ArticleQuery{Lang: "fr", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPaginateAggregatesTagsWithoutDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	golang := f.tag(t, f.en, "Go")
	db := f.tag(t, f.en, "Databases")
	other := f.tag(t, f.en, "Other")

	_, tr := f.article(t, f.en, "Tagged", 5, nil)
	require.NoError(t, f.articles.AddTags(ctx, tr.ID, []string{golang.ID, db.ID, other.ID}))
	f.article(t, f.en, "Untagged", 6, nil)

	page, err := f.articles.Paginate(ctx, model.ArticleQuery{Lang: "en", Page: 1, Limit: 10, Tags: []string{"go", "databases"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, "Tagged", page.Items[0].Title)
	assert.ElementsMatch(t, []string{"Go", "Databases"}, page.Items[0].Tags)

	all, err := f.articles.Paginate(ctx, model.ArticleQuery{Lang: "en", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.ElementsMatch(t, []string{"Go", "Databases", "Other"}, all.Items[1].Tags)
	assert.Empty(t, all.Items[0].Tags)
}

func TestPaginateCategoryFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	categories := repository.NewCategoryRepository(f.db)
	cat := &model.Category{}
	require.NoError(t, categories.Create(ctx, cat))
	require.NoError(t, categories.CreateTranslation(ctx, &model.CategoryTranslation{CategoryID: cat.ID, LanguageID: f.en.ID, Name: "Backend"}))

	f.article(t, f.en, "In category", 1, &cat.ID)
	f.article(t, f.en, "Loose", 2, nil)

	page, err := f.articles.Paginate(ctx, model.ArticleQuery{Lang: "en", Page: 1, Limit: 10, Category: "backend"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].Category)
	assert.Equal(t, "Backend", *page.Items[0].Category)
}

func TestAddTagsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tag := f.tag(t, f.en, "Go")
	_, tr := f.article(t, f.en, "Title", 1, nil)

	require.NoError(t, f.articles.AddTags(ctx, tr.ID, []string{tag.ID}))
	require.NoError(t, f.articles.AddTags(ctx, tr.ID, []string{tag.ID}))

	var n int64
	require.NoError(t, f.db.Model(&model.ArticleTranslationTag{}).Where("article_translation_id = ?", tr.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	require.NoError(t, f.articles.RemoveTag(ctx, tr.ID, tag.ID))
	require.NoError(t, f.db.Model(&model.ArticleTranslationTag{}).Where("article_translation_id = ?", tr.ID).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestDeleteArticleCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tag := f.tag(t, f.en, "Go")
	a, tr := f.article(t, f.en, "Title", 1, nil)
	require.NoError(t, f.articles.AddTags(ctx, tr.ID, []string{tag.ID}))

	require.NoError(t, f.articles.Delete(ctx, a.ID))

	_, err := f.articles.FindTranslationByID(ctx, tr.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	var n int64
	require.NoError(t, f.db.Model(&model.ArticleTranslationTag{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	// 标签本身保留
	_, err = repository.NewTagRepository(f.db).FindByID(ctx, tag.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.articles.Delete(ctx, a.ID), gorm.ErrRecordNotFound)
}

func TestTranslationUniquePerLanguage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, _ := f.article(t, f.en, "First", 1, nil)

	err := f.articles.CreateTranslation(ctx, &model.ArticleTranslation{
		ArticleID: a.ID, LanguageID: f.en.ID, Title: "Second", URL: "second",
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	ok, err := f.articles.TranslationExists(ctx, a.ID, f.en.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFindViewByIDAndSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, tr := f.article(t, f.en, "Title", 1, nil)

	byID, err := f.articles.FindView(ctx, a.ID, "en", false)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, byID.TranslationID)
	assert.Equal(t, "2024-01-01", byID.Date.Format("2006-01-02"))

	bySlug, err := f.articles.FindView(ctx, tr.URL, "en", true)
	require.NoError(t, err)
	assert.Equal(t, a.ID, bySlug.ID)

	_, err = f.articles.FindView(ctx, a.ID, "es", false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSearchFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.article(t, f.en, "Concurrency in Go", 1, nil)
	f.article(t, f.en, "Cooking", 2, nil)

	res, err := f.articles.Search(ctx, "en", "concurrency", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Concurrency in Go", res[0].Title)

	res, err = f.articles.Search(ctx, "en", "100%", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestTransactionRollsBack(t *testing.T) {
	f := newFixture(t)
	tx := repository.NewTransactor(f.db)
	ctx := context.Background()

	err := tx.Transaction(ctx, func(ctx context.Context) error {
		require.NoError(t, f.articles.Create(ctx, &model.Article{}))
		return fmt.Errorf("boom")
	})
	assert.Error(t, err)

	var n int64
	require.NoError(t, f.db.Model(&model.Article{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}
