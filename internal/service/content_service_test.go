package service

import (
	"testing"

	"portfolio-cms/pkg/patch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageService(t *testing.T) {
	e := newEnv(t)
	svc := e.languageService()

	fr, err := svc.Create(e.ctx, CreateLanguageInput{Name: " Français ", Code: "FR"})
	require.NoError(t, err)
	assert.Equal(t, "Français", fr.Name)
	assert.Equal(t, "fr", fr.Code)

	_, err = svc.Create(e.ctx, CreateLanguageInput{Name: "English", Code: "en2"})
	assert.Equal(t, KindConflict, KindOf(err))

	got, err := svc.Update(e.ctx, fr.ID, LanguagePatch{Name: patch.Of("French")})
	require.NoError(t, err)
	assert.Equal(t, "French", got.Name)
	assert.Equal(t, "fr", got.Code)

	_, err = svc.Update(e.ctx, fr.ID, LanguagePatch{Code: patch.Of("  ")})
	assert.Equal(t, KindBadRequest, KindOf(err))

	list, err := svc.List(e.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = svc.Get(e.ctx, "missing")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestLanguageDeleteCascadesTranslations(t *testing.T) {
	e := newEnv(t)
	cats := e.categoryService()
	cat, err := cats.Create(e.ctx)
	require.NoError(t, err)
	tr, err := cats.AddTranslation(e.ctx, CategoryTranslationInput{CategoryID: cat.ID, LanguageID: e.es.ID, Name: "Programación"})
	require.NoError(t, err)

	require.NoError(t, e.languageService().Delete(e.ctx, e.es.ID))

	ok, err := e.cats.TranslationExists(e.ctx, cat.ID, e.es.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, KindNotFound, KindOf(cats.DeleteTranslation(e.ctx, tr.ID)))
	assert.Equal(t, KindNotFound, KindOf(e.languageService().Delete(e.ctx, e.es.ID)))
}

func TestCategoryTranslations(t *testing.T) {
	e := newEnv(t)
	svc := e.categoryService()
	cat, err := svc.Create(e.ctx)
	require.NoError(t, err)

	_, err = svc.AddTranslation(e.ctx, CategoryTranslationInput{CategoryID: cat.ID, LanguageID: e.en.ID, Name: "Programming", Description: "code"})
	require.NoError(t, err)
	_, err = svc.AddTranslation(e.ctx, CategoryTranslationInput{CategoryID: cat.ID, LanguageID: e.en.ID, Name: "Again"})
	assert.Equal(t, KindConflict, KindOf(err))

	// description 缺省时保持原值
	tr, err := svc.UpdateTranslationByLanguage(e.ctx, cat.ID, "en", NamePatch{Name: patch.Of("Software")})
	require.NoError(t, err)
	assert.Equal(t, "Software", tr.Name)
	assert.Equal(t, "code", tr.Description)

	_, err = svc.UpdateTranslationByLanguage(e.ctx, cat.ID, "es", NamePatch{Name: patch.Of("Software")})
	assert.Equal(t, KindNotFound, KindOf(err))

	view, err := svc.Get(e.ctx, cat.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, "Software", view.Name)
	assert.Equal(t, "en", view.Language)

	items, err := svc.ListByLanguage(e.ctx, "en")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, cat.ID, items[0].ID)

	items, err = svc.ListByLanguage(e.ctx, "de")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.ListByLanguage(e.ctx, "")
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestTagTranslations(t *testing.T) {
	e := newEnv(t)
	svc := e.tagService()
	tag := e.newTag(t, "golang")

	_, err := svc.AddTranslation(e.ctx, TagTranslationInput{TagID: tag.ID, LanguageID: e.en.ID, Name: "dup"})
	assert.Equal(t, KindConflict, KindOf(err))
	_, err = svc.AddTranslation(e.ctx, TagTranslationInput{TagID: "missing", LanguageID: e.en.ID, Name: "x"})
	assert.Equal(t, KindNotFound, KindOf(err))

	view, err := svc.Get(e.ctx, tag.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, "golang", view.Name)

	tr, err := svc.UpdateTranslation(e.ctx, view.TagTranslationID, NamePatch{Description: patch.Of("lang")})
	require.NoError(t, err)
	assert.Equal(t, "golang", tr.Name)
	assert.Equal(t, "lang", tr.Description)

	require.NoError(t, svc.Delete(e.ctx, tag.ID))
	_, err = svc.Get(e.ctx, tag.ID, "en")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestExperienceLinkedArticles(t *testing.T) {
	e := newEnv(t)
	arts := e.articleService()
	svc := NewExperienceService(e.tx, e.exps, e.langs, e.arts)

	a, err := arts.Create(e.ctx, CreateArticleInput{})
	require.NoError(t, err)
	_, err = arts.AddTranslation(e.ctx, ArticleTranslationInput{ArticleID: a.ID, LanguageID: e.en.ID, Title: "Linked Post"})
	require.NoError(t, err)

	exp, err := svc.Create(e.ctx)
	require.NoError(t, err)
	_, err = svc.AddTranslation(e.ctx, ExperienceTranslationInput{ExperienceID: exp.ID, LanguageID: e.en.ID, Title: "Backend dev"})
	require.NoError(t, err)

	require.NoError(t, svc.AddArticles(e.ctx, exp.ID, []string{a.ID, a.ID}))
	require.NoError(t, svc.AddArticles(e.ctx, exp.ID, []string{a.ID}))
	assert.Equal(t, KindNotFound, KindOf(svc.AddArticles(e.ctx, exp.ID, []string{"missing"})))

	view, err := svc.Get(e.ctx, exp.ID, "en")
	require.NoError(t, err)
	require.Len(t, view.Articles, 1)
	assert.Equal(t, "Linked Post", view.Articles[0].Title)
	assert.Equal(t, "linked-post", view.Articles[0].URL)

	require.NoError(t, svc.RemoveArticle(e.ctx, exp.ID, a.ID))
	view, err = svc.Get(e.ctx, exp.ID, "en")
	require.NoError(t, err)
	assert.Empty(t, view.Articles)
}

func TestBannerTagsAndImage(t *testing.T) {
	e := newEnv(t)
	svc := NewBannerService(e.tx, e.banners, e.langs, e.tags, e.store, e.upload)

	b, err := svc.Create(e.ctx)
	require.NoError(t, err)
	_, err = svc.AddTranslation(e.ctx, BannerTranslationInput{BannerID: b.ID, LanguageID: e.en.ID, Title: "Hello", Role: "Engineer"})
	require.NoError(t, err)
	tag := e.newTag(t, "cloud")

	require.NoError(t, svc.AddTags(e.ctx, b.ID, []string{tag.ID}))
	require.NoError(t, svc.AddTags(e.ctx, b.ID, []string{tag.ID}))

	updated, err := svc.UploadImage(e.ctx, b.ID, file("hero.png", pngHeader))
	require.NoError(t, err)
	require.NotNil(t, updated.Image)

	view, err := svc.Get(e.ctx, b.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"cloud"}, view.Tags)
	assert.Equal(t, "Engineer", view.Role)
	require.NotNil(t, view.Image)
	assert.Equal(t, *updated.Image, *view.Image)
}

func TestContactService(t *testing.T) {
	e := newEnv(t)
	svc := NewContactService(e.msgs)

	m, err := svc.Create(e.ctx, ContactInput{Email: "a@example.com", Message: "<b>Hi</b> there"})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", m.Message)

	_, err = svc.Create(e.ctx, ContactInput{Email: "a@example.com", Message: "<script>x</script>"})
	assert.Equal(t, KindBadRequest, KindOf(err))

	list, err := svc.List(e.ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(e.ctx, m.ID))
	assert.Equal(t, KindNotFound, KindOf(svc.Delete(e.ctx, m.ID)))
}
