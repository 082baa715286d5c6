package pipeline

import (
	"context"
	"errors"
	"testing"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/internal/testutil"
	"portfolio-cms/pkg/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	docs      map[string]model.ArticleDocument
	deleted   []string
	failIndex bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: map[string]model.ArticleDocument{}}
}

func (f *fakeIndex) IndexArticle(_ context.Context, doc model.ArticleDocument) error {
	if f.failIndex {
		return errors.New("index unavailable")
	}
	f.docs[doc.TranslationID] = doc
	return nil
}

func (f *fakeIndex) DeleteArticle(_ context.Context, articleID string) error {
	f.deleted = append(f.deleted, articleID)
	for id, d := range f.docs {
		if d.ArticleID == articleID {
			delete(f.docs, id)
		}
	}
	return nil
}

type countingSitemap struct{ calls int }

func (c *countingSitemap) Refresh(context.Context) ([]byte, error) {
	c.calls++
	return nil, nil
}

func seedArticle(t *testing.T, repo repository.ArticleRepository, langs repository.LanguageRepository) (*model.Article, []model.ArticleTranslation) {
	t.Helper()
	ctx := context.Background()
	en := &model.Language{Name: "English", Code: "en"}
	es := &model.Language{Name: "Español", Code: "es"}
	require.NoError(t, langs.Create(ctx, en))
	require.NoError(t, langs.Create(ctx, es))

	a := &model.Article{}
	require.NoError(t, repo.Create(ctx, a))
	ts := []model.ArticleTranslation{
		{ArticleID: a.ID, LanguageID: en.ID, Title: "Hello", URL: "hello", Content: "body"},
		{ArticleID: a.ID, LanguageID: es.ID, Title: "Hola", URL: "hola", Promo: "promo"},
	}
	for i := range ts {
		require.NoError(t, repo.CreateTranslation(ctx, &ts[i]))
	}
	return a, ts
}

func TestProcessIndexesEveryTranslation(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewArticleRepository(db)
	a, ts := seedArticle(t, repo, repository.NewLanguageRepository(db))

	idx := newFakeIndex()
	sm := &countingSitemap{}
	p := NewProcessor(idx, repo, sm)
	ctx := context.Background()

	require.NoError(t, p.Process(ctx, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionUpdated, a.ID)))
	require.Len(t, idx.docs, 2)
	assert.Equal(t, "en", idx.docs[ts[0].ID].Language)
	assert.Equal(t, "hola", idx.docs[ts[1].ID].URL)
	assert.Equal(t, 1, sm.calls)

	// 删除一条翻译后重新处理，索引中只剩一条
	require.NoError(t, repo.DeleteTranslation(ctx, ts[1].ID))
	require.NoError(t, p.Process(ctx, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionUpdated, a.ID)))
	assert.Len(t, idx.docs, 1)

	require.NoError(t, p.Process(ctx, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionDeleted, a.ID)))
	assert.Empty(t, idx.docs)
	assert.Equal(t, 3, sm.calls)
}

func TestProcessFailureIsReturned(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewArticleRepository(db)
	a, _ := seedArticle(t, repo, repository.NewLanguageRepository(db))

	idx := newFakeIndex()
	idx.failIndex = true
	sm := &countingSitemap{}
	err := NewDirectPublisher(NewProcessor(idx, repo, sm)).
		Publish(context.Background(), tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionCreated, a.ID))
	assert.Error(t, err)
	assert.Equal(t, 0, sm.calls)
}

func TestProcessWithoutIndex(t *testing.T) {
	db := testutil.NewDB(t)
	sm := &countingSitemap{}
	p := NewProcessor(nil, repository.NewArticleRepository(db), sm)

	require.NoError(t, p.Process(context.Background(), tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionUpdated, "any")))
	require.NoError(t, p.Process(context.Background(), tasks.NewContentEvent("unknown", tasks.ActionUpdated, "any")))
	assert.Equal(t, 1, sm.calls)
}
