package service

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/internal/testutil"
	"portfolio-cms/pkg/cache"
	"portfolio-cms/pkg/storage"
	"portfolio-cms/pkg/tasks"
	"portfolio-cms/pkg/token"

	"github.com/stretchr/testify/require"
)

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	pdfHeader = []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
)

// recorder 记录发布的内容事件。
type recorder struct {
	mu     sync.Mutex
	events []tasks.ContentEvent
}

func (r *recorder) Publish(_ context.Context, evt tasks.ContentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

type env struct {
	ctx     context.Context
	tx      repository.Transactor
	store   *storage.LocalStorage
	cache   cache.Store
	events  *recorder
	jwt     *token.JWTManager
	upload  config.UploadConfig
	langs   repository.LanguageRepository
	arts    repository.ArticleRepository
	cats    repository.CategoryRepository
	tags    repository.TagRepository
	banners repository.BannerRepository
	exps    repository.ExperienceRepository
	achs    repository.AchievementRepository
	pdfs    repository.PdfRepository
	users   repository.UserRepository
	msgs    repository.ContactRepository

	en, es *model.Language
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)
	local, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	e := &env{
		ctx:     context.Background(),
		tx:      repository.NewTransactor(db),
		store:   local,
		cache:   cache.NewMemoryStore(1024, 4),
		events:  &recorder{},
		jwt:     token.NewJWTManager("test-secret", 15, 7),
		upload:  config.UploadConfig{MaxImageSizeMB: 1, MaxPDFSizeMB: 1},
		langs:   repository.NewLanguageRepository(db),
		arts:    repository.NewArticleRepository(db),
		cats:    repository.NewCategoryRepository(db),
		tags:    repository.NewTagRepository(db),
		banners: repository.NewBannerRepository(db),
		exps:    repository.NewExperienceRepository(db),
		achs:    repository.NewAchievementRepository(db),
		pdfs:    repository.NewPdfRepository(db),
		users:   repository.NewUserRepository(db),
		msgs:    repository.NewContactRepository(db),
	}
	e.en = &model.Language{Name: "English", Code: "en"}
	e.es = &model.Language{Name: "Español", Code: "es"}
	require.NoError(t, e.langs.Create(e.ctx, e.en))
	require.NoError(t, e.langs.Create(e.ctx, e.es))
	return e
}

func (e *env) articleService() ArticleService {
	return NewArticleService(e.tx, e.arts, e.langs, e.cats, e.tags, e.store, e.upload, e.events)
}

func (e *env) tagService() TagService {
	return NewTagService(e.tx, e.tags, e.langs)
}

func (e *env) categoryService() CategoryService {
	return NewCategoryService(e.tx, e.cats, e.langs)
}

func (e *env) languageService() LanguageService {
	return NewLanguageService(e.tx, e.langs)
}

func (e *env) pdfService() PdfService {
	return NewPdfService(e.tx, e.pdfs, e.store, e.upload)
}

func (e *env) userService(setupToken string) UserService {
	return NewUserService(e.tx, e.users, e.jwt, e.cache, setupToken)
}

func file(name string, content []byte) *FileInput {
	return &FileInput{Name: name, Size: int64(len(content)), Reader: bytes.NewReader(content)}
}

// newTag 创建一个带英文名称的标签。
func (e *env) newTag(t *testing.T, name string) *model.Tag {
	t.Helper()
	svc := e.tagService()
	tag, err := svc.Create(e.ctx)
	require.NoError(t, err)
	_, err = svc.AddTranslation(e.ctx, TagTranslationInput{TagID: tag.ID, LanguageID: e.en.ID, Name: name})
	require.NoError(t, err)
	return tag
}
