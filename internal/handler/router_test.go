package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/model"
	"portfolio-cms/internal/pipeline"
	"portfolio-cms/internal/repository"
	"portfolio-cms/internal/service"
	"portfolio-cms/internal/testutil"
	"portfolio-cms/pkg/cache"
	"portfolio-cms/pkg/storage"
	"portfolio-cms/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const setupToken = "setup-secret"

type testApp struct {
	t      *testing.T
	router *gin.Engine
	store  cache.Store
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	uploads, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	store := cache.NewMemoryStore(1024, 4)
	jwt := token.NewJWTManager("test-secret", 15, 7)
	uploadCfg := config.UploadConfig{MaxImageSizeMB: 1, MaxPDFSizeMB: 1}

	tx := repository.NewTransactor(db)
	langs := repository.NewLanguageRepository(db)
	arts := repository.NewArticleRepository(db)
	cats := repository.NewCategoryRepository(db)
	tags := repository.NewTagRepository(db)

	sitemap := service.NewSitemapService("https://example.com", langs, arts, store)
	publisher := pipeline.NewDirectPublisher(pipeline.NewProcessor(nil, arts, sitemap))

	svc := Services{
		Articles:     service.NewArticleService(tx, arts, langs, cats, tags, uploads, uploadCfg, publisher),
		Banners:      service.NewBannerService(tx, repository.NewBannerRepository(db), langs, tags, uploads, uploadCfg),
		Achievements: service.NewAchievementService(tx, repository.NewAchievementRepository(db), langs, uploads, uploadCfg),
		Experiences:  service.NewExperienceService(tx, repository.NewExperienceRepository(db), langs, arts),
		Categories:   service.NewCategoryService(tx, cats, langs),
		Tags:         service.NewTagService(tx, tags, langs),
		Languages:    service.NewLanguageService(tx, langs),
		Contacts:     service.NewContactService(repository.NewContactRepository(db)),
		Pdfs:         service.NewPdfService(tx, repository.NewPdfRepository(db), uploads, uploadCfg),
		Users:        service.NewUserService(tx, repository.NewUserRepository(db), jwt, store, setupToken),
		Search:       service.NewSearchService(nil, arts),
		Sitemap:      sitemap,
	}
	r := NewRouter(svc, RouterOptions{JWT: jwt, Cache: store, CacheTTL: time.Minute, Uploads: uploads})
	return &testApp{t: t, router: r, store: store}
}

func (a *testApp) do(method, path, tok string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, tok)
}

func (a *testApp) send(req *http.Request, tok string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (a *testApp) initUsers() (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/init-users", bytes.NewReader(mustJSON(a.t, service.InitUsersInput{
		SuperadminUsername: "admin", SuperadminPassword: "admin-password", SuperadminRole: model.RoleSuperAdmin,
		AnonymousUsername: "reader", AnonymousPassword: "reader-password", AnonymousRole: model.RoleReader,
	})))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SetupTokenHeader, setupToken)
	return a.send(req, "")
}

// login 初始化账号并返回管理员与只读用户的 token。
func (a *testApp) login() (string, string) {
	a.t.Helper()
	w, _ := a.initUsers()
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	tokenFor := func(user, pass string) string {
		w, env := a.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: user, Password: pass})
		require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
		var res struct {
			Token string `json:"token"`
		}
		require.NoError(a.t, json.Unmarshal(env.Data, &res))
		return res.Token
	}
	return tokenFor("admin", "admin-password"), tokenFor("reader", "reader-password")
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestArticleFlowWithCache(t *testing.T) {
	app := newTestApp(t)
	adminTok, readerTok := app.login()

	w, env := app.do(http.MethodPost, "/api/v1/languages", adminTok, service.CreateLanguageInput{Name: "English", Code: "EN"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lang := decode[model.Language](t, env)
	assert.Equal(t, "en", lang.Code)

	// 权限
	w, _ = app.do(http.MethodPost, "/api/v1/articles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = app.do(http.MethodPost, "/api/v1/articles", readerTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = app.do(http.MethodPost, "/api/v1/articles", adminTok, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	article := decode[model.Article](t, env)

	w, env = app.do(http.MethodPost, "/api/v1/articles/translations", adminTok, map[string]interface{}{
		"articleId": article.ID, "languageId": lang.ID, "title": "Hello World", "promo": "intro", "date": "2024-01-02",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tr := decode[model.ArticleTranslation](t, env)
	assert.Equal(t, "hello-world", tr.URL)

	detail := "/api/v1/articles/hello-world?lang=en"
	w, env = app.do(http.MethodGet, detail, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	view := decode[model.ArticleView](t, env)
	assert.Equal(t, "Hello World", view.Title)
	assert.Equal(t, "2024-01-02", view.Date.Format("2006-01-02"))

	w, _ = app.do(http.MethodGet, detail, "", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	_, err := app.store.Get(context.Background(), "articles:detail:hello-world:en")
	require.NoError(t, err)

	// 更新后缓存失效；promo 为空字符串时被清空，未出现的字段不变
	w, _ = app.do(http.MethodPut, "/api/v1/articles/translations/"+tr.ID, adminTok, map[string]interface{}{"promo": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, env = app.do(http.MethodGet, detail, "", nil)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	view = decode[model.ArticleView](t, env)
	assert.Equal(t, "", view.Promo)
	assert.Equal(t, "Hello World", view.Title)

	w, env = app.do(http.MethodGet, "/api/v1/articles/paginated?lang=en&page=1&limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[model.ArticlePage](t, env)
	assert.Equal(t, int64(1), page.Total)

	w, _ = app.do(http.MethodGet, "/api/v1/articles/paginated?lang=en&page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = app.do(http.MethodGet, "/api/v1/articles/search?lang=en&q=hello", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.SearchHit](t, env), 1)

	w, _ = app.do(http.MethodGet, "/api/v1/articles/search?lang=en", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.do(http.MethodGet, "/sitemap.xml", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "https://example.com/en/articles/hello-world")

	w, _ = app.do(http.MethodDelete, "/api/v1/articles/"+article.ID, adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = app.do(http.MethodGet, detail, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, http.StatusNotFound, env.Code)
}

func TestRolePolicy(t *testing.T) {
	app := newTestApp(t)
	adminTok, readerTok := app.login()

	w, _ := app.do(http.MethodGet, "/api/v1/languages", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = app.do(http.MethodGet, "/api/v1/languages", readerTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(http.MethodPost, "/api/v1/languages", readerTok, service.CreateLanguageInput{Name: "Deutsch", Code: "de"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.do(http.MethodPost, "/api/v1/contact", readerTok, service.ContactInput{Email: "a@example.com", Message: "hi"})
	assert.Equal(t, http.StatusCreated, w.Code)
	w, _ = app.do(http.MethodGet, "/api/v1/contact", readerTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, env := app.do(http.MethodGet, "/api/v1/contact", adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.ContactMessage](t, env), 1)

	w, env = app.do(http.MethodPost, "/api/v1/contact", readerTok, map[string]string{"email": "not-an-email", "message": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "Email")

	// 公开读取
	w, env = app.do(http.MethodGet, "/api/v1/pdf", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", string(env.Data))

	// 初始化只能执行一次
	w, _ = app.initUsers()
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 登出后 token 失效
	w, _ = app.do(http.MethodPost, "/api/v1/auth/logout", readerTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = app.do(http.MethodGet, "/api/v1/auth/me", readerTok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = app.do(http.MethodGet, "/api/v1/auth/me", adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUploadImageMultipart(t *testing.T) {
	app := newTestApp(t)
	adminTok, _ := app.login()

	w, env := app.do(http.MethodPost, "/api/v1/banners", adminTok, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	banner := decode[model.Banner](t, env)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "hero.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/banners/"+banner.ID+"/image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w, env = app.send(req, adminTok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[model.Banner](t, env)
	require.NotNil(t, updated.Image)

	// 本地存储的文件可以通过 /uploads 访问
	w, _ = app.do(http.MethodGet, *updated.Image, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/banners/"+banner.ID+"/image", bytes.NewReader(nil))
	w, _ = app.send(req, adminTok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArticleWritesInvalidateExperienceDetail(t *testing.T) {
	app := newTestApp(t)
	adminTok, _ := app.login()

	w, env := app.do(http.MethodPost, "/api/v1/languages", adminTok, service.CreateLanguageInput{Name: "English", Code: "en"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lang := decode[model.Language](t, env)

	w, env = app.do(http.MethodPost, "/api/v1/articles", adminTok, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	article := decode[model.Article](t, env)
	w, env = app.do(http.MethodPost, "/api/v1/articles/translations", adminTok, map[string]interface{}{
		"articleId": article.ID, "languageId": lang.ID, "title": "Old Title",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	tr := decode[model.ArticleTranslation](t, env)

	w, env = app.do(http.MethodPost, "/api/v1/experiences", adminTok, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	exp := decode[model.Experience](t, env)
	w, _ = app.do(http.MethodPost, "/api/v1/experiences/translations", adminTok, service.ExperienceTranslationInput{
		ExperienceID: exp.ID, LanguageID: lang.ID, Title: "Backend Engineer",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, _ = app.do(http.MethodPost, "/api/v1/experiences/"+exp.ID+"/articles", adminTok, map[string]interface{}{"articleIds": []string{article.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	detail := "/api/v1/experiences/" + exp.ID + "?lang=en"
	get := func() (string, model.ExperienceView) {
		w, env := app.do(http.MethodGet, detail, "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return w.Header().Get("X-Cache"), decode[model.ExperienceView](t, env)
	}

	state, view := get()
	assert.Equal(t, "MISS", state)
	require.Len(t, view.Articles, 1)
	assert.Equal(t, "Old Title", view.Articles[0].Title)
	state, _ = get()
	assert.Equal(t, "HIT", state)

	w, _ = app.do(http.MethodPut, "/api/v1/articles/translations/"+tr.ID, adminTok, map[string]interface{}{"title": "New Title"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state, view = get()
	assert.Equal(t, "MISS", state)
	require.Len(t, view.Articles, 1)
	assert.Equal(t, "New Title", view.Articles[0].Title)
	assert.Equal(t, "new-title", view.Articles[0].URL)

	w, _ = app.do(http.MethodDelete, "/api/v1/articles/"+article.ID, adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	state, view = get()
	assert.Equal(t, "MISS", state)
	assert.Empty(t, view.Articles)
}

func TestPaginatedCacheKeysAndPageBounds(t *testing.T) {
	app := newTestApp(t)
	adminTok, _ := app.login()

	w, env := app.do(http.MethodPost, "/api/v1/languages", adminTok, service.CreateLanguageInput{Name: "English", Code: "en"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	lang := decode[model.Language](t, env)
	w, env = app.do(http.MethodPost, "/api/v1/articles", adminTok, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	article := decode[model.Article](t, env)
	w, _ = app.do(http.MethodPost, "/api/v1/articles/translations", adminTok, map[string]interface{}{
		"articleId": article.ID, "languageId": lang.ID, "title": "Only One",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, env = app.do(http.MethodGet, "/api/v1/articles/paginated?lang=en&limit=100&page=100000000000000000", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode[model.ArticlePage](t, env)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	// 过滤值中的 ':' 不会让两个不同的查询共用一个缓存键
	w, _ = app.do(http.MethodGet, "/api/v1/articles/paginated?lang=en&category=x:y&tags=z", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	w, _ = app.do(http.MethodGet, "/api/v1/articles/paginated?lang=en&category=x&tags=y:z", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
}
