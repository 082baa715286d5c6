package handler

import (
	"time"

	"portfolio-cms/internal/middleware"
	"portfolio-cms/internal/model"
	"portfolio-cms/internal/service"
	"portfolio-cms/pkg/cache"
	"portfolio-cms/pkg/storage"
	"portfolio-cms/pkg/token"

	"github.com/gin-gonic/gin"
)

// Services 汇总路由需要的全部业务服务。
type Services struct {
	Articles     service.ArticleService
	Banners      service.BannerService
	Achievements service.AchievementService
	Experiences  service.ExperienceService
	Categories   service.CategoryService
	Tags         service.TagService
	Languages    service.LanguageService
	Contacts     service.ContactService
	Pdfs         service.PdfService
	Users        service.UserService
	Search       service.SearchService
	Sitemap      service.SitemapService
}

// RouterOptions 是路由的基础设施依赖。Uploads 非空时以其公开前缀提供静态文件。
type RouterOptions struct {
	JWT         *token.JWTManager
	Cache       cache.Store
	CacheTTL    time.Duration
	CORSOrigins []string
	Uploads     *storage.LocalStorage
}

var (
	articleKeys     = []string{"articles:*", "experiences:*", "sitemap:*"}
	categoryKeys    = []string{"categories:*", "articles:*"}
	tagKeys         = []string{"tags:*", "articles:*", "banners:*"}
	bannerKeys      = []string{"banners:*"}
	achievementKeys = []string{"achievements:*"}
	experienceKeys  = []string{"experiences:*"}
	pdfKeys         = []string{"pdf:*"}
	languageKeys    = []string{
		"languages:*", "articles:*", "banners:*", "achievements:*",
		"experiences:*", "categories:*", "tags:*", "sitemap:*",
	}
)

// NewRouter 创建 Gin 引擎并注册全部路由。
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery(), middleware.CORS(opts.CORSOrigins))

	auth := middleware.AuthMiddleware(opts.JWT, svc.Users)
	cached := func(key string) gin.HandlerFunc {
		return middleware.Cache(opts.Cache, middleware.CacheOptions{TTL: opts.CacheTTL, Key: key})
	}
	// admin 返回管理员写操作的中间件链，成功后清除相关缓存。
	admin := func(keys []string, h gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{auth, middleware.RequireRoles(model.RoleSuperAdmin), middleware.Invalidate(opts.Cache, keys...), h}
	}

	apiV1 := r.Group("/api/v1")

	users := NewUserHandler(svc.Users)
	apiV1.POST("/users/init-users", users.InitUsers)

	authH := NewAuthHandler(svc.Users)
	authGroup := apiV1.Group("/auth")
	{
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/refreshToken", authH.RefreshToken)
		authGroup.POST("/logout", auth, authH.Logout)
		authGroup.GET("/me", auth, authH.Profile)
	}

	articles := NewArticleHandler(svc.Articles, svc.Search)
	ag := apiV1.Group("/articles")
	{
		ag.GET("", cached("articles:lang:{lang}"), articles.List)
		ag.GET("/paginated", cached("articles:paginated:{lang}:{page}:{limit}:{category}:{tags}"), articles.Paginated)
		ag.GET("/search", cached("articles:search:{lang}:{q}:{size}"), articles.Search)
		ag.GET("/:id", cached("articles:detail:{id}:{lang}"), articles.Get)

		ag.POST("", admin(articleKeys, articles.Create)...)
		ag.DELETE("/:id", admin(articleKeys, articles.Delete)...)
		ag.POST("/:id/image", admin(articleKeys, articles.UploadImage)...)
		ag.POST("/translations", admin(articleKeys, articles.AddTranslation)...)
		ag.PUT("/translations/:id", admin(articleKeys, articles.UpdateTranslation)...)
		ag.DELETE("/translations/:id", admin(articleKeys, articles.DeleteTranslation)...)
		ag.POST("/translations/:id/tags", admin(articleKeys, articles.AddTags)...)
		ag.DELETE("/translations/:id/tags/:tagId", admin(articleKeys, articles.RemoveTag)...)
	}

	banners := NewBannerHandler(svc.Banners)
	bg := apiV1.Group("/banners")
	{
		bg.GET("", cached("banners:lang:{lang}"), banners.List)
		bg.GET("/:id", cached("banners:detail:{id}:{lang}"), banners.Get)

		bg.POST("", admin(bannerKeys, banners.Create)...)
		bg.DELETE("/:id", admin(bannerKeys, banners.Delete)...)
		bg.POST("/:id/image", admin(bannerKeys, banners.UploadImage)...)
		bg.POST("/:id/tags", admin(bannerKeys, banners.AddTags)...)
		bg.DELETE("/:id/tags/:tagId", admin(bannerKeys, banners.RemoveTag)...)
		bg.POST("/translations", admin(bannerKeys, banners.AddTranslation)...)
		bg.PUT("/translations/:id", admin(bannerKeys, banners.UpdateTranslation)...)
		bg.DELETE("/translations/:id", admin(bannerKeys, banners.DeleteTranslation)...)
	}

	achievements := NewAchievementHandler(svc.Achievements)
	acg := apiV1.Group("/academic-achievements")
	{
		acg.GET("", cached("achievements:lang:{lang}"), achievements.List)
		acg.GET("/:id", cached("achievements:detail:{id}:{lang}"), achievements.Get)

		acg.POST("", admin(achievementKeys, achievements.Create)...)
		acg.DELETE("/:id", admin(achievementKeys, achievements.Delete)...)
		acg.POST("/:id/image", admin(achievementKeys, achievements.UploadImage)...)
		acg.POST("/translations", admin(achievementKeys, achievements.AddTranslation)...)
		acg.PUT("/translations/:id", admin(achievementKeys, achievements.UpdateTranslation)...)
		acg.DELETE("/translations/:id", admin(achievementKeys, achievements.DeleteTranslation)...)
	}

	experiences := NewExperienceHandler(svc.Experiences)
	eg := apiV1.Group("/experiences")
	{
		eg.GET("", cached("experiences:lang:{lang}"), experiences.List)
		eg.GET("/:id", cached("experiences:detail:{id}:{lang}"), experiences.Get)

		eg.POST("", admin(experienceKeys, experiences.Create)...)
		eg.DELETE("/:id", admin(experienceKeys, experiences.Delete)...)
		eg.POST("/:id/articles", admin(experienceKeys, experiences.AddArticles)...)
		eg.DELETE("/:id/articles/:articleId", admin(experienceKeys, experiences.RemoveArticle)...)
		eg.POST("/translations", admin(experienceKeys, experiences.AddTranslation)...)
		eg.PUT("/translations/:id", admin(experienceKeys, experiences.UpdateTranslation)...)
		eg.DELETE("/translations/:id", admin(experienceKeys, experiences.DeleteTranslation)...)
	}

	categories := NewCategoryHandler(svc.Categories)
	cg := apiV1.Group("/categories")
	{
		cg.GET("", cached("categories:lang:{lang}"), categories.List)
		cg.GET("/:id", cached("categories:detail:{id}:{lang}"), categories.Get)

		cg.POST("", admin(categoryKeys, categories.Create)...)
		cg.DELETE("/:id", admin(categoryKeys, categories.Delete)...)
		cg.PUT("/:id/translations", admin(categoryKeys, categories.UpdateTranslationByLanguage)...)
		cg.POST("/translations", admin(categoryKeys, categories.AddTranslation)...)
		cg.PUT("/translations/:id", admin(categoryKeys, categories.UpdateTranslation)...)
		cg.DELETE("/translations/:id", admin(categoryKeys, categories.DeleteTranslation)...)
	}

	tags := NewTagHandler(svc.Tags)
	tg := apiV1.Group("/tags")
	{
		tg.GET("", cached("tags:lang:{lang}"), tags.List)
		tg.GET("/:id", cached("tags:detail:{id}:{lang}"), tags.Get)

		tg.POST("", admin(tagKeys, tags.Create)...)
		tg.DELETE("/:id", admin(tagKeys, tags.Delete)...)
		tg.PUT("/:id/translations", admin(tagKeys, tags.UpdateTranslationByLanguage)...)
		tg.POST("/translations", admin(tagKeys, tags.AddTranslation)...)
		tg.PUT("/translations/:id", admin(tagKeys, tags.UpdateTranslation)...)
		tg.DELETE("/translations/:id", admin(tagKeys, tags.DeleteTranslation)...)
	}

	languages := NewLanguageHandler(svc.Languages)
	readers := middleware.RequireRoles(model.RoleSuperAdmin, model.RoleReader)
	lg := apiV1.Group("/languages")
	{
		lg.GET("", auth, readers, cached("languages:all"), languages.List)
		lg.GET("/:id", auth, readers, cached("languages:detail:{id}"), languages.Get)

		lg.POST("", admin(languageKeys, languages.Create)...)
		lg.PUT("/:id", admin(languageKeys, languages.Update)...)
		lg.DELETE("/:id", admin(languageKeys, languages.Delete)...)
	}

	contacts := NewContactHandler(svc.Contacts)
	superadmin := middleware.RequireRoles(model.RoleSuperAdmin)
	ctg := apiV1.Group("/contact", auth)
	{
		ctg.POST("", readers, contacts.Create)
		ctg.GET("", superadmin, contacts.List)
		ctg.GET("/:id", superadmin, contacts.Get)
		ctg.DELETE("/:id", superadmin, contacts.Delete)
	}

	pdfs := NewPdfHandler(svc.Pdfs)
	pg := apiV1.Group("/pdf")
	{
		pg.GET("", cached("pdf:current"), pdfs.Get)
		pg.POST("", admin(pdfKeys, pdfs.Create)...)
		pg.PUT("/:id", admin(pdfKeys, pdfs.Update)...)
		pg.DELETE("/:id", admin(pdfKeys, pdfs.Delete)...)
	}

	r.GET("/sitemap.xml", NewSitemapHandler(svc.Sitemap).Get)
	if opts.Uploads != nil {
		r.Static(opts.Uploads.PublicPrefix(), opts.Uploads.Dir())
	}
	return r
}
