// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/handler"
	"portfolio-cms/internal/pipeline"
	"portfolio-cms/internal/repository"
	"portfolio-cms/internal/service"
	"portfolio-cms/pkg/cache"
	"portfolio-cms/pkg/database"
	"portfolio-cms/pkg/es"
	"portfolio-cms/pkg/kafka"
	"portfolio-cms/pkg/log"
	"portfolio-cms/pkg/storage"
	"portfolio-cms/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// 3. 初始化数据库并迁移表结构
	db := database.InitMySQL(cfg.Database.MySQL.DSN)
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("数据库迁移失败", err)
	}

	// 4. 缓存与文件存储
	store := newCacheStore(cfg)
	files, err := storage.New(rootCtx, cfg.Storage)
	if err != nil {
		log.Fatal("文件存储初始化失败", err)
	}

	// 5. 初始化 Repository
	tx := repository.NewTransactor(db)
	languageRepo := repository.NewLanguageRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	userRepo := repository.NewUserRepository(db)

	// 6. 搜索索引（可选）
	var (
		searcher service.ArticleSearcher
		indexer  pipeline.Indexer
	)
	if cfg.Elasticsearch.Enabled {
		index, err := es.NewArticleIndex(cfg.Elasticsearch)
		if err != nil {
			log.Fatal("Elasticsearch 初始化失败", err)
		}
		if err := index.EnsureIndex(rootCtx); err != nil {
			log.Fatal("Elasticsearch 索引创建失败", err)
		}
		searcher, indexer = index, index
	}

	// 7. 站点地图与内容事件处理管道
	sitemapService := service.NewSitemapService(cfg.Site.BaseURL, languageRepo, articleRepo, store)
	processor := pipeline.NewProcessor(indexer, articleRepo, sitemapService)

	var publisher service.EventPublisher
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka)
		publisher = producer
		go kafka.StartConsumer(rootCtx, cfg.Kafka, processor)
	} else {
		publisher = pipeline.NewDirectPublisher(processor)
	}

	// 8. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireMinutes, cfg.JWT.RefreshTokenExpireDays)
	services := handler.Services{
		Articles:     service.NewArticleService(tx, articleRepo, languageRepo, categoryRepo, tagRepo, files, cfg.Upload, publisher),
		Banners:      service.NewBannerService(tx, repository.NewBannerRepository(db), languageRepo, tagRepo, files, cfg.Upload),
		Achievements: service.NewAchievementService(tx, repository.NewAchievementRepository(db), languageRepo, files, cfg.Upload),
		Experiences:  service.NewExperienceService(tx, repository.NewExperienceRepository(db), languageRepo, articleRepo),
		Categories:   service.NewCategoryService(tx, categoryRepo, languageRepo),
		Tags:         service.NewTagService(tx, tagRepo, languageRepo),
		Languages:    service.NewLanguageService(tx, languageRepo),
		Contacts:     service.NewContactService(repository.NewContactRepository(db)),
		Pdfs:         service.NewPdfService(tx, repository.NewPdfRepository(db), files, cfg.Upload),
		Users:        service.NewUserService(tx, userRepo, jwtManager, store, cfg.Setup.InitUsersToken),
		Search:       service.NewSearchService(searcher, articleRepo),
		Sitemap:      sitemapService,
	}
	if cfg.Setup.InitUsersToken == "" {
		log.Warnf("setup.init_users_token 未配置，初始化账号接口不可用")
	}

	// 9. 定时刷新站点地图
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Site.SitemapRefresh, func() {
		if _, err := sitemapService.Refresh(rootCtx); err != nil {
			log.Errorf("定时刷新站点地图失败: %v", err)
		}
	}); err != nil {
		log.Fatal("sitemap_refresh 配置无效", err)
	}
	scheduler.Start()

	// 10. 设置 Gin 模式并注册路由
	gin.SetMode(cfg.Server.Mode)
	opts := handler.RouterOptions{
		JWT:         jwtManager,
		Cache:       store,
		CacheTTL:    time.Duration(cfg.Cache.DefaultTTLSeconds) * time.Second,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
	}
	if local, ok := files.(*storage.LocalStorage); ok {
		opts.Uploads = local
	}
	r := handler.NewRouter(services, opts)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}
	<-scheduler.Stop().Done()
	cancelRoot()
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Errorf("关闭 Kafka 生产者失败: %v", err)
		}
	}
	log.Info("服务已优雅关闭")
}

// newCacheStore 按配置选择 Redis 或进程内缓存。
func newCacheStore(cfg config.Config) cache.Store {
	if cfg.Cache.Driver == "memory" {
		log.Info("使用进程内缓存")
		return cache.NewMemoryStore(cfg.Cache.Capacity, cfg.Cache.Shards)
	}
	return cache.NewRedisStore(database.InitRedis(cfg.Database.Redis))
}
