package service

import (
	"context"
	"errors"
	"time"

	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/cache"
	"portfolio-cms/pkg/log"
	"portfolio-cms/pkg/sitemap"
)

const (
	sitemapKey = "sitemap:xml"
	sitemapTTL = time.Hour
)

// SitemapService 生成并缓存站点地图。
type SitemapService interface {
	Get(ctx context.Context) ([]byte, error)
	Refresh(ctx context.Context) ([]byte, error)
}

type sitemapService struct {
	baseURL   string
	languages repository.LanguageRepository
	articles  repository.ArticleRepository
	store     cache.Store
}

// NewSitemapService 创建一个新的 SitemapService 实例。
func NewSitemapService(baseURL string, languages repository.LanguageRepository, articles repository.ArticleRepository, store cache.Store) SitemapService {
	return &sitemapService{baseURL: baseURL, languages: languages, articles: articles, store: store}
}

// Get 优先返回缓存中的站点地图。
func (s *sitemapService) Get(ctx context.Context) ([]byte, error) {
	data, err := s.store.Get(ctx, sitemapKey)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warnf("[SitemapService] 读取缓存失败: %v", err)
	}
	return s.Refresh(ctx)
}

// Refresh 重新生成站点地图并覆盖缓存。
func (s *sitemapService) Refresh(ctx context.Context) ([]byte, error) {
	langs, err := s.languages.FindAll(ctx)
	if err != nil {
		return nil, storeErr("SitemapService", err, "", "")
	}
	slugs, err := s.articles.ListSlugs(ctx)
	if err != nil {
		return nil, storeErr("SitemapService", err, "", "")
	}

	b := sitemap.NewBuilder(s.baseURL)
	for _, l := range langs {
		b.AddHomepage(l.Code)
	}
	for _, a := range slugs {
		entry := sitemap.ArticleEntry{Language: a.Language, Slug: a.Slug}
		if a.Date != nil {
			d := a.Date.Time
			entry.Date = &d
		}
		b.AddArticle(entry)
	}
	data, err := b.Build()
	if err != nil {
		return nil, Internal(err)
	}

	if err := s.store.Set(ctx, sitemapKey, data, sitemapTTL); err != nil {
		log.Warnf("[SitemapService] 写入缓存失败: %v", err)
	}
	log.Infof("[SitemapService] 站点地图已刷新, 共 %d 条", b.Len())
	return data, nil
}
