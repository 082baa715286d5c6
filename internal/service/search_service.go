package service

import (
	"context"
	"strings"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/log"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// ArticleSearcher 是全文检索后端，由 pkg/es.ArticleIndex 实现。
type ArticleSearcher interface {
	Search(ctx context.Context, lang, q string, size int) ([]model.ArticleDocument, error)
}

// SearchService 接口定义了文章检索操作。
type SearchService interface {
	Search(ctx context.Context, lang, q string, size int) ([]model.SearchHit, error)
}

type searchService struct {
	index    ArticleSearcher
	articles repository.ArticleRepository
}

// NewSearchService 创建一个新的 SearchService 实例。index 为 nil 时使用数据库检索。
func NewSearchService(index ArticleSearcher, articles repository.ArticleRepository) SearchService {
	return &searchService{index: index, articles: articles}
}

// Search 在指定语言中检索文章。索引不可用时回退到数据库 LIKE 查询。
func (s *searchService) Search(ctx context.Context, lang, q string, size int) ([]model.SearchHit, error) {
	q = strings.TrimSpace(q)
	lang = strings.ToLower(strings.TrimSpace(lang))
	if q == "" {
		return nil, BadRequest("查询关键词不能为空")
	}
	if lang == "" {
		return nil, BadRequest("lang 参数不能为空")
	}
	if size <= 0 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}
	log.Infof("[SearchService] 开始检索, lang: %s, q: '%s', size: %d", lang, q, size)

	if s.index != nil {
		docs, err := s.index.Search(ctx, lang, q, size)
		if err == nil {
			hits := make([]model.SearchHit, 0, len(docs))
			for _, d := range docs {
				hits = append(hits, model.SearchHit{
					ID:            d.ArticleID,
					TranslationID: d.TranslationID,
					Title:         d.Title,
					URL:           d.URL,
					Promo:         d.Promo,
					Date:          d.Date,
					Language:      d.Language,
					Score:         d.Score,
				})
			}
			log.Infof("[SearchService] 索引检索命中 %d 条", len(hits))
			return hits, nil
		}
		log.Warnf("[SearchService] 索引检索失败，回退到数据库检索: %v", err)
	}

	views, err := s.articles.Search(ctx, lang, q, size)
	if err != nil {
		return nil, storeErr("SearchService", err, "", "")
	}
	hits := make([]model.SearchHit, 0, len(views))
	for _, v := range views {
		hits = append(hits, model.SearchHit{
			ID:            v.ID,
			TranslationID: v.TranslationID,
			Title:         v.Title,
			URL:           v.URL,
			Promo:         v.Promo,
			Date:          v.Date,
			Language:      v.Language,
		})
	}
	log.Infof("[SearchService] 数据库检索命中 %d 条", len(hits))
	return hits, nil
}
