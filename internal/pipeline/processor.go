// Package pipeline 定义了内容变更事件的处理流程：同步搜索索引并刷新站点地图。
package pipeline

import (
	"context"
	"fmt"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/log"
	"portfolio-cms/pkg/tasks"
)

// Indexer 是文章搜索索引的写入端，由 pkg/es.ArticleIndex 实现。
type Indexer interface {
	IndexArticle(ctx context.Context, doc model.ArticleDocument) error
	DeleteArticle(ctx context.Context, articleID string) error
}

// SitemapRefresher 重新生成站点地图。
type SitemapRefresher interface {
	Refresh(ctx context.Context) ([]byte, error)
}

// Processor 封装了事件处理的所有依赖和逻辑。
type Processor struct {
	index    Indexer
	articles repository.ArticleRepository
	sitemap  SitemapRefresher
}

// NewProcessor 创建一个新的 Processor 实例。index 为 nil 时跳过索引同步。
func NewProcessor(index Indexer, articles repository.ArticleRepository, sitemap SitemapRefresher) *Processor {
	return &Processor{index: index, articles: articles, sitemap: sitemap}
}

// Process 是事件处理的主函数。
func (p *Processor) Process(ctx context.Context, evt tasks.ContentEvent) error {
	log.Infof("[Processor] 开始处理事件, entity: %s, action: %s, id: %s", evt.Entity, evt.Action, evt.ID)
	if evt.Entity != tasks.EntityArticle {
		log.Warnf("[Processor] 忽略未知实体的事件: %s", evt.Entity)
		return nil
	}

	// 1. 同步搜索索引
	if p.index != nil {
		if err := p.syncArticle(ctx, evt); err != nil {
			log.Errorf("[Processor] 同步搜索索引失败, id: %s, error: %v", evt.ID, err)
			return err
		}
	}

	// 2. 刷新站点地图
	if p.sitemap != nil {
		if _, err := p.sitemap.Refresh(ctx); err != nil {
			log.Errorf("[Processor] 刷新站点地图失败: %v", err)
			return fmt.Errorf("刷新站点地图失败: %w", err)
		}
	}
	log.Infof("[Processor] 事件处理完成, id: %s", evt.ID)
	return nil
}

// syncArticle 先删除文章的全部文档，再按当前翻译逐条重建，已删除的翻译随之从索引中消失。
func (p *Processor) syncArticle(ctx context.Context, evt tasks.ContentEvent) error {
	if err := p.index.DeleteArticle(ctx, evt.ID); err != nil {
		return fmt.Errorf("删除旧文档失败: %w", err)
	}
	if evt.Action == tasks.ActionDeleted {
		return nil
	}

	translations, err := p.articles.FindTranslations(ctx, evt.ID)
	if err != nil {
		return fmt.Errorf("读取文章翻译失败: %w", err)
	}
	for _, t := range translations {
		if err := p.index.IndexArticle(ctx, toDocument(t)); err != nil {
			return fmt.Errorf("索引翻译 %s 失败: %w", t.ID, err)
		}
	}
	log.Infof("[Processor] 已索引 %d 条翻译, article: %s", len(translations), evt.ID)
	return nil
}

func toDocument(t model.ArticleTranslation) model.ArticleDocument {
	doc := model.ArticleDocument{
		TranslationID:    t.ID,
		ArticleID:        t.ArticleID,
		Title:            t.Title,
		URL:              t.URL,
		Content:          t.Content,
		AuxiliaryContent: t.AuxiliaryContent,
		Promo:            t.Promo,
		Date:             t.Date,
	}
	if t.Language != nil {
		doc.Language = t.Language.Code
	}
	return doc
}

// DirectPublisher 在未启用 Kafka 时于进程内直接处理事件。
type DirectPublisher struct {
	processor *Processor
}

// NewDirectPublisher 创建进程内的事件发布者。
func NewDirectPublisher(processor *Processor) *DirectPublisher {
	return &DirectPublisher{processor: processor}
}

// Publish 同步处理事件。
func (d *DirectPublisher) Publish(ctx context.Context, evt tasks.ContentEvent) error {
	return d.processor.Process(ctx, evt)
}
