package service

import (
	"context"
	"errors"
	"strings"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/patch"
	"portfolio-cms/pkg/slug"
	"portfolio-cms/pkg/storage"
	"portfolio-cms/pkg/tasks"

	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// CreateArticleInput 创建文章时的可选关联。
type CreateArticleInput struct {
	CategoryID *string `json:"categoryId"`
}

// ArticleTranslationInput 为文章新增一种语言的翻译，slug 由标题生成。
type ArticleTranslationInput struct {
	ArticleID        string      `json:"articleId" binding:"required"`
	LanguageID       string      `json:"languageId" binding:"required"`
	Title            string      `json:"title" binding:"required,max=255"`
	Content          string      `json:"content"`
	AltImage         string      `json:"altImage" binding:"max=255"`
	AuxiliaryContent string      `json:"auxiliaryContent"`
	Date             *model.Date `json:"date"`
	DateEnd          *model.Date `json:"dateEnd"`
	Promo            string      `json:"promo" binding:"max=255"`
}

// ArticleTranslationPatch 是部分更新：缺省字段保持不变，出现的字段（包括 "" 与 null）会覆盖。
type ArticleTranslationPatch struct {
	Title            patch.Field[string]     `json:"title"`
	Content          patch.Field[string]     `json:"content"`
	AltImage         patch.Field[string]     `json:"altImage"`
	AuxiliaryContent patch.Field[string]     `json:"auxiliaryContent"`
	Date             patch.Field[model.Date] `json:"date"`
	DateEnd          patch.Field[model.Date] `json:"dateEnd"`
	Promo            patch.Field[string]     `json:"promo"`
}

// ArticleService 接口定义了文章相关的业务操作。
type ArticleService interface {
	Create(ctx context.Context, in CreateArticleInput) (*model.Article, error)
	Delete(ctx context.Context, id string) error
	AddTranslation(ctx context.Context, in ArticleTranslationInput) (*model.ArticleTranslation, error)
	ListByLanguage(ctx context.Context, code string) ([]model.ArticleView, error)
	// Get 的 identifier 可以是文章 ID 或翻译的 slug。
	Get(ctx context.Context, identifier, code string) (*model.ArticleView, error)
	Paginate(ctx context.Context, q model.ArticleQuery) (*model.ArticlePage, error)
	UpdateTranslation(ctx context.Context, id string, p ArticleTranslationPatch) (*model.ArticleTranslation, error)
	DeleteTranslation(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, f *FileInput) (*model.Article, error)
	AddTags(ctx context.Context, translationID string, tagIDs []string) error
	RemoveTag(ctx context.Context, translationID, tagID string) error
}

type articleService struct {
	tx         repository.Transactor
	articles   repository.ArticleRepository
	languages  repository.LanguageRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	assets     assets
	events     EventPublisher
}

// NewArticleService 创建一个新的 ArticleService 实例。
func NewArticleService(
	tx repository.Transactor,
	articles repository.ArticleRepository,
	languages repository.LanguageRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	store storage.Storage,
	uploadCfg config.UploadConfig,
	events EventPublisher,
) ArticleService {
	return &articleService{
		tx:         tx,
		articles:   articles,
		languages:  languages,
		categories: categories,
		tags:       tags,
		assets:     newAssets(store, uploadCfg),
		events:     events,
	}
}

const articleScope = "ArticleService"

func (s *articleService) Create(ctx context.Context, in CreateArticleInput) (*model.Article, error) {
	a := &model.Article{}
	if in.CategoryID != nil && *in.CategoryID != "" {
		if _, err := s.categories.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, storeErr(articleScope, err, "分类不存在", "")
		}
		a.CategoryID = in.CategoryID
	}
	if err := s.articles.Create(ctx, a); err != nil {
		return nil, storeErr(articleScope, err, "", "文章已存在")
	}
	publish(ctx, s.events, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionCreated, a.ID))
	return a, nil
}

// Delete 删除文章，翻译与标签关联由外键级联删除，随后尽力删除封面图片。
func (s *articleService) Delete(ctx context.Context, id string) error {
	var image string
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		a, err := s.articles.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		image = derefString(a.Image)
		return s.articles.Delete(ctx, id)
	})
	if err != nil {
		return storeErr(articleScope, err, "文章不存在", "")
	}
	s.assets.remove(ctx, image)
	publish(ctx, s.events, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionDeleted, id))
	return nil
}

func (s *articleService) AddTranslation(ctx context.Context, in ArticleTranslationInput) (*model.ArticleTranslation, error) {
	url := slug.Make(in.Title)
	if url == "" {
		return nil, BadRequest("标题无法生成有效的 slug")
	}
	t := &model.ArticleTranslation{
		ArticleID:        in.ArticleID,
		LanguageID:       in.LanguageID,
		Title:            in.Title,
		URL:              url,
		Content:          contentPolicy.Sanitize(in.Content),
		AltImage:         in.AltImage,
		AuxiliaryContent: contentPolicy.Sanitize(in.AuxiliaryContent),
		Date:             in.Date,
		DateEnd:          in.DateEnd,
		Promo:            in.Promo,
	}

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.articles.FindByIDForUpdate(ctx, in.ArticleID); err != nil {
			return storeErr(articleScope, err, "文章不存在", "")
		}
		if err := requireLanguage(ctx, s.languages, articleScope, in.LanguageID); err != nil {
			return err
		}
		dup, err := s.articles.TranslationExists(ctx, in.ArticleID, in.LanguageID)
		if err != nil {
			return err
		}
		if dup {
			return Conflict("该文章已存在此语言的翻译")
		}
		if err := s.checkSlug(ctx, url, ""); err != nil {
			return err
		}
		return s.articles.CreateTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(articleScope, err, "", "slug 或翻译已存在")
	}
	publish(ctx, s.events, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionUpdated, t.ArticleID))
	return t, nil
}

func (s *articleService) ListByLanguage(ctx context.Context, code string) ([]model.ArticleView, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	views, err := s.articles.ListByLanguage(ctx, code)
	if err != nil {
		return nil, storeErr(articleScope, err, "", "")
	}
	return views, nil
}

func (s *articleService) Get(ctx context.Context, identifier, code string) (*model.ArticleView, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	byID := model.IsUUID(identifier)
	view, err := s.articles.FindView(ctx, identifier, code, !byID)
	// 标题本身可能生成 UUID 形式的 slug
	if byID && errors.Is(err, gorm.ErrRecordNotFound) {
		view, err = s.articles.FindView(ctx, identifier, code, true)
	}
	if err != nil {
		return nil, storeErr(articleScope, err, "文章不存在", "")
	}
	return view, nil
}

// Paginate 校验分页参数并规范化过滤条件后执行分页查询。
func (s *articleService) Paginate(ctx context.Context, q model.ArticleQuery) (*model.ArticlePage, error) {
	q.Lang = strings.TrimSpace(q.Lang)
	if q.Lang == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	if q.Page == 0 {
		q.Page = defaultPage
	}
	if q.Limit == 0 {
		q.Limit = defaultLimit
	}
	if q.Page < 1 || q.Limit < 1 {
		return nil, BadRequest("page 与 limit 必须为正整数")
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	q.Category = strings.TrimSpace(q.Category)
	tags := make([]string, 0, len(q.Tags))
	for _, t := range q.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	q.Tags = tags

	page, err := s.articles.Paginate(ctx, q)
	if err != nil {
		return nil, storeErr(articleScope, err, "", "")
	}
	return page, nil
}

// UpdateTranslation 在事务中加行锁读取翻译、应用补丁并保存。
// 只有标题出现且发生变化时才重新生成 slug。
func (s *articleService) UpdateTranslation(ctx context.Context, id string, p ArticleTranslationPatch) (*model.ArticleTranslation, error) {
	var t *model.ArticleTranslation
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		t, err = s.articles.FindTranslationForUpdate(ctx, id)
		if err != nil {
			return storeErr(articleScope, err, "文章翻译不存在", "")
		}

		if p.Title.Set && p.Title.Value != t.Title {
			url := slug.Make(p.Title.Value)
			if url == "" {
				return BadRequest("标题无法生成有效的 slug")
			}
			if err := s.checkSlug(ctx, url, t.ID); err != nil {
				return err
			}
			t.Title = p.Title.Value
			t.URL = url
		}
		if p.Content.Set {
			t.Content = contentPolicy.Sanitize(p.Content.Value)
		}
		if p.AuxiliaryContent.Set {
			t.AuxiliaryContent = contentPolicy.Sanitize(p.AuxiliaryContent.Value)
		}
		p.AltImage.Apply(&t.AltImage)
		p.Promo.Apply(&t.Promo)
		p.Date.ApplyPtr(&t.Date)
		p.DateEnd.ApplyPtr(&t.DateEnd)

		return s.articles.SaveTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(articleScope, err, "文章翻译不存在", "slug 已存在")
	}
	publish(ctx, s.events, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionUpdated, t.ArticleID))
	return t, nil
}

func (s *articleService) DeleteTranslation(ctx context.Context, id string) error {
	var articleID string
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		t, err := s.articles.FindTranslationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		articleID = t.ArticleID
		return s.articles.DeleteTranslation(ctx, id)
	})
	if err != nil {
		return storeErr(articleScope, err, "文章翻译不存在", "")
	}
	publish(ctx, s.events, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionUpdated, articleID))
	return nil
}

// UploadImage 先保存新文件，再在事务中写入新路径，最后尽力删除旧文件。
func (s *articleService) UploadImage(ctx context.Context, id string, f *FileInput) (*model.Article, error) {
	if _, err := s.articles.FindByID(ctx, id); err != nil {
		return nil, storeErr(articleScope, err, "文章不存在", "")
	}
	stored, err := s.assets.putImage(ctx, f)
	if err != nil {
		return nil, err
	}

	var (
		a   *model.Article
		old string
	)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		a, err = s.articles.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		old = derefString(a.Image)
		a.Image = &stored
		return s.articles.Update(ctx, a)
	})
	if err != nil {
		s.assets.remove(ctx, stored)
		return nil, storeErr(articleScope, err, "文章不存在", "")
	}
	if old != stored {
		s.assets.remove(ctx, old)
	}
	publish(ctx, s.events, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionUpdated, id))
	return a, nil
}

// AddTags 以集合并集语义为文章翻译添加标签，重复添加不会产生重复关联。
func (s *articleService) AddTags(ctx context.Context, translationID string, tagIDs []string) error {
	ids := uniqueIDs(tagIDs)
	if len(ids) == 0 {
		return BadRequest("tagIds 不能为空")
	}
	var articleID string
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		t, err := s.articles.FindTranslationForUpdate(ctx, translationID)
		if err != nil {
			return storeErr(articleScope, err, "文章翻译不存在", "")
		}
		articleID = t.ArticleID
		n, err := s.tags.CountExisting(ctx, ids)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return NotFound("部分标签不存在")
		}
		return s.articles.AddTags(ctx, translationID, ids)
	})
	if err != nil {
		return storeErr(articleScope, err, "", "")
	}
	publish(ctx, s.events, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionUpdated, articleID))
	return nil
}

func (s *articleService) RemoveTag(ctx context.Context, translationID, tagID string) error {
	var articleID string
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		t, err := s.articles.FindTranslationForUpdate(ctx, translationID)
		if err != nil {
			return storeErr(articleScope, err, "文章翻译不存在", "")
		}
		articleID = t.ArticleID
		if _, err := s.tags.FindByID(ctx, tagID); err != nil {
			return storeErr(articleScope, err, "标签不存在", "")
		}
		return s.articles.RemoveTag(ctx, translationID, tagID)
	})
	if err != nil {
		return storeErr(articleScope, err, "", "")
	}
	publish(ctx, s.events, tasks.NewContentEvent(tasks.EntityArticle, tasks.ActionUpdated, articleID))
	return nil
}

func (s *articleService) checkSlug(ctx context.Context, url, excludeID string) error {
	taken, err := s.articles.SlugExists(ctx, url, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return Conflict("slug 已存在: " + url)
	}
	return nil
}
