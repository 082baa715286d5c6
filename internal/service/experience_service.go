package service

import (
	"context"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/patch"
)

type ExperienceTranslationInput struct {
	ExperienceID string `json:"experienceId" binding:"required"`
	LanguageID   string `json:"languageId" binding:"required"`
	Title        string `json:"title" binding:"required,max=255"`
	Content      string `json:"content"`
}

type ExperienceTranslationPatch struct {
	Title   patch.Field[string] `json:"title"`
	Content patch.Field[string] `json:"content"`
}

// ExperienceService 接口定义了履历相关的业务操作。
type ExperienceService interface {
	Create(ctx context.Context) (*model.Experience, error)
	Delete(ctx context.Context, id string) error
	AddTranslation(ctx context.Context, in ExperienceTranslationInput) (*model.ExperienceTranslation, error)
	ListByLanguage(ctx context.Context, code string) ([]model.ExperienceView, error)
	// Get 同时返回关联文章在该语言下的标题与 slug。
	Get(ctx context.Context, id, code string) (*model.ExperienceView, error)
	UpdateTranslation(ctx context.Context, id string, p ExperienceTranslationPatch) (*model.ExperienceTranslation, error)
	DeleteTranslation(ctx context.Context, id string) error
	AddArticles(ctx context.Context, experienceID string, articleIDs []string) error
	RemoveArticle(ctx context.Context, experienceID, articleID string) error
}

type experienceService struct {
	tx          repository.Transactor
	experiences repository.ExperienceRepository
	languages   repository.LanguageRepository
	articles    repository.ArticleRepository
}

func NewExperienceService(
	tx repository.Transactor,
	experiences repository.ExperienceRepository,
	languages repository.LanguageRepository,
	articles repository.ArticleRepository,
) ExperienceService {
	return &experienceService{tx: tx, experiences: experiences, languages: languages, articles: articles}
}

const experienceScope = "ExperienceService"

func (s *experienceService) Create(ctx context.Context) (*model.Experience, error) {
	e := &model.Experience{}
	if err := s.experiences.Create(ctx, e); err != nil {
		return nil, storeErr(experienceScope, err, "", "履历已存在")
	}
	return e, nil
}

func (s *experienceService) Delete(ctx context.Context, id string) error {
	return storeErr(experienceScope, s.experiences.Delete(ctx, id), "履历不存在", "")
}

func (s *experienceService) AddTranslation(ctx context.Context, in ExperienceTranslationInput) (*model.ExperienceTranslation, error) {
	t := &model.ExperienceTranslation{
		ExperienceID: in.ExperienceID,
		LanguageID:   in.LanguageID,
		Title:        in.Title,
		Content:      contentPolicy.Sanitize(in.Content),
	}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.experiences.FindByID(ctx, in.ExperienceID); err != nil {
			return storeErr(experienceScope, err, "履历不存在", "")
		}
		if err := requireLanguage(ctx, s.languages, experienceScope, in.LanguageID); err != nil {
			return err
		}
		dup, err := s.experiences.TranslationExists(ctx, in.ExperienceID, in.LanguageID)
		if err != nil {
			return err
		}
		if dup {
			return Conflict("该履历已存在此语言的翻译")
		}
		return s.experiences.CreateTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(experienceScope, err, "", "该履历已存在此语言的翻译")
	}
	return t, nil
}

func (s *experienceService) ListByLanguage(ctx context.Context, code string) ([]model.ExperienceView, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	views, err := s.experiences.ListByLanguage(ctx, code)
	return views, storeErr(experienceScope, err, "", "")
}

func (s *experienceService) Get(ctx context.Context, id, code string) (*model.ExperienceView, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	view, err := s.experiences.FindView(ctx, id, code)
	if err != nil {
		return nil, storeErr(experienceScope, err, "履历不存在", "")
	}
	refs, err := s.experiences.LinkedArticles(ctx, id, code)
	if err != nil {
		return nil, storeErr(experienceScope, err, "", "")
	}
	view.Articles = refs
	return view, nil
}

func (s *experienceService) UpdateTranslation(ctx context.Context, id string, p ExperienceTranslationPatch) (*model.ExperienceTranslation, error) {
	var t *model.ExperienceTranslation
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if t, err = s.experiences.FindTranslationForUpdate(ctx, id); err != nil {
			return err
		}
		p.Title.Apply(&t.Title)
		if p.Content.Set {
			t.Content = contentPolicy.Sanitize(p.Content.Value)
		}
		return s.experiences.SaveTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(experienceScope, err, "履历翻译不存在", "")
	}
	return t, nil
}

func (s *experienceService) DeleteTranslation(ctx context.Context, id string) error {
	return storeErr(experienceScope, s.experiences.DeleteTranslation(ctx, id), "履历翻译不存在", "")
}

func (s *experienceService) AddArticles(ctx context.Context, experienceID string, articleIDs []string) error {
	ids := uniqueIDs(articleIDs)
	if len(ids) == 0 {
		return BadRequest("articleIds 不能为空")
	}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.experiences.FindByID(ctx, experienceID); err != nil {
			return storeErr(experienceScope, err, "履历不存在", "")
		}
		n, err := s.articles.CountExisting(ctx, ids)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return NotFound("部分文章不存在")
		}
		return s.experiences.AddArticles(ctx, experienceID, ids)
	})
	return storeErr(experienceScope, err, "", "")
}

func (s *experienceService) RemoveArticle(ctx context.Context, experienceID, articleID string) error {
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.experiences.FindByID(ctx, experienceID); err != nil {
			return storeErr(experienceScope, err, "履历不存在", "")
		}
		if _, err := s.articles.FindByID(ctx, articleID); err != nil {
			return storeErr(experienceScope, err, "文章不存在", "")
		}
		return s.experiences.RemoveArticle(ctx, experienceID, articleID)
	})
	return storeErr(experienceScope, err, "", "")
}
