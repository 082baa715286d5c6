package service

import (
	"context"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/patch"
)

// CategoryTranslationInput 为分类新增一种语言的翻译。
type CategoryTranslationInput struct {
	CategoryID  string `json:"categoryId" binding:"required"`
	LanguageID  string `json:"languageId" binding:"required"`
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// NamePatch 是分类与标签翻译的部分更新。
type NamePatch struct {
	Name        patch.Field[string] `json:"name"`
	Description patch.Field[string] `json:"description"`
}

type CategoryService interface {
	Create(ctx context.Context) (*model.Category, error)
	Delete(ctx context.Context, id string) error
	AddTranslation(ctx context.Context, in CategoryTranslationInput) (*model.CategoryTranslation, error)
	ListByLanguage(ctx context.Context, code string) ([]model.NamedItem, error)
	Get(ctx context.Context, id, code string) (*model.CategoryView, error)
	UpdateTranslation(ctx context.Context, id string, p NamePatch) (*model.CategoryTranslation, error)
	// UpdateTranslationByLanguage 通过分类 ID 与语言代码定位翻译并更新。
	UpdateTranslationByLanguage(ctx context.Context, categoryID, code string, p NamePatch) (*model.CategoryTranslation, error)
	DeleteTranslation(ctx context.Context, id string) error
}

type categoryService struct {
	tx         repository.Transactor
	categories repository.CategoryRepository
	languages  repository.LanguageRepository
}

func NewCategoryService(tx repository.Transactor, categories repository.CategoryRepository, languages repository.LanguageRepository) CategoryService {
	return &categoryService{tx: tx, categories: categories, languages: languages}
}

const categoryScope = "CategoryService"

func (s *categoryService) Create(ctx context.Context) (*model.Category, error) {
	c := &model.Category{}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, storeErr(categoryScope, err, "", "分类已存在")
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	return storeErr(categoryScope, s.categories.Delete(ctx, id), "分类不存在", "")
}

func (s *categoryService) AddTranslation(ctx context.Context, in CategoryTranslationInput) (*model.CategoryTranslation, error) {
	t := &model.CategoryTranslation{
		CategoryID:  in.CategoryID,
		LanguageID:  in.LanguageID,
		Name:        in.Name,
		Description: in.Description,
	}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
			return storeErr(categoryScope, err, "分类不存在", "")
		}
		if err := requireLanguage(ctx, s.languages, categoryScope, in.LanguageID); err != nil {
			return err
		}
		dup, err := s.categories.TranslationExists(ctx, in.CategoryID, in.LanguageID)
		if err != nil {
			return err
		}
		if dup {
			return Conflict("该分类已存在此语言的翻译")
		}
		return s.categories.CreateTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(categoryScope, err, "", "该分类已存在此语言的翻译")
	}
	return t, nil
}

func (s *categoryService) ListByLanguage(ctx context.Context, code string) ([]model.NamedItem, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	items, err := s.categories.ListByLanguage(ctx, code)
	return items, storeErr(categoryScope, err, "", "")
}

func (s *categoryService) Get(ctx context.Context, id, code string) (*model.CategoryView, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	view, err := s.categories.FindView(ctx, id, code)
	if err != nil {
		return nil, storeErr(categoryScope, err, "分类不存在", "")
	}
	return view, nil
}

func (s *categoryService) UpdateTranslation(ctx context.Context, id string, p NamePatch) (*model.CategoryTranslation, error) {
	return s.update(ctx, p, func(ctx context.Context) (*model.CategoryTranslation, error) {
		return s.categories.FindTranslationForUpdate(ctx, id)
	})
}

func (s *categoryService) UpdateTranslationByLanguage(ctx context.Context, categoryID, code string, p NamePatch) (*model.CategoryTranslation, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	return s.update(ctx, p, func(ctx context.Context) (*model.CategoryTranslation, error) {
		lang, err := s.languages.FindByCode(ctx, code)
		if err != nil {
			return nil, storeErr(categoryScope, err, "语言不存在", "")
		}
		return s.categories.FindTranslationByLanguageForUpdate(ctx, categoryID, lang.ID)
	})
}

func (s *categoryService) update(ctx context.Context, p NamePatch, load func(context.Context) (*model.CategoryTranslation, error)) (*model.CategoryTranslation, error) {
	var t *model.CategoryTranslation
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if t, err = load(ctx); err != nil {
			return err
		}
		p.Name.Apply(&t.Name)
		p.Description.Apply(&t.Description)
		return s.categories.SaveTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(categoryScope, err, "分类翻译不存在", "")
	}
	return t, nil
}

func (s *categoryService) DeleteTranslation(ctx context.Context, id string) error {
	return storeErr(categoryScope, s.categories.DeleteTranslation(ctx, id), "分类翻译不存在", "")
}
