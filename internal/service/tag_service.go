package service

import (
	"context"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
)

// TagTranslationInput 为标签新增一种语言的翻译。
type TagTranslationInput struct {
	TagID       string `json:"tagId" binding:"required"`
	LanguageID  string `json:"languageId" binding:"required"`
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// TagService 接口定义了标签相关的业务操作。
type TagService interface {
	Create(ctx context.Context) (*model.Tag, error)
	Delete(ctx context.Context, id string) error
	AddTranslation(ctx context.Context, in TagTranslationInput) (*model.TagTranslation, error)
	ListByLanguage(ctx context.Context, code string) ([]model.NamedItem, error)
	Get(ctx context.Context, id, code string) (*model.TagView, error)
	UpdateTranslation(ctx context.Context, id string, p NamePatch) (*model.TagTranslation, error)
	// UpdateTranslationByLanguage 通过标签 ID 与语言代码定位翻译并更新。
	UpdateTranslationByLanguage(ctx context.Context, tagID, code string, p NamePatch) (*model.TagTranslation, error)
	DeleteTranslation(ctx context.Context, id string) error
}

type tagService struct {
	tx        repository.Transactor
	tags      repository.TagRepository
	languages repository.LanguageRepository
}

func NewTagService(tx repository.Transactor, tags repository.TagRepository, languages repository.LanguageRepository) TagService {
	return &tagService{tx: tx, tags: tags, languages: languages}
}

const tagScope = "TagService"

func (s *tagService) Create(ctx context.Context) (*model.Tag, error) {
	tag := &model.Tag{}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, storeErr(tagScope, err, "", "标签已存在")
	}
	return tag, nil
}

// Delete 删除标签，文章翻译与横幅上的关联行随之删除。
func (s *tagService) Delete(ctx context.Context, id string) error {
	return storeErr(tagScope, s.tags.Delete(ctx, id), "标签不存在", "")
}

func (s *tagService) AddTranslation(ctx context.Context, in TagTranslationInput) (*model.TagTranslation, error) {
	t := &model.TagTranslation{
		TagID:       in.TagID,
		LanguageID:  in.LanguageID,
		Name:        in.Name,
		Description: in.Description,
	}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.tags.FindByID(ctx, in.TagID); err != nil {
			return storeErr(tagScope, err, "标签不存在", "")
		}
		if err := requireLanguage(ctx, s.languages, tagScope, in.LanguageID); err != nil {
			return err
		}
		dup, err := s.tags.TranslationExists(ctx, in.TagID, in.LanguageID)
		if err != nil {
			return err
		}
		if dup {
			return Conflict("该标签已存在此语言的翻译")
		}
		return s.tags.CreateTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(tagScope, err, "", "该标签已存在此语言的翻译")
	}
	return t, nil
}

func (s *tagService) ListByLanguage(ctx context.Context, code string) ([]model.NamedItem, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	items, err := s.tags.ListByLanguage(ctx, code)
	return items, storeErr(tagScope, err, "", "")
}

func (s *tagService) Get(ctx context.Context, id, code string) (*model.TagView, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	view, err := s.tags.FindView(ctx, id, code)
	if err != nil {
		return nil, storeErr(tagScope, err, "标签不存在", "")
	}
	return view, nil
}

func (s *tagService) UpdateTranslation(ctx context.Context, id string, p NamePatch) (*model.TagTranslation, error) {
	return s.update(ctx, p, func(ctx context.Context) (*model.TagTranslation, error) {
		return s.tags.FindTranslationForUpdate(ctx, id)
	})
}

func (s *tagService) UpdateTranslationByLanguage(ctx context.Context, tagID, code string, p NamePatch) (*model.TagTranslation, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	return s.update(ctx, p, func(ctx context.Context) (*model.TagTranslation, error) {
		lang, err := s.languages.FindByCode(ctx, code)
		if err != nil {
			return nil, storeErr(tagScope, err, "语言不存在", "")
		}
		return s.tags.FindTranslationByLanguageForUpdate(ctx, tagID, lang.ID)
	})
}

func (s *tagService) update(ctx context.Context, p NamePatch, load func(context.Context) (*model.TagTranslation, error)) (*model.TagTranslation, error) {
	var t *model.TagTranslation
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if t, err = load(ctx); err != nil {
			return err
		}
		p.Name.Apply(&t.Name)
		p.Description.Apply(&t.Description)
		return s.tags.SaveTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(tagScope, err, "标签翻译不存在", "")
	}
	return t, nil
}

func (s *tagService) DeleteTranslation(ctx context.Context, id string) error {
	return storeErr(tagScope, s.tags.DeleteTranslation(ctx, id), "标签翻译不存在", "")
}
