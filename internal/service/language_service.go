package service

import (
	"context"
	"strings"

	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/patch"
)

type CreateLanguageInput struct {
	Name string `json:"name" binding:"required,max=100"`
	Code string `json:"code" binding:"required,max=10"`
}

type LanguagePatch struct {
	Name patch.Field[string] `json:"name"`
	Code patch.Field[string] `json:"code"`
}

// LanguageService 管理站点支持的语言。
type LanguageService interface {
	Create(ctx context.Context, in CreateLanguageInput) (*model.Language, error)
	List(ctx context.Context) ([]model.Language, error)
	Get(ctx context.Context, id string) (*model.Language, error)
	Update(ctx context.Context, id string, p LanguagePatch) (*model.Language, error)
	// Delete 删除语言，该语言下的全部翻译级联删除。
	Delete(ctx context.Context, id string) error
}

type languageService struct {
	tx        repository.Transactor
	languages repository.LanguageRepository
}

func NewLanguageService(tx repository.Transactor, languages repository.LanguageRepository) LanguageService {
	return &languageService{tx: tx, languages: languages}
}

const languageScope = "LanguageService"

func (s *languageService) Create(ctx context.Context, in CreateLanguageInput) (*model.Language, error) {
	lang := &model.Language{
		Name: strings.TrimSpace(in.Name),
		Code: strings.ToLower(strings.TrimSpace(in.Code)),
	}
	if lang.Name == "" || lang.Code == "" {
		return nil, BadRequest("name 与 code 不能为空")
	}
	if err := s.languages.Create(ctx, lang); err != nil {
		return nil, storeErr(languageScope, err, "", "语言名称或代码已存在")
	}
	return lang, nil
}

func (s *languageService) List(ctx context.Context) ([]model.Language, error) {
	langs, err := s.languages.FindAll(ctx)
	return langs, storeErr(languageScope, err, "", "")
}

func (s *languageService) Get(ctx context.Context, id string) (*model.Language, error) {
	lang, err := s.languages.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(languageScope, err, "语言不存在", "")
	}
	return lang, nil
}

func (s *languageService) Update(ctx context.Context, id string, p LanguagePatch) (*model.Language, error) {
	var lang *model.Language
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if lang, err = s.languages.FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if p.Name.Set {
			lang.Name = strings.TrimSpace(p.Name.Value)
		}
		if p.Code.Set {
			lang.Code = strings.ToLower(strings.TrimSpace(p.Code.Value))
		}
		if lang.Name == "" || lang.Code == "" {
			return BadRequest("name 与 code 不能为空")
		}
		return s.languages.Update(ctx, lang)
	})
	if err != nil {
		return nil, storeErr(languageScope, err, "语言不存在", "语言名称或代码已存在")
	}
	return lang, nil
}

func (s *languageService) Delete(ctx context.Context, id string) error {
	return storeErr(languageScope, s.languages.Delete(ctx, id), "语言不存在", "")
}
