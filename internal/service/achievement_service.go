package service

import (
	"context"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/patch"
	"portfolio-cms/pkg/storage"
)

type AchievementTranslationInput struct {
	AcademicAchievementID string `json:"academicAchievementId" binding:"required"`
	LanguageID            string `json:"languageId" binding:"required"`
	Title                 string `json:"title" binding:"required,max=255"`
	Content               string `json:"content"`
	AltImage              string `json:"altImage" binding:"max=255"`
}

type AchievementTranslationPatch struct {
	Title    patch.Field[string] `json:"title"`
	Content  patch.Field[string] `json:"content"`
	AltImage patch.Field[string] `json:"altImage"`
}

// AchievementService 接口定义了学术成就相关的业务操作。
type AchievementService interface {
	Create(ctx context.Context) (*model.AcademicAchievement, error)
	Delete(ctx context.Context, id string) error
	AddTranslation(ctx context.Context, in AchievementTranslationInput) (*model.AcademicAchievementTranslation, error)
	ListByLanguage(ctx context.Context, code string) ([]model.AchievementView, error)
	Get(ctx context.Context, id, code string) (*model.AchievementView, error)
	UpdateTranslation(ctx context.Context, id string, p AchievementTranslationPatch) (*model.AcademicAchievementTranslation, error)
	DeleteTranslation(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, f *FileInput) (*model.AcademicAchievement, error)
}

type achievementService struct {
	tx           repository.Transactor
	achievements repository.AchievementRepository
	languages    repository.LanguageRepository
	assets       assets
}

func NewAchievementService(
	tx repository.Transactor,
	achievements repository.AchievementRepository,
	languages repository.LanguageRepository,
	store storage.Storage,
	uploadCfg config.UploadConfig,
) AchievementService {
	return &achievementService{
		tx:           tx,
		achievements: achievements,
		languages:    languages,
		assets:       newAssets(store, uploadCfg),
	}
}

const achievementScope = "AchievementService"

func (s *achievementService) Create(ctx context.Context) (*model.AcademicAchievement, error) {
	a := &model.AcademicAchievement{}
	if err := s.achievements.Create(ctx, a); err != nil {
		return nil, storeErr(achievementScope, err, "", "学术成就已存在")
	}
	return a, nil
}

func (s *achievementService) Delete(ctx context.Context, id string) error {
	var image string
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		a, err := s.achievements.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		image = derefString(a.Image)
		return s.achievements.Delete(ctx, id)
	})
	if err != nil {
		return storeErr(achievementScope, err, "学术成就不存在", "")
	}
	s.assets.remove(ctx, image)
	return nil
}

func (s *achievementService) AddTranslation(ctx context.Context, in AchievementTranslationInput) (*model.AcademicAchievementTranslation, error) {
	t := &model.AcademicAchievementTranslation{
		AcademicAchievementID: in.AcademicAchievementID,
		LanguageID:            in.LanguageID,
		Title:                 in.Title,
		Content:               contentPolicy.Sanitize(in.Content),
		AltImage:              in.AltImage,
	}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.achievements.FindByID(ctx, in.AcademicAchievementID); err != nil {
			return storeErr(achievementScope, err, "学术成就不存在", "")
		}
		if err := requireLanguage(ctx, s.languages, achievementScope, in.LanguageID); err != nil {
			return err
		}
		dup, err := s.achievements.TranslationExists(ctx, in.AcademicAchievementID, in.LanguageID)
		if err != nil {
			return err
		}
		if dup {
			return Conflict("该学术成就已存在此语言的翻译")
		}
		return s.achievements.CreateTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(achievementScope, err, "", "该学术成就已存在此语言的翻译")
	}
	return t, nil
}

func (s *achievementService) ListByLanguage(ctx context.Context, code string) ([]model.AchievementView, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	views, err := s.achievements.ListByLanguage(ctx, code)
	return views, storeErr(achievementScope, err, "", "")
}

func (s *achievementService) Get(ctx context.Context, id, code string) (*model.AchievementView, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	view, err := s.achievements.FindView(ctx, id, code)
	if err != nil {
		return nil, storeErr(achievementScope, err, "学术成就不存在", "")
	}
	return view, nil
}

func (s *achievementService) UpdateTranslation(ctx context.Context, id string, p AchievementTranslationPatch) (*model.AcademicAchievementTranslation, error) {
	var t *model.AcademicAchievementTranslation
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if t, err = s.achievements.FindTranslationForUpdate(ctx, id); err != nil {
			return err
		}
		p.Title.Apply(&t.Title)
		if p.Content.Set {
			t.Content = contentPolicy.Sanitize(p.Content.Value)
		}
		p.AltImage.Apply(&t.AltImage)
		return s.achievements.SaveTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(achievementScope, err, "学术成就翻译不存在", "")
	}
	return t, nil
}

func (s *achievementService) DeleteTranslation(ctx context.Context, id string) error {
	return storeErr(achievementScope, s.achievements.DeleteTranslation(ctx, id), "学术成就翻译不存在", "")
}

func (s *achievementService) UploadImage(ctx context.Context, id string, f *FileInput) (*model.AcademicAchievement, error) {
	if _, err := s.achievements.FindByID(ctx, id); err != nil {
		return nil, storeErr(achievementScope, err, "学术成就不存在", "")
	}
	stored, err := s.assets.putImage(ctx, f)
	if err != nil {
		return nil, err
	}

	var (
		a   *model.AcademicAchievement
		old string
	)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if a, err = s.achievements.FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		old = derefString(a.Image)
		a.Image = &stored
		return s.achievements.Update(ctx, a)
	})
	if err != nil {
		s.assets.remove(ctx, stored)
		return nil, storeErr(achievementScope, err, "学术成就不存在", "")
	}
	if old != stored {
		s.assets.remove(ctx, old)
	}
	return a, nil
}
