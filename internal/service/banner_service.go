package service

import (
	"context"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/patch"
	"portfolio-cms/pkg/storage"
)

type BannerTranslationInput struct {
	BannerID   string `json:"bannerId" binding:"required"`
	LanguageID string `json:"languageId" binding:"required"`
	Title      string `json:"title" binding:"required,max=255"`
	TextBanner string `json:"textBanner"`
	AltImage   string `json:"altImage" binding:"max=255"`
	Role       string `json:"role" binding:"max=255"`
}

type BannerTranslationPatch struct {
	Title      patch.Field[string] `json:"title"`
	TextBanner patch.Field[string] `json:"textBanner"`
	AltImage   patch.Field[string] `json:"altImage"`
	Role       patch.Field[string] `json:"role"`
}

// BannerService 接口定义了横幅相关的业务操作。
type BannerService interface {
	Create(ctx context.Context) (*model.Banner, error)
	Delete(ctx context.Context, id string) error
	AddTranslation(ctx context.Context, in BannerTranslationInput) (*model.BannerTranslation, error)
	ListByLanguage(ctx context.Context, code string) ([]model.BannerView, error)
	Get(ctx context.Context, id, code string) (*model.BannerView, error)
	UpdateTranslation(ctx context.Context, id string, p BannerTranslationPatch) (*model.BannerTranslation, error)
	DeleteTranslation(ctx context.Context, id string) error
	UploadImage(ctx context.Context, id string, f *FileInput) (*model.Banner, error)
	AddTags(ctx context.Context, bannerID string, tagIDs []string) error
	RemoveTag(ctx context.Context, bannerID, tagID string) error
}

type bannerService struct {
	tx        repository.Transactor
	banners   repository.BannerRepository
	languages repository.LanguageRepository
	tags      repository.TagRepository
	assets    assets
}

func NewBannerService(
	tx repository.Transactor,
	banners repository.BannerRepository,
	languages repository.LanguageRepository,
	tags repository.TagRepository,
	store storage.Storage,
	uploadCfg config.UploadConfig,
) BannerService {
	return &bannerService{
		tx:        tx,
		banners:   banners,
		languages: languages,
		tags:      tags,
		assets:    newAssets(store, uploadCfg),
	}
}

const bannerScope = "BannerService"

func (s *bannerService) Create(ctx context.Context) (*model.Banner, error) {
	b := &model.Banner{}
	if err := s.banners.Create(ctx, b); err != nil {
		return nil, storeErr(bannerScope, err, "", "横幅已存在")
	}
	return b, nil
}

func (s *bannerService) Delete(ctx context.Context, id string) error {
	var image string
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		b, err := s.banners.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		image = derefString(b.Image)
		return s.banners.Delete(ctx, id)
	})
	if err != nil {
		return storeErr(bannerScope, err, "横幅不存在", "")
	}
	s.assets.remove(ctx, image)
	return nil
}

func (s *bannerService) AddTranslation(ctx context.Context, in BannerTranslationInput) (*model.BannerTranslation, error) {
	t := &model.BannerTranslation{
		BannerID:   in.BannerID,
		LanguageID: in.LanguageID,
		Title:      in.Title,
		TextBanner: in.TextBanner,
		AltImage:   in.AltImage,
		Role:       in.Role,
	}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.banners.FindByID(ctx, in.BannerID); err != nil {
			return storeErr(bannerScope, err, "横幅不存在", "")
		}
		if err := requireLanguage(ctx, s.languages, bannerScope, in.LanguageID); err != nil {
			return err
		}
		dup, err := s.banners.TranslationExists(ctx, in.BannerID, in.LanguageID)
		if err != nil {
			return err
		}
		if dup {
			return Conflict("该横幅已存在此语言的翻译")
		}
		return s.banners.CreateTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(bannerScope, err, "", "该横幅已存在此语言的翻译")
	}
	return t, nil
}

func (s *bannerService) ListByLanguage(ctx context.Context, code string) ([]model.BannerView, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	views, err := s.banners.ListByLanguage(ctx, code)
	return views, storeErr(bannerScope, err, "", "")
}

func (s *bannerService) Get(ctx context.Context, id, code string) (*model.BannerView, error) {
	if code == "" {
		return nil, BadRequest("缺少语言参数 lang")
	}
	view, err := s.banners.FindView(ctx, id, code)
	if err != nil {
		return nil, storeErr(bannerScope, err, "横幅不存在", "")
	}
	return view, nil
}

func (s *bannerService) UpdateTranslation(ctx context.Context, id string, p BannerTranslationPatch) (*model.BannerTranslation, error) {
	var t *model.BannerTranslation
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if t, err = s.banners.FindTranslationForUpdate(ctx, id); err != nil {
			return err
		}
		p.Title.Apply(&t.Title)
		p.TextBanner.Apply(&t.TextBanner)
		p.AltImage.Apply(&t.AltImage)
		p.Role.Apply(&t.Role)
		return s.banners.SaveTranslation(ctx, t)
	})
	if err != nil {
		return nil, storeErr(bannerScope, err, "横幅翻译不存在", "")
	}
	return t, nil
}

func (s *bannerService) DeleteTranslation(ctx context.Context, id string) error {
	return storeErr(bannerScope, s.banners.DeleteTranslation(ctx, id), "横幅翻译不存在", "")
}

func (s *bannerService) UploadImage(ctx context.Context, id string, f *FileInput) (*model.Banner, error) {
	if _, err := s.banners.FindByID(ctx, id); err != nil {
		return nil, storeErr(bannerScope, err, "横幅不存在", "")
	}
	stored, err := s.assets.putImage(ctx, f)
	if err != nil {
		return nil, err
	}

	var (
		b   *model.Banner
		old string
	)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if b, err = s.banners.FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		old = derefString(b.Image)
		b.Image = &stored
		return s.banners.Update(ctx, b)
	})
	if err != nil {
		s.assets.remove(ctx, stored)
		return nil, storeErr(bannerScope, err, "横幅不存在", "")
	}
	if old != stored {
		s.assets.remove(ctx, old)
	}
	return b, nil
}

func (s *bannerService) AddTags(ctx context.Context, bannerID string, tagIDs []string) error {
	ids := uniqueIDs(tagIDs)
	if len(ids) == 0 {
		return BadRequest("tagIds 不能为空")
	}
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.banners.FindByIDForUpdate(ctx, bannerID); err != nil {
			return storeErr(bannerScope, err, "横幅不存在", "")
		}
		n, err := s.tags.CountExisting(ctx, ids)
		if err != nil {
			return err
		}
		if n != int64(len(ids)) {
			return NotFound("部分标签不存在")
		}
		return s.banners.AddTags(ctx, bannerID, ids)
	})
	return storeErr(bannerScope, err, "", "")
}

func (s *bannerService) RemoveTag(ctx context.Context, bannerID, tagID string) error {
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.banners.FindByIDForUpdate(ctx, bannerID); err != nil {
			return storeErr(bannerScope, err, "横幅不存在", "")
		}
		if _, err := s.tags.FindByID(ctx, tagID); err != nil {
			return storeErr(bannerScope, err, "标签不存在", "")
		}
		return s.banners.RemoveTag(ctx, bannerID, tagID)
	})
	return storeErr(bannerScope, err, "", "")
}
