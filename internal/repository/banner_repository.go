package repository

import (
	"context"

	"portfolio-cms/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BannerRepository 定义横幅、横幅翻译与横幅标签的数据操作。
type BannerRepository interface {
	Create(ctx context.Context, b *model.Banner) error
	FindByID(ctx context.Context, id string) (*model.Banner, error)
	FindByIDForUpdate(ctx context.Context, id string) (*model.Banner, error)
	Update(ctx context.Context, b *model.Banner) error
	Delete(ctx context.Context, id string) error

	CreateTranslation(ctx context.Context, t *model.BannerTranslation) error
	TranslationExists(ctx context.Context, bannerID, languageID string) (bool, error)
	FindTranslationForUpdate(ctx context.Context, id string) (*model.BannerTranslation, error)
	SaveTranslation(ctx context.Context, t *model.BannerTranslation) error
	DeleteTranslation(ctx context.Context, id string) error

	AddTags(ctx context.Context, bannerID string, tagIDs []string) error
	RemoveTag(ctx context.Context, bannerID, tagID string) error

	ListByLanguage(ctx context.Context, code string) ([]model.BannerView, error)
	FindView(ctx context.Context, id, code string) (*model.BannerView, error)
}

type bannerRepository struct {
	db *gorm.DB
}

func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Create(ctx context.Context, b *model.Banner) error {
	return dbFrom(ctx, r.db).Create(b).Error
}

func (r *bannerRepository) FindByID(ctx context.Context, id string) (*model.Banner, error) {
	return findByID[model.Banner](dbFrom(ctx, r.db), id, false)
}

func (r *bannerRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Banner, error) {
	return findByID[model.Banner](dbFrom(ctx, r.db), id, true)
}

func (r *bannerRepository) Update(ctx context.Context, b *model.Banner) error {
	return dbFrom(ctx, r.db).Save(b).Error
}

func (r *bannerRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[model.Banner](dbFrom(ctx, r.db), id)
}

func (r *bannerRepository) CreateTranslation(ctx context.Context, t *model.BannerTranslation) error {
	return dbFrom(ctx, r.db).Create(t).Error
}

func (r *bannerRepository) TranslationExists(ctx context.Context, bannerID, languageID string) (bool, error) {
	return exists(dbFrom(ctx, r.db), &model.BannerTranslation{},
		"banner_id = ? AND language_id = ?", bannerID, languageID)
}

func (r *bannerRepository) FindTranslationForUpdate(ctx context.Context, id string) (*model.BannerTranslation, error) {
	return findByID[model.BannerTranslation](dbFrom(ctx, r.db), id, true)
}

func (r *bannerRepository) SaveTranslation(ctx context.Context, t *model.BannerTranslation) error {
	return dbFrom(ctx, r.db).Omit("Language").Save(t).Error
}

func (r *bannerRepository) DeleteTranslation(ctx context.Context, id string) error {
	return deleteByID[model.BannerTranslation](dbFrom(ctx, r.db), id)
}

func (r *bannerRepository) AddTags(ctx context.Context, bannerID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]model.BannerTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, model.BannerTag{BannerID: bannerID, TagID: id})
	}
	return dbFrom(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *bannerRepository) RemoveTag(ctx context.Context, bannerID, tagID string) error {
	return dbFrom(ctx, r.db).
		Where("banner_id = ? AND tag_id = ?", bannerID, tagID).
		Delete(&model.BannerTag{}).Error
}

func (r *bannerRepository) ListByLanguage(ctx context.Context, code string) ([]model.BannerView, error) {
	var rows []bannerRow
	err := bannerJoin(dbFrom(ctx, r.db), code).
		Select(bannerColumns).
		Order("b.created_at, b.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupBannerRows(rows), nil
}

func (r *bannerRepository) FindView(ctx context.Context, id, code string) (*model.BannerView, error) {
	var rows []bannerRow
	err := bannerJoin(dbFrom(ctx, r.db), code).
		Select(bannerColumns).
		Where("b.id = ?", id).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	views := groupBannerRows(rows)
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

const bannerColumns = "b.id AS id, t.id AS translation_id, t.title AS title, t.text_banner AS text_banner, " +
	"t.alt_image AS alt_image, t.role AS role, b.image AS image, tt.name AS tag, l.code AS language"

type bannerRow struct {
	ID            string
	TranslationID string
	Title         string
	TextBanner    string
	AltImage      string
	Role          string
	Image         *string
	Tag           *string
	Language      string
}

func bannerJoin(db *gorm.DB, code string) *gorm.DB {
	return db.Table("banner_translations AS t").
		Joins("JOIN languages l ON l.id = t.language_id").
		Joins("JOIN banners b ON b.id = t.banner_id").
		Joins("LEFT JOIN banner_tags bt ON bt.banner_id = b.id").
		Joins("LEFT JOIN tag_translations tt ON tt.tag_id = bt.tag_id AND tt.language_id = l.id").
		Where("l.code = ?", code)
}

func groupBannerRows(rows []bannerRow) []model.BannerView {
	var out []model.BannerView
	index := make(map[string]int)
	seen := make(map[string]struct{})
	for _, row := range rows {
		i, ok := index[row.ID]
		if !ok {
			i = len(out)
			index[row.ID] = i
			out = append(out, model.BannerView{
				ID:            row.ID,
				TranslationID: row.TranslationID,
				Title:         row.Title,
				TextBanner:    row.TextBanner,
				AltImage:      row.AltImage,
				Role:          row.Role,
				Image:         row.Image,
				Tags:          []string{},
				Language:      row.Language,
			})
		}
		if row.Tag == nil {
			continue
		}
		key := row.ID + "\x00" + *row.Tag
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out[i].Tags = append(out[i].Tags, *row.Tag)
	}
	if out == nil {
		out = []model.BannerView{}
	}
	return out
}
