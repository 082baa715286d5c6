package repository

import (
	"context"

	"portfolio-cms/internal/model"

	"gorm.io/gorm"
)

// TagRepository 定义标签及其翻译的数据操作。
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	FindByID(ctx context.Context, id string) (*model.Tag, error)
	// CountExisting 返回 ids 中实际存在的标签数量，ids 需已去重。
	CountExisting(ctx context.Context, ids []string) (int64, error)
	Delete(ctx context.Context, id string) error

	CreateTranslation(ctx context.Context, t *model.TagTranslation) error
	TranslationExists(ctx context.Context, tagID, languageID string) (bool, error)
	FindTranslationForUpdate(ctx context.Context, id string) (*model.TagTranslation, error)
	FindTranslationByLanguageForUpdate(ctx context.Context, tagID, languageID string) (*model.TagTranslation, error)
	SaveTranslation(ctx context.Context, t *model.TagTranslation) error
	DeleteTranslation(ctx context.Context, id string) error

	ListByLanguage(ctx context.Context, code string) ([]model.NamedItem, error)
	FindView(ctx context.Context, id, code string) (*model.TagView, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建一个新的 TagRepository 实例。
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return dbFrom(ctx, r.db).Create(tag).Error
}

func (r *tagRepository) FindByID(ctx context.Context, id string) (*model.Tag, error) {
	return findByID[model.Tag](dbFrom(ctx, r.db), id, false)
}

func (r *tagRepository) CountExisting(ctx context.Context, ids []string) (int64, error) {
	return countIDs(dbFrom(ctx, r.db), &model.Tag{}, ids)
}

// Delete 删除标签，翻译与所有关联行（文章翻译、横幅）级联删除。
func (r *tagRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[model.Tag](dbFrom(ctx, r.db), id)
}

func (r *tagRepository) CreateTranslation(ctx context.Context, t *model.TagTranslation) error {
	return dbFrom(ctx, r.db).Create(t).Error
}

func (r *tagRepository) TranslationExists(ctx context.Context, tagID, languageID string) (bool, error) {
	return exists(dbFrom(ctx, r.db), &model.TagTranslation{},
		"tag_id = ? AND language_id = ?", tagID, languageID)
}

func (r *tagRepository) FindTranslationForUpdate(ctx context.Context, id string) (*model.TagTranslation, error) {
	return findByID[model.TagTranslation](dbFrom(ctx, r.db), id, true)
}

func (r *tagRepository) FindTranslationByLanguageForUpdate(ctx context.Context, tagID, languageID string) (*model.TagTranslation, error) {
	var t model.TagTranslation
	err := forUpdate(dbFrom(ctx, r.db)).
		Where("tag_id = ? AND language_id = ?", tagID, languageID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepository) SaveTranslation(ctx context.Context, t *model.TagTranslation) error {
	return dbFrom(ctx, r.db).Save(t).Error
}

func (r *tagRepository) DeleteTranslation(ctx context.Context, id string) error {
	return deleteByID[model.TagTranslation](dbFrom(ctx, r.db), id)
}

func (r *tagRepository) ListByLanguage(ctx context.Context, code string) ([]model.NamedItem, error) {
	items := []model.NamedItem{}
	err := dbFrom(ctx, r.db).Table("tag_translations AS tt").
		Select("tt.tag_id AS id, tt.name AS name").
		Joins("JOIN languages l ON l.id = tt.language_id").
		Where("l.code = ?", code).
		Order("tt.name").
		Scan(&items).Error
	return items, err
}

func (r *tagRepository) FindView(ctx context.Context, id, code string) (*model.TagView, error) {
	var views []model.TagView
	err := dbFrom(ctx, r.db).Table("tag_translations AS tt").
		Select("tt.tag_id AS tag_id, tt.id AS tag_translation_id, tt.name AS name, tt.description AS description, l.code AS language").
		Joins("JOIN languages l ON l.id = tt.language_id").
		Where("tt.tag_id = ? AND l.code = ?", id, code).
		Limit(1).
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}
