package repository

import (
	"context"

	"portfolio-cms/internal/model"

	"gorm.io/gorm"
)

// LanguageRepository 定义语言表的数据操作。
type LanguageRepository interface {
	Create(ctx context.Context, lang *model.Language) error
	FindByID(ctx context.Context, id string) (*model.Language, error)
	FindByIDForUpdate(ctx context.Context, id string) (*model.Language, error)
	FindByCode(ctx context.Context, code string) (*model.Language, error)
	FindAll(ctx context.Context) ([]model.Language, error)
	Update(ctx context.Context, lang *model.Language) error
	Delete(ctx context.Context, id string) error
}

type languageRepository struct {
	db *gorm.DB
}

func NewLanguageRepository(db *gorm.DB) LanguageRepository {
	return &languageRepository{db: db}
}

func (r *languageRepository) Create(ctx context.Context, lang *model.Language) error {
	return dbFrom(ctx, r.db).Create(lang).Error
}

func (r *languageRepository) FindByID(ctx context.Context, id string) (*model.Language, error) {
	return findByID[model.Language](dbFrom(ctx, r.db), id, false)
}

func (r *languageRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Language, error) {
	return findByID[model.Language](dbFrom(ctx, r.db), id, true)
}

// FindByCode 根据语言代码（如 "en"）查找语言。
func (r *languageRepository) FindByCode(ctx context.Context, code string) (*model.Language, error) {
	var lang model.Language
	if err := dbFrom(ctx, r.db).Where("code = ?", code).First(&lang).Error; err != nil {
		return nil, err
	}
	return &lang, nil
}

func (r *languageRepository) FindAll(ctx context.Context) ([]model.Language, error) {
	var langs []model.Language
	err := dbFrom(ctx, r.db).Order("code").Find(&langs).Error
	return langs, err
}

func (r *languageRepository) Update(ctx context.Context, lang *model.Language) error {
	return dbFrom(ctx, r.db).Save(lang).Error
}

// Delete 删除语言，数据库外键会级联删除所有该语言的翻译。
func (r *languageRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[model.Language](dbFrom(ctx, r.db), id)
}
