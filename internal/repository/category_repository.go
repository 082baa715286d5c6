package repository

import (
	"context"

	"portfolio-cms/internal/model"

	"gorm.io/gorm"
)

// CategoryRepository 定义分类及其翻译的数据操作。
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	Delete(ctx context.Context, id string) error

	CreateTranslation(ctx context.Context, t *model.CategoryTranslation) error
	TranslationExists(ctx context.Context, categoryID, languageID string) (bool, error)
	FindTranslationForUpdate(ctx context.Context, id string) (*model.CategoryTranslation, error)
	FindTranslationByLanguageForUpdate(ctx context.Context, categoryID, languageID string) (*model.CategoryTranslation, error)
	SaveTranslation(ctx context.Context, t *model.CategoryTranslation) error
	DeleteTranslation(ctx context.Context, id string) error

	ListByLanguage(ctx context.Context, code string) ([]model.NamedItem, error)
	FindView(ctx context.Context, id, code string) (*model.CategoryView, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	return dbFrom(ctx, r.db).Create(c).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	return findByID[model.Category](dbFrom(ctx, r.db), id, false)
}

// Delete 删除分类；翻译级联删除，引用它的文章 category_id 置空。
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[model.Category](dbFrom(ctx, r.db), id)
}

func (r *categoryRepository) CreateTranslation(ctx context.Context, t *model.CategoryTranslation) error {
	return dbFrom(ctx, r.db).Create(t).Error
}

func (r *categoryRepository) TranslationExists(ctx context.Context, categoryID, languageID string) (bool, error) {
	return exists(dbFrom(ctx, r.db), &model.CategoryTranslation{},
		"category_id = ? AND language_id = ?", categoryID, languageID)
}

func (r *categoryRepository) FindTranslationForUpdate(ctx context.Context, id string) (*model.CategoryTranslation, error) {
	return findByID[model.CategoryTranslation](dbFrom(ctx, r.db), id, true)
}

func (r *categoryRepository) FindTranslationByLanguageForUpdate(ctx context.Context, categoryID, languageID string) (*model.CategoryTranslation, error) {
	var t model.CategoryTranslation
	err := forUpdate(dbFrom(ctx, r.db)).
		Where("category_id = ? AND language_id = ?", categoryID, languageID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *categoryRepository) SaveTranslation(ctx context.Context, t *model.CategoryTranslation) error {
	return dbFrom(ctx, r.db).Save(t).Error
}

func (r *categoryRepository) DeleteTranslation(ctx context.Context, id string) error {
	return deleteByID[model.CategoryTranslation](dbFrom(ctx, r.db), id)
}

func (r *categoryRepository) ListByLanguage(ctx context.Context, code string) ([]model.NamedItem, error) {
	items := []model.NamedItem{}
	err := dbFrom(ctx, r.db).Table("category_translations AS ct").
		Select("ct.category_id AS id, ct.name AS name").
		Joins("JOIN languages l ON l.id = ct.language_id").
		Where("l.code = ?", code).
		Order("ct.name").
		Scan(&items).Error
	return items, err
}

// FindView 查询分类在指定语言下的翻译，未命中返回 gorm.ErrRecordNotFound。
func (r *categoryRepository) FindView(ctx context.Context, id, code string) (*model.CategoryView, error) {
	var views []model.CategoryView
	err := dbFrom(ctx, r.db).Table("category_translations AS ct").
		Select("ct.category_id AS category_id, ct.id AS category_translation_id, ct.name AS name, ct.description AS description, l.code AS language").
		Joins("JOIN languages l ON l.id = ct.language_id").
		Where("ct.category_id = ? AND l.code = ?", id, code).
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
