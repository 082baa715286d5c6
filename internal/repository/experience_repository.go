package repository

import (
	"context"

	"portfolio-cms/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExperienceRepository 定义履历、履历翻译与履历-文章关联的数据操作。
type ExperienceRepository interface {
	Create(ctx context.Context, e *model.Experience) error
	FindByID(ctx context.Context, id string) (*model.Experience, error)
	Delete(ctx context.Context, id string) error

	CreateTranslation(ctx context.Context, t *model.ExperienceTranslation) error
	TranslationExists(ctx context.Context, experienceID, languageID string) (bool, error)
	FindTranslationForUpdate(ctx context.Context, id string) (*model.ExperienceTranslation, error)
	SaveTranslation(ctx context.Context, t *model.ExperienceTranslation) error
	DeleteTranslation(ctx context.Context, id string) error

	AddArticles(ctx context.Context, experienceID string, articleIDs []string) error
	RemoveArticle(ctx context.Context, experienceID, articleID string) error

	ListByLanguage(ctx context.Context, code string) ([]model.ExperienceView, error)
	FindView(ctx context.Context, id, code string) (*model.ExperienceView, error)
	// LinkedArticles 返回履历关联的文章在指定语言下的标题与 slug。
	LinkedArticles(ctx context.Context, experienceID, code string) ([]model.ArticleRef, error)
}

type experienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) ExperienceRepository {
	return &experienceRepository{db: db}
}

func (r *experienceRepository) Create(ctx context.Context, e *model.Experience) error {
	return dbFrom(ctx, r.db).Create(e).Error
}

func (r *experienceRepository) FindByID(ctx context.Context, id string) (*model.Experience, error) {
	return findByID[model.Experience](dbFrom(ctx, r.db), id, false)
}

func (r *experienceRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[model.Experience](dbFrom(ctx, r.db), id)
}

func (r *experienceRepository) CreateTranslation(ctx context.Context, t *model.ExperienceTranslation) error {
	return dbFrom(ctx, r.db).Create(t).Error
}

func (r *experienceRepository) TranslationExists(ctx context.Context, experienceID, languageID string) (bool, error) {
	return exists(dbFrom(ctx, r.db), &model.ExperienceTranslation{},
		"experience_id = ? AND language_id = ?", experienceID, languageID)
}

func (r *experienceRepository) FindTranslationForUpdate(ctx context.Context, id string) (*model.ExperienceTranslation, error) {
	return findByID[model.ExperienceTranslation](dbFrom(ctx, r.db), id, true)
}

func (r *experienceRepository) SaveTranslation(ctx context.Context, t *model.ExperienceTranslation) error {
	return dbFrom(ctx, r.db).Omit("Language").Save(t).Error
}

func (r *experienceRepository) DeleteTranslation(ctx context.Context, id string) error {
	return deleteByID[model.ExperienceTranslation](dbFrom(ctx, r.db), id)
}

func (r *experienceRepository) AddArticles(ctx context.Context, experienceID string, articleIDs []string) error {
	if len(articleIDs) == 0 {
		return nil
	}
	rows := make([]model.ExperienceArticle, 0, len(articleIDs))
	for _, id := range articleIDs {
		rows = append(rows, model.ExperienceArticle{ExperienceID: experienceID, ArticleID: id})
	}
	return dbFrom(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *experienceRepository) RemoveArticle(ctx context.Context, experienceID, articleID string) error {
	return dbFrom(ctx, r.db).
		Where("experience_id = ? AND article_id = ?", experienceID, articleID).
		Delete(&model.ExperienceArticle{}).Error
}

func (r *experienceRepository) ListByLanguage(ctx context.Context, code string) ([]model.ExperienceView, error) {
	views := []model.ExperienceView{}
	err := experienceJoin(dbFrom(ctx, r.db), code).
		Select(experienceColumns).
		Order("e.created_at, e.id").
		Scan(&views).Error
	return views, err
}

func (r *experienceRepository) FindView(ctx context.Context, id, code string) (*model.ExperienceView, error) {
	var views []model.ExperienceView
	err := experienceJoin(dbFrom(ctx, r.db), code).
		Select(experienceColumns).
		Where("e.id = ?", id).
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

func (r *experienceRepository) LinkedArticles(ctx context.Context, experienceID, code string) ([]model.ArticleRef, error) {
	refs := []model.ArticleRef{}
	err := dbFrom(ctx, r.db).Table("experience_articles AS ea").
		Select("ea.article_id AS id, t.title AS title, t.url AS url").
		Joins("JOIN article_translations t ON t.article_id = ea.article_id").
		Joins("JOIN languages l ON l.id = t.language_id").
		Where("ea.experience_id = ? AND l.code = ?", experienceID, code).
		Order("t.date DESC, ea.article_id").
		Scan(&refs).Error
	return refs, err
}

const experienceColumns = "e.id AS id, t.id AS translation_id, t.title AS title, t.content AS content, l.code AS language"

func experienceJoin(db *gorm.DB, code string) *gorm.DB {
	return db.Table("experience_translations AS t").
		Joins("JOIN languages l ON l.id = t.language_id").
		Joins("JOIN experiences e ON e.id = t.experience_id").
		Where("l.code = ?", code)
}
