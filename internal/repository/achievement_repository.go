package repository

import (
	"context"

	"portfolio-cms/internal/model"

	"gorm.io/gorm"
)

// AchievementRepository 定义学术成就及其翻译的数据操作。
type AchievementRepository interface {
	Create(ctx context.Context, a *model.AcademicAchievement) error
	FindByID(ctx context.Context, id string) (*model.AcademicAchievement, error)
	FindByIDForUpdate(ctx context.Context, id string) (*model.AcademicAchievement, error)
	Update(ctx context.Context, a *model.AcademicAchievement) error
	Delete(ctx context.Context, id string) error

	CreateTranslation(ctx context.Context, t *model.AcademicAchievementTranslation) error
	TranslationExists(ctx context.Context, achievementID, languageID string) (bool, error)
	FindTranslationForUpdate(ctx context.Context, id string) (*model.AcademicAchievementTranslation, error)
	SaveTranslation(ctx context.Context, t *model.AcademicAchievementTranslation) error
	DeleteTranslation(ctx context.Context, id string) error

	ListByLanguage(ctx context.Context, code string) ([]model.AchievementView, error)
	FindView(ctx context.Context, id, code string) (*model.AchievementView, error)
}

type achievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Create(ctx context.Context, a *model.AcademicAchievement) error {
	return dbFrom(ctx, r.db).Create(a).Error
}

func (r *achievementRepository) FindByID(ctx context.Context, id string) (*model.AcademicAchievement, error) {
	return findByID[model.AcademicAchievement](dbFrom(ctx, r.db), id, false)
}

func (r *achievementRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.AcademicAchievement, error) {
	return findByID[model.AcademicAchievement](dbFrom(ctx, r.db), id, true)
}

func (r *achievementRepository) Update(ctx context.Context, a *model.AcademicAchievement) error {
	return dbFrom(ctx, r.db).Save(a).Error
}

func (r *achievementRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[model.AcademicAchievement](dbFrom(ctx, r.db), id)
}

func (r *achievementRepository) CreateTranslation(ctx context.Context, t *model.AcademicAchievementTranslation) error {
	return dbFrom(ctx, r.db).Create(t).Error
}

func (r *achievementRepository) TranslationExists(ctx context.Context, achievementID, languageID string) (bool, error) {
	return exists(dbFrom(ctx, r.db), &model.AcademicAchievementTranslation{},
		"academic_achievement_id = ? AND language_id = ?", achievementID, languageID)
}

func (r *achievementRepository) FindTranslationForUpdate(ctx context.Context, id string) (*model.AcademicAchievementTranslation, error) {
	return findByID[model.AcademicAchievementTranslation](dbFrom(ctx, r.db), id, true)
}

func (r *achievementRepository) SaveTranslation(ctx context.Context, t *model.AcademicAchievementTranslation) error {
	return dbFrom(ctx, r.db).Omit("Language").Save(t).Error
}

func (r *achievementRepository) DeleteTranslation(ctx context.Context, id string) error {
	return deleteByID[model.AcademicAchievementTranslation](dbFrom(ctx, r.db), id)
}

func (r *achievementRepository) ListByLanguage(ctx context.Context, code string) ([]model.AchievementView, error) {
	views := []model.AchievementView{}
	err := achievementJoin(dbFrom(ctx, r.db), code).
		Select(achievementColumns).
		Order("a.created_at, a.id").
		Scan(&views).Error
	return views, err
}

func (r *achievementRepository) FindView(ctx context.Context, id, code string) (*model.AchievementView, error) {
	var views []model.AchievementView
	err := achievementJoin(dbFrom(ctx, r.db), code).
		Select(achievementColumns).
		Where("a.id = ?", id).
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

const achievementColumns = "a.id AS id, t.id AS translation_id, t.title AS title, t.content AS content, " +
	"t.alt_image AS alt_image, a.image AS image, l.code AS language"

func achievementJoin(db *gorm.DB, code string) *gorm.DB {
	return db.Table("academic_achievement_translations AS t").
		Joins("JOIN languages l ON l.id = t.language_id").
		Joins("JOIN academic_achievements a ON a.id = t.academic_achievement_id").
		Where("l.code = ?", code)
}
