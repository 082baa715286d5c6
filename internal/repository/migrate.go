package repository

import (
	"portfolio-cms/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 创建或更新全部表结构，包括 (父实体, 语言) 唯一索引与级联外键。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Language{},
		&model.Category{},
		&model.CategoryTranslation{},
		&model.Tag{},
		&model.TagTranslation{},
		&model.Article{},
		&model.ArticleTranslation{},
		&model.ArticleTranslationTag{},
		&model.Banner{},
		&model.BannerTranslation{},
		&model.BannerTag{},
		&model.AcademicAchievement{},
		&model.AcademicAchievementTranslation{},
		&model.Experience{},
		&model.ExperienceTranslation{},
		&model.ExperienceArticle{},
		&model.ContactMessage{},
		&model.PdfResource{},
		&model.User{},
	)
}
