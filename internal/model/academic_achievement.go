package model

import (
	"time"

	"gorm.io/gorm"
)

type AcademicAchievement struct {
	ID           string                           `gorm:"type:char(36);primaryKey" json:"id"`
	Image        *string                          `gorm:"type:varchar(512)" json:"image"`
	Translations []AcademicAchievementTranslation `gorm:"foreignKey:AcademicAchievementID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time                        `json:"createdAt"`
	UpdatedAt    time.Time                        `json:"updatedAt"`
}

func (AcademicAchievement) TableName() string {
	return "academic_achievements"
}

func (a *AcademicAchievement) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}

type AcademicAchievementTranslation struct {
	ID                    string    `gorm:"type:char(36);primaryKey" json:"id"`
	AcademicAchievementID string    `gorm:"type:char(36);not null;uniqueIndex:idx_achievement_translations_parent_lang" json:"academicAchievementId"`
	LanguageID            string    `gorm:"type:char(36);not null;uniqueIndex:idx_achievement_translations_parent_lang" json:"languageId"`
	Language              *Language `gorm:"constraint:OnDelete:CASCADE" json:"language,omitempty"`
	Title                 string    `gorm:"type:varchar(255);not null" json:"title"`
	Content               string    `gorm:"type:text" json:"content"`
	AltImage              string    `gorm:"type:varchar(255)" json:"altImage"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func (AcademicAchievementTranslation) TableName() string {
	return "academic_achievement_translations"
}

func (t *AcademicAchievementTranslation) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

type AchievementView struct {
	ID            string  `json:"id"`
	TranslationID string  `json:"idTranslation"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	AltImage      string  `json:"altImage"`
	Image         *string `json:"image"`
	Language      string  `json:"language"`
}
