package model

import (
	"time"

	"gorm.io/gorm"
)

// Experience 是履历条目，可以关联若干文章。
type Experience struct {
	ID           string                  `gorm:"type:char(36);primaryKey" json:"id"`
	Translations []ExperienceTranslation `gorm:"foreignKey:ExperienceID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

func (Experience) TableName() string {
	return "experiences"
}

func (e *Experience) BeforeCreate(*gorm.DB) error {
	assignID(&e.ID)
	return nil
}

type ExperienceTranslation struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	ExperienceID string    `gorm:"type:char(36);not null;uniqueIndex:idx_experience_translations_parent_lang" json:"experienceId"`
	LanguageID   string    `gorm:"type:char(36);not null;uniqueIndex:idx_experience_translations_parent_lang" json:"languageId"`
	Language     *Language `gorm:"constraint:OnDelete:CASCADE" json:"language,omitempty"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Content      string    `gorm:"type:text" json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (ExperienceTranslation) TableName() string {
	return "experience_translations"
}

func (t *ExperienceTranslation) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// ExperienceArticle 是履历与文章的关联行。
type ExperienceArticle struct {
	ExperienceID string      `gorm:"type:char(36);primaryKey"`
	ArticleID    string      `gorm:"type:char(36);primaryKey;index"`
	Experience   *Experience `gorm:"constraint:OnDelete:CASCADE"`
	Article      *Article    `gorm:"constraint:OnDelete:CASCADE"`
}

func (ExperienceArticle) TableName() string {
	return "experience_articles"
}

type ExperienceView struct {
	ID            string       `json:"id"`
	TranslationID string       `json:"idTranslation"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	Language      string       `json:"language"`
	Articles      []ArticleRef `gorm:"-" json:"articles,omitempty"`
}
