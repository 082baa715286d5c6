package model

import (
	"time"

	"gorm.io/gorm"
)

// Category 是与语言无关的分类，名称和描述保存在翻译表中。
type Category struct {
	ID           string                `gorm:"type:char(36);primaryKey" json:"id"`
	Translations []CategoryTranslation `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// CategoryTranslation 对应 'category_translations'，(category_id, language_id) 唯一。
type CategoryTranslation struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	CategoryID  string    `gorm:"type:char(36);not null;uniqueIndex:idx_category_translations_parent_lang" json:"categoryId"`
	LanguageID  string    `gorm:"type:char(36);not null;uniqueIndex:idx_category_translations_parent_lang" json:"languageId"`
	Language    *Language `gorm:"constraint:OnDelete:CASCADE" json:"language,omitempty"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (CategoryTranslation) TableName() string {
	return "category_translations"
}

func (t *CategoryTranslation) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}
