package model

import (
	"time"

	"gorm.io/gorm"
)

// Tag 是可翻译的标签，通过关联表挂到文章翻译与横幅上。
type Tag struct {
	ID           string           `gorm:"type:char(36);primaryKey" json:"id"`
	Translations []TagTranslation `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func (Tag) TableName() string {
	return "tags"
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// TagTranslation 对应 'tag_translations'，(tag_id, language_id) 唯一。
type TagTranslation struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	TagID       string    `gorm:"type:char(36);not null;uniqueIndex:idx_tag_translations_parent_lang" json:"tagId"`
	LanguageID  string    `gorm:"type:char(36);not null;uniqueIndex:idx_tag_translations_parent_lang" json:"languageId"`
	Language    *Language `gorm:"constraint:OnDelete:CASCADE" json:"language,omitempty"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (TagTranslation) TableName() string {
	return "tag_translations"
}

func (t *TagTranslation) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// NamedItem 是分类、标签按语言列出时的条目。
type NamedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryView 是单个分类在某种语言下的详情。
type CategoryView struct {
	CategoryID            string `json:"categoryId"`
	CategoryTranslationID string `json:"categoryTranslationId"`
	Name                  string `json:"name"`
	Description           string `json:"description"`
	Language              string `json:"language"`
}

// TagView 是单个标签在某种语言下的详情。
type TagView struct {
	TagID            string `json:"tagId"`
	TagTranslationID string `json:"tagTranslationId"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Language         string `json:"language"`
}
