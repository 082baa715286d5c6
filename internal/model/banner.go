package model

import (
	"time"

	"gorm.io/gorm"
)

// Banner 是首页横幅，图片与标签在所有语言间共享。
type Banner struct {
	ID           string              `gorm:"type:char(36);primaryKey" json:"id"`
	Image        *string             `gorm:"type:varchar(512)" json:"image"`
	Translations []BannerTranslation `gorm:"foreignKey:BannerID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func (Banner) TableName() string {
	return "banners"
}

func (b *Banner) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}

type BannerTranslation struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	BannerID   string    `gorm:"type:char(36);not null;uniqueIndex:idx_banner_translations_parent_lang" json:"bannerId"`
	LanguageID string    `gorm:"type:char(36);not null;uniqueIndex:idx_banner_translations_parent_lang" json:"languageId"`
	Language   *Language `gorm:"constraint:OnDelete:CASCADE" json:"language,omitempty"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	TextBanner string    `gorm:"type:text" json:"textBanner"`
	AltImage   string    `gorm:"type:varchar(255)" json:"altImage"`
	Role       string    `gorm:"type:varchar(255)" json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (BannerTranslation) TableName() string {
	return "banner_translations"
}

func (t *BannerTranslation) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// BannerTag 是横幅与标签的关联行。
type BannerTag struct {
	BannerID string  `gorm:"type:char(36);primaryKey"`
	TagID    string  `gorm:"type:char(36);primaryKey;index"`
	Banner   *Banner `gorm:"constraint:OnDelete:CASCADE"`
	Tag      *Tag    `gorm:"constraint:OnDelete:CASCADE"`
}

func (BannerTag) TableName() string {
	return "banner_tags"
}

// BannerView 是横幅翻译与公共字段合并后的输出结构。
type BannerView struct {
	ID            string   `json:"id"`
	TranslationID string   `json:"idTranslation"`
	Title         string   `json:"title"`
	TextBanner    string   `json:"textBanner"`
	AltImage      string   `json:"altImage"`
	Role          string   `json:"role"`
	Image         *string  `json:"image"`
	Tags          []string `json:"tags"`
	Language      string   `json:"language"`
}
