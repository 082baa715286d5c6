package model

import (
	"time"

	"gorm.io/gorm"
)

// Article 是文章的公共部分：封面图片与可选分类。
type Article struct {
	ID           string               `gorm:"type:char(36);primaryKey" json:"id"`
	Image        *string              `gorm:"type:varchar(512)" json:"image"`
	CategoryID   *string              `gorm:"type:char(36);index" json:"categoryId"`
	Category     *Category            `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Translations []ArticleTranslation `gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

func (Article) TableName() string {
	return "articles"
}

func (a *Article) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}

// ArticleTranslation 对应 'article_translations'。URL 是由标题生成的全局唯一 slug。
type ArticleTranslation struct {
	ID               string    `gorm:"type:char(36);primaryKey" json:"id"`
	ArticleID        string    `gorm:"type:char(36);not null;uniqueIndex:idx_article_translations_parent_lang" json:"articleId"`
	LanguageID       string    `gorm:"type:char(36);not null;uniqueIndex:idx_article_translations_parent_lang" json:"languageId"`
	Language         *Language `gorm:"constraint:OnDelete:CASCADE" json:"language,omitempty"`
	Title            string    `gorm:"type:varchar(255);not null" json:"title"`
	URL              string    `gorm:"column:url;type:varchar(255);not null;uniqueIndex:idx_article_translations_url" json:"url"`
	Content          string    `gorm:"type:text" json:"content"`
	AltImage         string    `gorm:"type:varchar(255)" json:"altImage"`
	AuxiliaryContent string    `gorm:"type:text" json:"auxiliaryContent"`
	Date             *Date     `gorm:"type:date;index" json:"date"`
	DateEnd          *Date     `gorm:"type:date" json:"dateEnd"`
	Promo            string    `gorm:"type:varchar(255)" json:"promo"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (ArticleTranslation) TableName() string {
	return "article_translations"
}

func (t *ArticleTranslation) BeforeCreate(*gorm.DB) error {
	assignID(&t.ID)
	return nil
}

// ArticleTranslationTag 是文章翻译与标签的关联行，两侧删除时级联。
type ArticleTranslationTag struct {
	ArticleTranslationID string              `gorm:"type:char(36);primaryKey"`
	TagID                string              `gorm:"type:char(36);primaryKey;index"`
	ArticleTranslation   *ArticleTranslation `gorm:"constraint:OnDelete:CASCADE"`
	Tag                  *Tag                `gorm:"constraint:OnDelete:CASCADE"`
}

func (ArticleTranslationTag) TableName() string {
	return "article_translation_tags"
}

// ArticleView 是文章翻译与文章公共字段合并后的输出结构。
type ArticleView struct {
	ID               string   `json:"id"`
	TranslationID    string   `json:"idTranslation"`
	Title            string   `json:"title"`
	URL              string   `json:"url"`
	Content          string   `json:"content"`
	AltImage         string   `json:"altImage"`
	AuxiliaryContent string   `json:"auxiliaryContent"`
	Date             *Date    `json:"date"`
	DateEnd          *Date    `json:"dateEnd"`
	Promo            string   `json:"promo"`
	Image            *string  `json:"image"`
	Category         *string  `json:"category"`
	Tags             []string `json:"tags"`
	Language         string   `json:"language"`
}

// ArticleQuery 是分页查询的过滤条件。
type ArticleQuery struct {
	Lang     string
	Page     int
	Limit    int
	Category string
	Tags     []string
}

// ArticlePage 是分页查询结果。
type ArticlePage struct {
	Items      []ArticleView `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

// ArticleRef 是经历详情中关联文章的简要信息。
type ArticleRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ArticleSlug 是站点地图所需的文章翻译信息。
type ArticleSlug struct {
	Language string
	Slug     string
	Date     *Date
}
