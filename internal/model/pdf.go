package model

import (
	"time"

	"gorm.io/gorm"
)

// PdfResource 是站点唯一的可下载 PDF（例如简历）。
type PdfResource struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"fileName"`
	MetaKeywords string    `gorm:"type:varchar(512)" json:"metaKeywords"`
	FilePath     string    `gorm:"type:varchar(512);not null" json:"filePath"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (PdfResource) TableName() string {
	return "pdf_resources"
}

func (p *PdfResource) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
