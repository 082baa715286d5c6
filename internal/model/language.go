package model

import (
	"time"

	"gorm.io/gorm"
)

// Language 对应 'languages' 表，每一条翻译都引用一种语言。
type Language struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_languages_name" json:"name"`
	Code      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_languages_code" json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Language) TableName() string {
	return "languages"
}

func (l *Language) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	return nil
}
