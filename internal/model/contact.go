package model

import (
	"time"

	"gorm.io/gorm"
)

// ContactMessage 是访客通过联系表单留下的消息。
type ContactMessage struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

func (m *ContactMessage) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}
