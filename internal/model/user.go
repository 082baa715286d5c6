package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleReader     = "READER"
)

// User 对应 'users' 表。
type User struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_username" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// ValidRole 判断角色是否属于已知角色。
func ValidRole(role string) bool {
	return role == RoleSuperAdmin || role == RoleReader
}
