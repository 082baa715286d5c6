package repository

import (
	"context"

	"portfolio-cms/internal/model"

	"gorm.io/gorm"
)

// ContactRepository 定义联系消息的数据操作。
type ContactRepository interface {
	Create(ctx context.Context, m *model.ContactMessage) error
	FindAll(ctx context.Context) ([]model.ContactMessage, error)
	FindByID(ctx context.Context, id string) (*model.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, m *model.ContactMessage) error {
	return dbFrom(ctx, r.db).Create(m).Error
}

// FindAll 按创建时间倒序返回全部消息。
func (r *contactRepository) FindAll(ctx context.Context) ([]model.ContactMessage, error) {
	msgs := []model.ContactMessage{}
	err := dbFrom(ctx, r.db).Order("created_at DESC, id").Find(&msgs).Error
	return msgs, err
}

func (r *contactRepository) FindByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	return findByID[model.ContactMessage](dbFrom(ctx, r.db), id, false)
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[model.ContactMessage](dbFrom(ctx, r.db), id)
}
