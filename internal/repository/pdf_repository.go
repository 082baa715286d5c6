package repository

import (
	"context"
	"errors"

	"portfolio-cms/internal/model"

	"gorm.io/gorm"
)

// PdfRepository 定义 PDF 资源的数据操作。业务上只允许存在一条记录。
type PdfRepository interface {
	Create(ctx context.Context, p *model.PdfResource) error
	// FindCurrent 返回唯一的 PDF 记录，没有时返回 (nil, nil)。
	FindCurrent(ctx context.Context) (*model.PdfResource, error)
	FindByIDForUpdate(ctx context.Context, id string) (*model.PdfResource, error)
	Update(ctx context.Context, p *model.PdfResource) error
	Delete(ctx context.Context, id string) error
}

type pdfRepository struct {
	db *gorm.DB
}

func NewPdfRepository(db *gorm.DB) PdfRepository {
	return &pdfRepository{db: db}
}

func (r *pdfRepository) Create(ctx context.Context, p *model.PdfResource) error {
	return dbFrom(ctx, r.db).Create(p).Error
}

func (r *pdfRepository) FindCurrent(ctx context.Context) (*model.PdfResource, error) {
	var p model.PdfResource
	err := dbFrom(ctx, r.db).Order("created_at").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pdfRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.PdfResource, error) {
	return findByID[model.PdfResource](dbFrom(ctx, r.db), id, true)
}

func (r *pdfRepository) Update(ctx context.Context, p *model.PdfResource) error {
	return dbFrom(ctx, r.db).Save(p).Error
}

func (r *pdfRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[model.PdfResource](dbFrom(ctx, r.db), id)
}
