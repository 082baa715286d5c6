package service

import (
	"context"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/model"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/patch"
	"portfolio-cms/pkg/storage"
)

type PdfInput struct {
	FileName     string `form:"fileName" binding:"required,max=255"`
	MetaKeywords string `form:"metaKeywords" binding:"max=512"`
}

type PdfPatch struct {
	FileName     patch.Field[string]
	MetaKeywords patch.Field[string]
}

// PdfService 管理站点唯一的 PDF 资源。
type PdfService interface {
	Create(ctx context.Context, in PdfInput, f *FileInput) (*model.PdfResource, error)
	// Get 返回当前 PDF，不存在时返回 nil。
	Get(ctx context.Context) (*model.PdfResource, error)
	// Update 更新元数据；f 非空时替换文件并删除旧文件。
	Update(ctx context.Context, id string, p PdfPatch, f *FileInput) (*model.PdfResource, error)
	Delete(ctx context.Context, id string) error
}

type pdfService struct {
	tx     repository.Transactor
	pdfs   repository.PdfRepository
	assets assets
}

func NewPdfService(tx repository.Transactor, pdfs repository.PdfRepository, store storage.Storage, uploadCfg config.UploadConfig) PdfService {
	return &pdfService{tx: tx, pdfs: pdfs, assets: newAssets(store, uploadCfg)}
}

const pdfScope = "PdfService"

func (s *pdfService) Create(ctx context.Context, in PdfInput, f *FileInput) (*model.PdfResource, error) {
	current, err := s.pdfs.FindCurrent(ctx)
	if err != nil {
		return nil, storeErr(pdfScope, err, "", "")
	}
	if current != nil {
		return nil, BadRequest("PDF 已存在，请更新或先删除")
	}
	stored, err := s.assets.putPDF(ctx, f)
	if err != nil {
		return nil, err
	}

	p := &model.PdfResource{FileName: in.FileName, MetaKeywords: in.MetaKeywords, FilePath: stored}
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		current, err := s.pdfs.FindCurrent(ctx)
		if err != nil {
			return err
		}
		if current != nil {
			return BadRequest("PDF 已存在，请更新或先删除")
		}
		return s.pdfs.Create(ctx, p)
	})
	if err != nil {
		s.assets.remove(ctx, stored)
		return nil, storeErr(pdfScope, err, "", "")
	}
	return p, nil
}

func (s *pdfService) Get(ctx context.Context) (*model.PdfResource, error) {
	p, err := s.pdfs.FindCurrent(ctx)
	return p, storeErr(pdfScope, err, "", "")
}

func (s *pdfService) Update(ctx context.Context, id string, p PdfPatch, f *FileInput) (*model.PdfResource, error) {
	var stored string
	if f != nil {
		var err error
		if stored, err = s.assets.putPDF(ctx, f); err != nil {
			return nil, err
		}
	}

	var (
		res *model.PdfResource
		old string
	)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if res, err = s.pdfs.FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		p.FileName.Apply(&res.FileName)
		p.MetaKeywords.Apply(&res.MetaKeywords)
		if res.FileName == "" {
			return BadRequest("fileName 不能为空")
		}
		if stored != "" {
			old = res.FilePath
			res.FilePath = stored
		}
		return s.pdfs.Update(ctx, res)
	})
	if err != nil {
		s.assets.remove(ctx, stored)
		return nil, storeErr(pdfScope, err, "PDF 不存在", "")
	}
	if old != "" && old != stored {
		s.assets.remove(ctx, old)
	}
	return res, nil
}

func (s *pdfService) Delete(ctx context.Context, id string) error {
	var path string
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		p, err := s.pdfs.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		path = p.FilePath
		return s.pdfs.Delete(ctx, id)
	})
	if err != nil {
		return storeErr(pdfScope, err, "PDF 不存在", "")
	}
	s.assets.remove(ctx, path)
	return nil
}
