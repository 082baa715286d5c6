package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/repository"
	"portfolio-cms/pkg/log"
	"portfolio-cms/pkg/storage"
	"portfolio-cms/pkg/tasks"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// EventPublisher 发布内容变更事件（Kafka 或进程内直接处理）。
type EventPublisher interface {
	Publish(ctx context.Context, evt tasks.ContentEvent) error
}

// FileInput 是上传文件的内容与元信息，由 handler 从 multipart 表单构造。
type FileInput struct {
	Name   string
	Size   int64
	Reader io.Reader
}

var (
	// 文章正文允许常见富文本标签，联系消息只保留纯文本。
	contentPolicy = bluemonday.UGCPolicy()
	plainPolicy   = bluemonday.StrictPolicy()
)

const sniffLen = 3072

// assets 负责校验并保存上传的图片与 PDF，以及尽力删除旧文件。
type assets struct {
	store         storage.Storage
	maxImageBytes int64
	maxPDFBytes   int64
}

func newAssets(store storage.Storage, cfg config.UploadConfig) assets {
	maxImage, maxPDF := cfg.MaxImageSizeMB, cfg.MaxPDFSizeMB
	if maxImage <= 0 {
		maxImage = 5
	}
	if maxPDF <= 0 {
		maxPDF = 10
	}
	return assets{
		store:         store,
		maxImageBytes: int64(maxImage) << 20,
		maxPDFBytes:   int64(maxPDF) << 20,
	}
}

// putImage 校验文件为图片且不超过大小上限后保存，返回存储路径。
func (a assets) putImage(ctx context.Context, f *FileInput) (string, error) {
	return a.put(ctx, f, a.maxImageBytes, func(mt *mimetype.MIME) bool {
		return strings.HasPrefix(mt.String(), "image/")
	}, "文件必须是图片")
}

// putPDF 校验文件为 PDF 且不超过大小上限后保存。
func (a assets) putPDF(ctx context.Context, f *FileInput) (string, error) {
	return a.put(ctx, f, a.maxPDFBytes, func(mt *mimetype.MIME) bool {
		return mt.Is("application/pdf")
	}, "文件必须是 PDF")
}

func (a assets) put(ctx context.Context, f *FileInput, limit int64, accept func(*mimetype.MIME) bool, typeMsg string) (string, error) {
	if f == nil || f.Reader == nil || f.Size == 0 {
		return "", BadRequest("缺少上传文件")
	}
	if f.Size > limit {
		return "", BadRequest(fmt.Sprintf("文件大小超过限制 (%dMB)", limit>>20))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f.Reader, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", BadRequest("读取上传文件失败")
	}
	head = head[:n]
	mt := mimetype.Detect(head)
	if !accept(mt) {
		return "", BadRequest(typeMsg)
	}

	name := uuid.NewString() + "-" + sanitizeFileName(f.Name)
	body := io.MultiReader(bytes.NewReader(head), f.Reader)
	stored, err := a.store.Upload(ctx, name, body, f.Size, mt.String())
	if err != nil {
		log.Errorf("[Assets] 保存文件失败, name: %s, error: %v", name, err)
		return "", Internal(err)
	}
	return stored, nil
}

// remove 尽力删除已保存的文件，失败只记录日志。
func (a assets) remove(ctx context.Context, stored string) {
	if stored == "" {
		return
	}
	if err := a.store.Delete(ctx, stored); err != nil {
		log.Warnf("[Assets] 删除旧文件失败, path: %s, error: %v", stored, err)
	}
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '-'
		case r < 0x20, r == '/', r == '?', r == '#', r == '%':
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." {
		return "file"
	}
	return name
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// uniqueIDs 去除空值与重复值，保持原有顺序。
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// requireLanguage 确认语言 ID 存在。
func requireLanguage(ctx context.Context, langs repository.LanguageRepository, scope, id string) error {
	if _, err := langs.FindByID(ctx, id); err != nil {
		return storeErr(scope, err, "语言不存在", "")
	}
	return nil
}

// publish 在事务提交后发送事件，失败只记录日志。
func publish(ctx context.Context, p EventPublisher, evt tasks.ContentEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, evt); err != nil {
		log.Warnf("发布内容事件失败, entity: %s, action: %s, id: %s, error: %v", evt.Entity, evt.Action, evt.ID, err)
	}
}
