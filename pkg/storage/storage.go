// Package storage 提供二进制资源（图片、PDF）的上传与删除，支持本地磁盘、MinIO 与 S3。
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"portfolio-cms/internal/config"
)

// Storage 是资源存储策略，在组合根中选定一次后注入各个服务。
type Storage interface {
	// Upload 以 name 为对象名保存内容，返回可持久化的访问路径或 URL。
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	// Delete 根据 Upload 返回的路径删除对象，对象不存在时不报错。
	Delete(ctx context.Context, storedPath string) error
}

// New 根据配置中的 driver 创建存储实现。
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		return NewLocalStorage(cfg.Local.Dir, cfg.Local.PublicPrefix)
	case "minio":
		return NewMinIOStorage(ctx, cfg.MinIO)
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("未知的存储驱动: %s", cfg.Driver)
	}
}

// ObjectKey 从已保存的路径或 URL 中取出对象名（最后一段）。
func ObjectKey(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	if i := strings.IndexAny(storedPath, "?#"); i >= 0 {
		storedPath = storedPath[:i]
	}
	key := path.Base(strings.TrimRight(storedPath, "/"))
	if key == "." || key == "/" {
		return ""
	}
	return key
}
