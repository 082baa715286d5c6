package storage

import (
	"context"
	"fmt"
	"io"

	"portfolio-cms/internal/config"
	"portfolio-cms/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage 将资源保存到 MinIO（或任意 S3 兼容服务）的存储桶中。
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinIOStorage 初始化 MinIO 客户端并确保存储桶存在。
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 MinIO 客户端失败: %w", err)
	}
	log.Info("MinIO 客户端初始化成功")

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("检查 MinIO 存储桶失败: %w", err)
	}
	if !exists {
		log.Infof("存储桶 '%s' 不存在，正在创建...", cfg.BucketName)
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("创建 MinIO 存储桶失败: %w", err)
		}
		log.Infof("存储桶 '%s' 创建成功", cfg.BucketName)
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &MinIOStorage{
		client:  client,
		bucket:  cfg.BucketName,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.BucketName),
	}, nil
}

func (s *MinIOStorage) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		log.Errorf("上传对象到 MinIO 失败, object: %s, error: %v", name, err)
		return "", err
	}
	return s.baseURL + "/" + name, nil
}

func (s *MinIOStorage) Delete(ctx context.Context, storedPath string) error {
	key := ObjectKey(storedPath)
	if key == "" {
		return nil
	}
	// RemoveObject 对不存在的对象不返回错误
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}
