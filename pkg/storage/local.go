package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage 将文件写入本地目录，由路由以 publicPrefix 对外提供静态访问。
type LocalStorage struct {
	dir          string
	publicPrefix string
}

// NewLocalStorage 创建本地存储并确保目录存在。
func NewLocalStorage(dir, publicPrefix string) (*LocalStorage, error) {
	if dir == "" {
		dir = "./uploads"
	}
	if publicPrefix == "" {
		publicPrefix = "/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalStorage{dir: dir, publicPrefix: "/" + strings.Trim(publicPrefix, "/")}, nil
}

// Dir 返回文件所在目录，供静态文件路由使用。
func (s *LocalStorage) Dir() string {
	return s.dir
}

// PublicPrefix 返回对外访问前缀。
func (s *LocalStorage) PublicPrefix() string {
	return s.publicPrefix
}

func (s *LocalStorage) Upload(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	name = filepath.Base(name)
	full := filepath.Join(s.dir, name)

	// 先写临时文件再重命名，避免读到写了一半的文件
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return s.publicPrefix + "/" + name, nil
}

func (s *LocalStorage) Delete(_ context.Context, storedPath string) error {
	key := ObjectKey(storedPath)
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
