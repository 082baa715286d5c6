// Package model 定义了与数据库表对应的 Go 结构体，以及接口层使用的视图结构。
package model

import (
	"github.com/google/uuid"
)

// 所有主键均为 char(36) 的 UUID 字符串。
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// IsUUID 判断标识符是否为 UUID 形式，用于区分 id 与 slug。
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}
