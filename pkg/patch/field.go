// Package patch 提供区分“字段缺省”与“字段被显式赋值”的 JSON 包装类型，用于部分更新。
package patch

import (
	"bytes"
	"encoding/json"
)

// Field 记录 JSON 中某个字段是否出现。
// 字段缺省时 Set 为 false；出现时 Set 为 true，值为 null 时 Null 为 true。
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Of 构造一个已赋值的字段，主要用于测试与服务间调用。
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// UnmarshalJSON 只有字段出现在 JSON 中时才会被调用。
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON 未赋值或 null 时输出 null。
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Apply 字段出现时覆盖 dst（null 写入零值）。返回是否发生了赋值。
func (f Field[T]) Apply(dst *T) bool {
	if !f.Set {
		return false
	}
	*dst = f.Value
	return true
}

// ApplyPtr 用于可空列：null 置为 nil，其余写入新值。
func (f Field[T]) ApplyPtr(dst **T) bool {
	if !f.Set {
		return false
	}
	if f.Null {
		*dst = nil
		return true
	}
	v := f.Value
	*dst = &v
	return true
}
