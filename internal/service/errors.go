// Package service 包含了应用的业务逻辑层。
package service

import (
	"errors"

	"portfolio-cms/pkg/log"

	"gorm.io/gorm"
)

// Kind 是业务错误的分类，handler 据此决定 HTTP 状态码。
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindBadRequest
)

// Error 是服务层返回的业务错误。Err 保存底层原因，只用于日志。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func BadRequest(msg string) *Error {
	return &Error{Kind: KindBadRequest, Message: msg}
}

// Internal 包装未预期的底层错误，对外只暴露通用信息。
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "服务器内部错误", Err: err}
}

// KindOf 返回错误的分类，非 *Error 视为 KindInternal。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// storeErr 把仓储层错误转换为业务错误：记录不存在 -> NotFound，唯一键冲突 -> Conflict，
// 其余记录日志后转为 Internal。已经是 *Error 的原样返回。
func storeErr(scope string, err error, notFound, conflict string) error {
	if err == nil {
		return nil
	}
	var e *Error
	switch {
	case errors.As(err, &e):
		return e
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(conflict)
	default:
		log.Errorf("[%s] 数据库操作失败: %v", scope, err)
		return Internal(err)
	}
}
