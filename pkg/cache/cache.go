// Package cache 定义了响应缓存的存储接口及其 Redis / 进程内实现。
package cache

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrCacheMiss 表示键不存在或已过期。
var ErrCacheMiss = errors.New("cache: miss")

// Store 是键值缓存，支持 TTL 与按通配符模式批量删除。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPattern 使用 Redis 的 glob 语义：* ? [abc] [^a] 以及 \ 转义。
	DeleteByPattern(ctx context.Context, pattern string) error
}

// compileGlob 将 Redis glob 模式转换为锚定的正则表达式。
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '\\':
			if i+1 < len(runes) {
				i++
				b.WriteString(regexp.QuoteMeta(string(runes[i])))
			} else {
				b.WriteString(`\\`)
			}
		case '[':
			end := i + 1
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end >= len(runes) {
				// 没有闭合的 [ 按字面量处理
				b.WriteString(`\[`)
				continue
			}
			class := runes[i+1 : end]
			b.WriteString("[")
			for j, c := range class {
				if j == 0 && c == '^' {
					b.WriteString("^")
					continue
				}
				if c == '-' && j > 0 && j < len(class)-1 {
					b.WriteString("-")
					continue
				}
				b.WriteString(regexp.QuoteMeta(string(c)))
			}
			b.WriteString("]")
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
