package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"portfolio-cms/pkg/cache"
	"portfolio-cms/pkg/log"

	"github.com/gin-gonic/gin"
)

// DefaultCacheTTL 未指定 TTL 时的缓存时长。
var DefaultCacheTTL = 60 * time.Second

// CacheOptions 描述一个路由的缓存方式。Key 为空时使用 cache:<METHOD>:<path>。
type CacheOptions struct {
	TTL time.Duration
	Key string
}

// cachedResponse 是写入缓存的响应快照。
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// captureWriter 记录响应体以便写入缓存。
type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache 命中时直接回放缓存的响应，未命中时执行 handler 并缓存 200 响应。
// 缓存读写失败只记录日志，不影响请求。
func Cache(store cache.Store, opts CacheOptions) gin.HandlerFunc {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := ResolveKey(c, opts.Key)

		if data, err := store.Get(ctx, key); err == nil {
			var resp cachedResponse
			if err := json.Unmarshal(data, &resp); err == nil {
				c.Header("X-Cache", "HIT")
				c.Data(resp.Status, resp.ContentType, resp.Body)
				c.Abort()
				return
			}
			log.Warnf("[Cache] 缓存内容无法解析, key: %s", key)
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warnf("[Cache] 读取缓存失败, key: %s, error: %v", key, err)
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Header("X-Cache", "MISS")
		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		data, err := json.Marshal(cachedResponse{
			Status:      http.StatusOK,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		})
		if err != nil {
			log.Warnf("[Cache] 序列化响应失败, key: %s, error: %v", key, err)
			return
		}
		if err := store.Set(ctx, key, data, ttl); err != nil {
			log.Warnf("[Cache] 写入缓存失败, key: %s, error: %v", key, err)
		}
	}
}

// Invalidate 在 handler 成功（状态码 < 400）后删除匹配的缓存键。
func Invalidate(store cache.Store, patterns ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		ctx := c.Request.Context()
		for _, p := range patterns {
			if err := store.DeleteByPattern(ctx, p); err != nil {
				log.Warnf("[Cache] 清除缓存失败, pattern: %s, error: %v", p, err)
			}
		}
	}
}

// ResolveKey 用路由参数、查询参数、JSON 请求体字段依次替换模板中的 {name}。
// 替换值经过转义，避免值中的 ':' 与键分隔符混淆。无法解析的占位符替换为 unknown-<name>。
func ResolveKey(c *gin.Context, template string) string {
	if template == "" {
		return "cache:" + c.Request.Method + ":" + c.Request.URL.Path
	}
	var body map[string]interface{}
	bodyLoaded := false
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		if v := c.Param(name); v != "" {
			return url.QueryEscape(v)
		}
		if vs, ok := c.GetQueryArray(name); ok && len(vs) > 0 {
			escaped := make([]string, len(vs))
			for i, v := range vs {
				escaped[i] = url.QueryEscape(v)
			}
			return strings.Join(escaped, ",")
		}
		if !bodyLoaded {
			body = jsonBody(c)
			bodyLoaded = true
		}
		if v, ok := body[name]; ok && v != nil {
			return url.QueryEscape(fmt.Sprint(v))
		}
		return "unknown-" + name
	})
}

// jsonBody 读取 JSON 请求体并放回，以便 handler 再次读取。
func jsonBody(c *gin.Context) map[string]interface{} {
	if c.Request.Body == nil || c.ContentType() != gin.MIMEJSON {
		return nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
