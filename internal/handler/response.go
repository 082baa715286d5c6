// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"portfolio-cms/internal/service"
	"portfolio-cms/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{"code": status, "message": message, "data": data})
}

func ok(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, "success", data)
}

func created(c *gin.Context, data interface{}) {
	respond(c, http.StatusCreated, "created", data)
}

// respondError 将业务错误映射为 HTTP 状态码，内部错误只记录日志不向外暴露细节。
func respondError(c *gin.Context, err error) {
	var e *service.Error
	msg := "服务器内部错误"
	if errors.As(err, &e) {
		msg = e.Message
	}
	status := http.StatusInternalServerError
	switch service.KindOf(err) {
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict:
		status = http.StatusConflict
	case service.KindUnauthorized:
		status = http.StatusUnauthorized
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindBadRequest:
		status = http.StatusBadRequest
	default:
		log.Errorf("%s %s 处理失败: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	respond(c, status, msg, nil)
}

// bindError 返回请求体校验失败的字段列表。
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			if fe.Param() != "" {
				fields = append(fields, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			} else {
				fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
			}
		}
		respond(c, http.StatusBadRequest, "请求参数校验失败: "+strings.Join(fields, "; "), nil)
		return
	}
	log.Warnf("%s %s 无效的请求负载: %v", c.Request.Method, c.Request.URL.Path, err)
	respond(c, http.StatusBadRequest, "无效的请求负载", nil)
}

// bindOptionalJSON 允许请求体为空。
func bindOptionalJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// formFile 读取 multipart 表单中的文件，required 为 false 且未上传时返回 nil。
// 调用方负责调用返回的 closer。
func formFile(c *gin.Context, field string, required bool) (*service.FileInput, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) && !required {
			return nil, nopCloser{}, nil
		}
		return nil, nil, service.BadRequest("缺少上传文件字段 " + field)
	}
	return openFile(fh)
}

func openFile(fh *multipart.FileHeader) (*service.FileInput, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, service.BadRequest("读取上传文件失败")
	}
	return &service.FileInput{Name: fh.Filename, Size: fh.Size, Reader: f}, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// idsRequest 是批量关联标签或文章的请求体。
type idsRequest struct {
	TagIDs     []string `json:"tagIds"`
	ArticleIDs []string `json:"articleIds"`
}
