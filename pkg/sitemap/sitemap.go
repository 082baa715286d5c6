// Package sitemap 生成 sitemaps.org 格式的 XML。
package sitemap

import (
	"encoding/xml"
	"net/url"
	"strings"
	"time"
)

// XMLNamespace sitemap 的 XML 命名空间。
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq 页面更新频率。
type ChangeFreq string

const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// URL 是 sitemap 中的一个条目。
type URL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// URLSet 是完整的 sitemap 文档。
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// ArticleEntry 构建文章条目所需的数据。
type ArticleEntry struct {
	Language string
	Slug     string
	Date     *time.Time
}

// Builder 按语言收集首页与文章链接。
type Builder struct {
	baseURL string
	urls    []URL
}

// NewBuilder 创建 Builder，baseURL 末尾的斜杠会被去掉。
func NewBuilder(baseURL string) *Builder {
	return &Builder{baseURL: strings.TrimRight(baseURL, "/")}
}

// AddHomepage 添加某个语言的首页。
func (b *Builder) AddHomepage(language string) {
	b.urls = append(b.urls, URL{
		Loc:        b.baseURL + "/" + url.PathEscape(language),
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddArticle 添加一篇文章翻译。
func (b *Builder) AddArticle(entry ArticleEntry) {
	u := URL{
		Loc:        b.baseURL + "/" + url.PathEscape(entry.Language) + "/articles/" + url.PathEscape(entry.Slug),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	}
	if entry.Date != nil && !entry.Date.IsZero() {
		u.LastMod = entry.Date.Format("2006-01-02")
	}
	b.urls = append(b.urls, u)
}

// Len 当前条目数。
func (b *Builder) Len() int {
	return len(b.urls)
}

// Build 生成带 XML 头的文档。
func (b *Builder) Build() ([]byte, error) {
	doc := URLSet{XMLNS: XMLNamespace, URLs: b.urls}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
