// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/model"
	"portfolio-cms/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const articleMapping = `{
	"mappings": {
		"properties": {
			"translation_id":    { "type": "keyword" },
			"article_id":        { "type": "keyword" },
			"language":          { "type": "keyword" },
			"title":             { "type": "text" },
			"url":               { "type": "keyword" },
			"content":           { "type": "text" },
			"auxiliary_content": { "type": "text" },
			"promo":             { "type": "text" },
			"date":              { "type": "date", "format": "yyyy-MM-dd" }
		}
	}
}`

// ArticleIndex 封装文章搜索索引的读写。
type ArticleIndex struct {
	client *elasticsearch.Client
	index  string
}

// NewArticleIndex 初始化 Elasticsearch 客户端。
func NewArticleIndex(cfg config.ElasticsearchConfig) (*ArticleIndex, error) {
	var addrs []string
	for _, a := range strings.Split(cfg.Addresses, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, err
	}
	index := cfg.IndexName
	if index == "" {
		index = "articles"
	}
	return &ArticleIndex{client: client, index: index}, nil
}

// EnsureIndex 检查索引是否存在，如果不存在则创建它。
func (x *ArticleIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.client.Indices.Exists([]string{x.index}, x.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", x.index)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	res, err = x.client.Indices.Create(
		x.index,
		x.client.Indices.Create.WithBody(strings.NewReader(articleMapping)),
		x.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", x.index, err)
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", x.index, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", x.index)
	return nil
}

// IndexArticle 写入（或覆盖）一篇文章翻译。
func (x *ArticleIndex) IndexArticle(ctx context.Context, doc model.ArticleDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: doc.TranslationID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("索引文档到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index document")
	}
	return nil
}

// DeleteArticle 删除一篇文章的全部翻译文档。
func (x *ArticleIndex) DeleteArticle(ctx context.Context, articleID string) error {
	query, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"article_id": articleID},
		},
	})
	if err != nil {
		return err
	}
	refresh := true
	req := esapi.DeleteByQueryRequest{
		Index:   []string{x.index},
		Body:    bytes.NewReader(query),
		Refresh: &refresh,
	}
	res, err := req.Do(ctx, x.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("从 Elasticsearch 删除文章出错: %s", res.String())
		return errors.New("failed to delete article documents")
	}
	return nil
}

// Search 在指定语言中按标题、正文、附加内容与推广语检索。
func (x *ArticleIndex) Search(ctx context.Context, lang, q string, size int) ([]model.ArticleDocument, error) {
	query, err := json.Marshal(searchQuery(lang, q, size))
	if err != nil {
		return nil, err
	}
	res, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(bytes.NewReader(query)),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("Elasticsearch 检索出错: %s", res.String())
		return nil, errors.New("search request failed")
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64               `json:"_score"`
				Source model.ArticleDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析检索结果失败: %w", err)
	}
	docs := make([]model.ArticleDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		doc := h.Source
		doc.Score = h.Score
		docs = append(docs, doc)
	}
	return docs, nil
}

func searchQuery(lang, q string, size int) map[string]interface{} {
	return map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  q,
						"fields": []string{"title^3", "content", "auxiliary_content", "promo"},
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"language": lang},
				},
			},
		},
	}
}
