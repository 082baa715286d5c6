package model

// ArticleDocument 对应搜索索引中的一篇文章翻译，文档 ID 为翻译 ID。
type ArticleDocument struct {
	TranslationID    string  `json:"translation_id"`
	ArticleID        string  `json:"article_id"`
	Language         string  `json:"language"`
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	Content          string  `json:"content"`
	AuxiliaryContent string  `json:"auxiliary_content"`
	Promo            string  `json:"promo"`
	Date             *Date   `json:"date,omitempty"`
	Score            float64 `json:"-"`
}

// SearchHit 是搜索接口返回的单条结果。
type SearchHit struct {
	ID            string  `json:"id"`
	TranslationID string  `json:"idTranslation"`
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Promo         string  `json:"promo"`
	Date          *Date   `json:"date"`
	Language      string  `json:"language"`
	Score         float64 `json:"score"`
}
