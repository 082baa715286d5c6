package repository

import (
	"context"
	"strings"

	"portfolio-cms/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository 定义文章、文章翻译以及标签关联的数据操作。
type ArticleRepository interface {
	Create(ctx context.Context, a *model.Article) error
	FindByID(ctx context.Context, id string) (*model.Article, error)
	FindByIDForUpdate(ctx context.Context, id string) (*model.Article, error)
	// CountExisting 返回 ids 中实际存在的文章数量，ids 需已去重。
	CountExisting(ctx context.Context, ids []string) (int64, error)
	Update(ctx context.Context, a *model.Article) error
	Delete(ctx context.Context, id string) error

	CreateTranslation(ctx context.Context, t *model.ArticleTranslation) error
	TranslationExists(ctx context.Context, articleID, languageID string) (bool, error)
	// SlugExists 判断 slug 是否已被占用，excludeID 非空时排除该翻译自身。
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	FindTranslationByID(ctx context.Context, id string) (*model.ArticleTranslation, error)
	FindTranslationForUpdate(ctx context.Context, id string) (*model.ArticleTranslation, error)
	FindTranslations(ctx context.Context, articleID string) ([]model.ArticleTranslation, error)
	SaveTranslation(ctx context.Context, t *model.ArticleTranslation) error
	DeleteTranslation(ctx context.Context, id string) error

	AddTags(ctx context.Context, translationID string, tagIDs []string) error
	RemoveTag(ctx context.Context, translationID, tagID string) error

	ListByLanguage(ctx context.Context, code string) ([]model.ArticleView, error)
	// FindView 按文章 id 或翻译 slug 查询。
	FindView(ctx context.Context, identifier, code string, bySlug bool) (*model.ArticleView, error)
	Paginate(ctx context.Context, q model.ArticleQuery) (*model.ArticlePage, error)
	Search(ctx context.Context, code, q string, size int) ([]model.ArticleView, error)
	ListSlugs(ctx context.Context) ([]model.ArticleSlug, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, a *model.Article) error {
	return dbFrom(ctx, r.db).Create(a).Error
}

func (r *articleRepository) FindByID(ctx context.Context, id string) (*model.Article, error) {
	return findByID[model.Article](dbFrom(ctx, r.db), id, false)
}

func (r *articleRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Article, error) {
	return findByID[model.Article](dbFrom(ctx, r.db), id, true)
}

func (r *articleRepository) CountExisting(ctx context.Context, ids []string) (int64, error) {
	return countIDs(dbFrom(ctx, r.db), &model.Article{}, ids)
}

func (r *articleRepository) Update(ctx context.Context, a *model.Article) error {
	return dbFrom(ctx, r.db).Save(a).Error
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	return deleteByID[model.Article](dbFrom(ctx, r.db), id)
}

func (r *articleRepository) CreateTranslation(ctx context.Context, t *model.ArticleTranslation) error {
	return dbFrom(ctx, r.db).Create(t).Error
}

func (r *articleRepository) TranslationExists(ctx context.Context, articleID, languageID string) (bool, error) {
	return exists(dbFrom(ctx, r.db), &model.ArticleTranslation{},
		"article_id = ? AND language_id = ?", articleID, languageID)
}

func (r *articleRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	if excludeID == "" {
		return exists(dbFrom(ctx, r.db), &model.ArticleTranslation{}, "url = ?", slug)
	}
	return exists(dbFrom(ctx, r.db), &model.ArticleTranslation{}, "url = ? AND id <> ?", slug, excludeID)
}

func (r *articleRepository) FindTranslationByID(ctx context.Context, id string) (*model.ArticleTranslation, error) {
	return findByID[model.ArticleTranslation](dbFrom(ctx, r.db), id, false)
}

func (r *articleRepository) FindTranslationForUpdate(ctx context.Context, id string) (*model.ArticleTranslation, error) {
	return findByID[model.ArticleTranslation](dbFrom(ctx, r.db), id, true)
}

// FindTranslations 返回文章的全部翻译并预加载语言，用于建立搜索索引。
func (r *articleRepository) FindTranslations(ctx context.Context, articleID string) ([]model.ArticleTranslation, error) {
	var ts []model.ArticleTranslation
	err := dbFrom(ctx, r.db).Preload("Language").Where("article_id = ?", articleID).Find(&ts).Error
	return ts, err
}

func (r *articleRepository) SaveTranslation(ctx context.Context, t *model.ArticleTranslation) error {
	return dbFrom(ctx, r.db).Omit("Language").Save(t).Error
}

func (r *articleRepository) DeleteTranslation(ctx context.Context, id string) error {
	return deleteByID[model.ArticleTranslation](dbFrom(ctx, r.db), id)
}

// AddTags 以集合并集的语义添加标签，已存在的关联行被忽略。
func (r *articleRepository) AddTags(ctx context.Context, translationID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]model.ArticleTranslationTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, model.ArticleTranslationTag{ArticleTranslationID: translationID, TagID: id})
	}
	return dbFrom(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *articleRepository) RemoveTag(ctx context.Context, translationID, tagID string) error {
	return dbFrom(ctx, r.db).
		Where("article_translation_id = ? AND tag_id = ?", translationID, tagID).
		Delete(&model.ArticleTranslationTag{}).Error
}

func (r *articleRepository) ListByLanguage(ctx context.Context, code string) ([]model.ArticleView, error) {
	var rows []articleRow
	err := articleJoin(dbFrom(ctx, r.db), code).
		Select(articleColumns).
		Order("t.date DESC, a.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupArticleRows(rows, nil), nil
}

func (r *articleRepository) FindView(ctx context.Context, identifier, code string, bySlug bool) (*model.ArticleView, error) {
	q := articleJoin(dbFrom(ctx, r.db), code).Select(articleColumns)
	if bySlug {
		q = q.Where("t.url = ?", identifier)
	} else {
		q = q.Where("a.id = ?", identifier)
	}
	var rows []articleRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	views := groupArticleRows(rows, nil)
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

// Paginate 先统计去重后的文章数，再取当前页的文章 id，最后按 id 回填完整字段。
// 分页作用在文章 id 上而不是 join 后的行上，多个标签不会让一页超出 limit。
func (r *articleRepository) Paginate(ctx context.Context, q model.ArticleQuery) (*model.ArticlePage, error) {
	page := &model.ArticlePage{Items: []model.ArticleView{}, Page: q.Page, Limit: q.Limit}
	filtered := func() *gorm.DB {
		return articleJoin(dbFrom(ctx, r.db), q.Lang).Scopes(articleFilters(q.Category, q.Tags))
	}

	if err := filtered().Select("COUNT(DISTINCT a.id)").Scan(&page.Total).Error; err != nil {
		return nil, err
	}
	if page.Total == 0 {
		return page, nil
	}
	page.TotalPages = int((page.Total + int64(q.Limit) - 1) / int64(q.Limit))
	if q.Page > page.TotalPages {
		return page, nil
	}

	var ids []string
	err := filtered().
		Group("a.id, t.date").
		Order("t.date DESC, a.id").
		Offset((q.Page-1)*q.Limit).
		Limit(q.Limit).
		Pluck("a.id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return page, nil
	}

	items, err := r.hydrate(filtered(), ids)
	if err != nil {
		return nil, err
	}
	page.Items = items
	return page, nil
}

// Search 是未启用 Elasticsearch 时的回退实现：在标题和正文上做 LIKE 匹配。
func (r *articleRepository) Search(ctx context.Context, code, q string, size int) ([]model.ArticleView, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	filtered := func() *gorm.DB {
		return articleJoin(dbFrom(ctx, r.db), code).
			Where("(LOWER(t.title) LIKE ? ESCAPE '!' OR LOWER(t.content) LIKE ? ESCAPE '!')", pattern, pattern)
	}

	var ids []string
	err := filtered().
		Group("a.id, t.date").
		Order("t.date DESC, a.id").
		Limit(size).
		Pluck("a.id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.ArticleView{}, nil
	}
	return r.hydrate(filtered(), ids)
}

// ListSlugs 返回所有文章翻译的语言、slug 与日期，用于生成站点地图。
func (r *articleRepository) ListSlugs(ctx context.Context) ([]model.ArticleSlug, error) {
	var out []model.ArticleSlug
	err := dbFrom(ctx, r.db).Table("article_translations AS t").
		Select("l.code AS language, t.url AS slug, t.date AS date").
		Joins("JOIN languages l ON l.id = t.language_id").
		Order("l.code, t.date DESC").
		Scan(&out).Error
	return out, err
}

func (r *articleRepository) hydrate(db *gorm.DB, ids []string) ([]model.ArticleView, error) {
	var rows []articleRow
	err := db.Select(articleColumns).
		Where("a.id IN ?", ids).
		Order("t.date DESC, a.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupArticleRows(rows, ids), nil
}

const articleColumns = "a.id AS id, t.id AS translation_id, t.title AS title, t.url AS url, " +
	"t.content AS content, t.alt_image AS alt_image, t.auxiliary_content AS auxiliary_content, " +
	"t.date AS date, t.date_end AS date_end, t.promo AS promo, a.image AS image, " +
	"ct.name AS category, tt.name AS tag, l.code AS language"

// articleRow 是 join 之后的扁平行，每个标签一行。
type articleRow struct {
	ID               string
	TranslationID    string
	Title            string
	URL              string
	Content          string
	AltImage         string
	AuxiliaryContent string
	Date             *model.Date
	DateEnd          *model.Date
	Promo            string
	Image            *string
	Category         *string
	Tag              *string
	Language         string
}

// articleJoin 连接 翻译 -> 语言 -> 文章 -> 同语言分类翻译，以及 翻译 -> 标签关联 -> 同语言标签翻译。
func articleJoin(db *gorm.DB, code string) *gorm.DB {
	return db.Table("article_translations AS t").
		Joins("JOIN languages l ON l.id = t.language_id").
		Joins("JOIN articles a ON a.id = t.article_id").
		Joins("LEFT JOIN category_translations ct ON ct.category_id = a.category_id AND ct.language_id = l.id").
		Joins("LEFT JOIN article_translation_tags att ON att.article_translation_id = t.id").
		Joins("LEFT JOIN tag_translations tt ON tt.tag_id = att.tag_id AND tt.language_id = l.id").
		Where("l.code = ?", code)
}

func articleFilters(category string, tags []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if category != "" {
			db = db.Where("LOWER(ct.name) = LOWER(?)", category)
		}
		if len(tags) > 0 {
			db = db.Where("LOWER(tt.name) IN ?", tags)
		}
		return db
	}
}

// groupArticleRows 按文章 id 合并行并收集去重后的标签名。order 非空时按其顺序输出。
func groupArticleRows(rows []articleRow, order []string) []model.ArticleView {
	byID := make(map[string]*model.ArticleView)
	seenTags := make(map[string]map[string]struct{})
	var firstSeen []string

	for _, row := range rows {
		v, ok := byID[row.ID]
		if !ok {
			v = &model.ArticleView{
				ID:               row.ID,
				TranslationID:    row.TranslationID,
				Title:            row.Title,
				URL:              row.URL,
				Content:          row.Content,
				AltImage:         row.AltImage,
				AuxiliaryContent: row.AuxiliaryContent,
				Date:             row.Date,
				DateEnd:          row.DateEnd,
				Promo:            row.Promo,
				Image:            row.Image,
				Category:         row.Category,
				Tags:             []string{},
				Language:         row.Language,
			}
			byID[row.ID] = v
			seenTags[row.ID] = make(map[string]struct{})
			firstSeen = append(firstSeen, row.ID)
		}
		if row.Tag == nil {
			continue
		}
		if _, dup := seenTags[row.ID][*row.Tag]; dup {
			continue
		}
		seenTags[row.ID][*row.Tag] = struct{}{}
		v.Tags = append(v.Tags, *row.Tag)
	}

	if order == nil {
		order = firstSeen
	}
	out := make([]model.ArticleView, 0, len(order))
	for _, id := range order {
		if v, ok := byID[id]; ok {
			out = append(out, *v)
		}
	}
	return out
}

// escapeLike 转义 LIKE 通配符，转义字符为 '!'，在 MySQL 与 SQLite 中含义一致。
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
