package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/lumenblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrTitleRequired   = errors.New("article title is required")
	ErrContentRequired = errors.New("article content is required")
	ErrDuplicateSlug   = errors.New("article slug already exists")
)

const maxArticlePageSize = 50

// SummaryProvider 描述摘要生成器及其可用状态，便于注入测试替身。
type SummaryProvider interface {
	IsAvailable() bool
	GenerateSummary(ctx context.Context, title, content string) (string, error)
}

// ArticleService wraps article related database operations.
type ArticleService struct {
	db        *gorm.DB
	summaries SummaryProvider
}

// ArticleInput represents fields accepted when creating an article.
type ArticleInput struct {
	Title             string
	Slug              string
	Content           string
	Summary           string
	Tags              []string
	Published         bool
	GenerateAISummary bool
}

// ArticleUpdate 表示部分更新：nil 字段保持原值不变。
type ArticleUpdate struct {
	Title               *string
	Slug                *string
	Content             *string
	Summary             *string
	Tags                *[]string
	Published           *bool
	RegenerateAISummary bool
}

// ArticleWriteResult 携带写入结果与 best-effort 摘要生成的警告。
// SummaryErr 非空表示摘要生成失败但文章已正常保存。
type ArticleWriteResult struct {
	Article    *db.Article
	SummaryErr error
}

// ArticleListResult aggregates paginated list data.
type ArticleListResult struct {
	Articles   []db.Article
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB, summaries SummaryProvider) *ArticleService {
	return &ArticleService{db: gdb, summaries: summaries}
}

// ListPublished returns published articles, newest first, optionally filtered
// by tag. Page size defaults to 10 and is clamped to 50 server-side.
func (s *ArticleService) ListPublished(page, perPage int, tag string) (*ArticleListResult, error) {
	result := &ArticleListResult{Page: page, PerPage: perPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}
	if result.PerPage > maxArticlePageSize {
		result.PerPage = maxArticlePageSize
	}

	query := s.db.Model(&db.Article{}).Where("published = ?", true)
	if tag = strings.TrimSpace(tag); tag != "" {
		// tags 以 JSON 数组存储，按带引号的元素匹配
		query = query.Where("tags LIKE ?", `%"`+tag+`"%`)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage
	if err := query.
		Order("created_at desc, id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Articles).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	return result, nil
}

// List provides paginated articles for the admin console, drafts included.
func (s *ArticleService) List(page, perPage int) (*ArticleListResult, error) {
	result := &ArticleListResult{Page: page, PerPage: perPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}
	if result.PerPage > maxArticlePageSize {
		result.PerPage = maxArticlePageSize
	}

	query := s.db.Model(&db.Article{})
	if err := query.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage
	if err := query.
		Order("created_at desc, id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Articles).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	return result, nil
}

// Get fetches an article by id regardless of publication state.
func (s *ArticleService) Get(id uint) (*db.Article, error) {
	var article db.Article
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// GetBySlug 返回已发布文章并在同一事务内将浏览量加一，
// 返回的 ViewCount 已包含本次访问。
func (s *ArticleService) GetBySlug(slug string) (*db.Article, error) {
	var article db.Article
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ? AND published = ?", slug, true).First(&article).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrArticleNotFound
			}
			return err
		}

		// UpdateColumn 跳过 updated_at，浏览量不算内容变更
		if err := tx.Model(&db.Article{}).
			Where("id = ?", article.ID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
			return err
		}

		article.ViewCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Create persists an article, deriving the slug from the title when absent.
// AI summary generation is best-effort: failures are recorded on the result
// and logged, never blocking the write.
func (s *ArticleService) Create(ctx context.Context, input ArticleInput) (*ArticleWriteResult, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrContentRequired
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = DeriveSlug(title)
	}

	result := &ArticleWriteResult{}

	aiSummary := ""
	if input.GenerateAISummary && s.summaries != nil && s.summaries.IsAvailable() {
		summary, err := s.summaries.GenerateSummary(ctx, title, input.Content)
		if err != nil {
			result.SummaryErr = err
			log.Printf("[AI] 文章创建时生成摘要失败: %v", err)
		} else {
			aiSummary = summary
		}
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	article := db.Article{
		Title:     title,
		Slug:      slug,
		Content:   input.Content,
		Summary:   strings.TrimSpace(input.Summary),
		AISummary: aiSummary,
		Tags:      tags,
		Published: input.Published,
	}

	if err := s.db.Create(&article).Error; err != nil {
		if isDuplicateSlug(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, err
	}

	result.Article = &article
	return result, nil
}

// Update applies partial updates to an existing article. Summary regeneration
// follows the same best-effort rules as Create and uses the effective title.
func (s *ArticleService) Update(ctx context.Context, id uint, input ArticleUpdate) (*ArticleWriteResult, error) {
	var existing db.Article
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		existing.Title = strings.TrimSpace(*input.Title)
	}
	if input.Slug != nil {
		existing.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Content != nil {
		existing.Content = *input.Content
	}
	if input.Summary != nil {
		existing.Summary = strings.TrimSpace(*input.Summary)
	}
	if input.Tags != nil {
		existing.Tags = *input.Tags
	}
	if input.Published != nil {
		existing.Published = *input.Published
	}

	result := &ArticleWriteResult{}

	if input.RegenerateAISummary && input.Content != nil && s.summaries != nil && s.summaries.IsAvailable() {
		summary, err := s.summaries.GenerateSummary(ctx, existing.Title, existing.Content)
		if err != nil {
			result.SummaryErr = err
			log.Printf("[AI] 文章更新时生成摘要失败: %v", err)
		} else {
			existing.AISummary = summary
		}
	}

	if err := s.db.Save(&existing).Error; err != nil {
		if isDuplicateSlug(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, err
	}

	result.Article = &existing
	return result, nil
}

// RegenerateSummary 是管理员显式触发的重新生成：与 Create/Update 的
// best-effort 路径不同，这里的生成失败会原样返回给调用方。
func (s *ArticleService) RegenerateSummary(ctx context.Context, id uint) (*db.Article, error) {
	if s.summaries == nil || !s.summaries.IsAvailable() {
		return nil, ErrAIUnavailable
	}

	var article db.Article
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	summary, err := s.summaries.GenerateSummary(ctx, article.Title, article.Content)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&article).Update("ai_summary", summary).Error; err != nil {
		return nil, err
	}

	article.AISummary = summary
	return &article, nil
}

// Delete removes an article and its comments permanently.
func (s *ArticleService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&db.Article{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrArticleNotFound
		}

		// sqlite 默认不强制外键级联，评论需要显式清理
		return tx.Where("article_id = ?", id).Delete(&db.Comment{}).Error
	})
}

func isDuplicateSlug(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: articles.slug")
}
