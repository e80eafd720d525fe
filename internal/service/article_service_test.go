package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lumenblog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Link{}, &db.Article{}, &db.Comment{}, &db.Admin{}, &db.Setting{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

// stubSummaries 是摘要生成器的测试替身。
type stubSummaries struct {
	available bool
	summary   string
	err       error
	calls     int
}

func (s *stubSummaries) IsAvailable() bool {
	return s.available
}

func (s *stubSummaries) GenerateSummary(ctx context.Context, title, content string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

func TestArticleServiceCreateDerivesSlug(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewArticleService(gdb, nil)

	result, err := svc.Create(context.Background(), ArticleInput{
		Title:   "Hello World 测试",
		Content: "正文内容",
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	if result.Article.Slug != "hello-world-测试" {
		t.Fatalf("unexpected slug %q", result.Article.Slug)
	}
	if result.Article.Tags == nil || len(result.Article.Tags) != 0 {
		t.Fatalf("expected empty tags slice, got %#v", result.Article.Tags)
	}
	if result.SummaryErr != nil {
		t.Fatalf("unexpected summary error: %v", result.SummaryErr)
	}
}

func TestArticleServiceCreateRejectsMissingFields(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewArticleService(gdb, nil)

	if _, err := svc.Create(context.Background(), ArticleInput{Content: "正文"}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := svc.Create(context.Background(), ArticleInput{Title: "标题"}); !errors.Is(err, ErrContentRequired) {
		t.Fatalf("expected ErrContentRequired, got %v", err)
	}
}

func TestArticleServiceCreateDuplicateSlug(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewArticleService(gdb, nil)

	if _, err := svc.Create(context.Background(), ArticleInput{Title: "同一个标题", Content: "一"}); err != nil {
		t.Fatalf("create first article: %v", err)
	}
	_, err := svc.Create(context.Background(), ArticleInput{Title: "同一个标题", Content: "二"})
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestArticleServiceCreateWithUnavailableAI(t *testing.T) {
	gdb := setupTestDB(t)
	summaries := &stubSummaries{available: false}
	svc := NewArticleService(gdb, summaries)

	result, err := svc.Create(context.Background(), ArticleInput{
		Title:             "无 AI 也能发布",
		Content:           "正文",
		GenerateAISummary: true,
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	if result.Article.AISummary != "" {
		t.Fatalf("expected empty ai summary, got %q", result.Article.AISummary)
	}
	if summaries.calls != 0 {
		t.Fatalf("expected no generation calls, got %d", summaries.calls)
	}
}

func TestArticleServiceCreateRecordsSummaryFailure(t *testing.T) {
	gdb := setupTestDB(t)
	summaries := &stubSummaries{available: true, err: &GenerationError{Message: "配额用尽"}}
	svc := NewArticleService(gdb, summaries)

	result, err := svc.Create(context.Background(), ArticleInput{
		Title:             "摘要失败不影响保存",
		Content:           "正文",
		GenerateAISummary: true,
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	if result.SummaryErr == nil {
		t.Fatalf("expected summary error to be recorded")
	}
	if result.Article.ID == 0 {
		t.Fatalf("expected article to be persisted")
	}

	var stored db.Article
	if err := gdb.First(&stored, result.Article.ID).Error; err != nil {
		t.Fatalf("load stored article: %v", err)
	}
	if stored.AISummary != "" {
		t.Fatalf("expected empty stored ai summary, got %q", stored.AISummary)
	}
}

func TestArticleServiceGetBySlugIncrementsViewCount(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewArticleService(gdb, nil)

	created, err := svc.Create(context.Background(), ArticleInput{
		Title:     "浏览量测试",
		Content:   "正文",
		Published: true,
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	first, err := svc.GetBySlug(created.Article.Slug)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if first.ViewCount != 1 {
		t.Fatalf("expected view count 1, got %d", first.ViewCount)
	}

	second, err := svc.GetBySlug(created.Article.Slug)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if second.ViewCount != 2 {
		t.Fatalf("expected view count 2, got %d", second.ViewCount)
	}
}

func TestArticleServiceGetBySlugHidesDrafts(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewArticleService(gdb, nil)

	created, err := svc.Create(context.Background(), ArticleInput{
		Title:   "未发布文章",
		Content: "正文",
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	if _, err := svc.GetBySlug(created.Article.Slug); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound for draft, got %v", err)
	}
}

func TestArticleServiceListPublishedClampsPageSize(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewArticleService(gdb, nil)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), ArticleInput{
			Title:     fmt.Sprintf("文章-%d", i),
			Content:   "正文",
			Published: true,
		}); err != nil {
			t.Fatalf("create article %d: %v", i, err)
		}
	}

	list, err := svc.ListPublished(1, 1000, "")
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if list.PerPage != maxArticlePageSize {
		t.Fatalf("expected per page clamped to %d, got %d", maxArticlePageSize, list.PerPage)
	}
	if list.Total != 3 {
		t.Fatalf("expected total 3, got %d", list.Total)
	}
}

func TestArticleServiceListPublishedFiltersByTag(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewArticleService(gdb, nil)

	if _, err := svc.Create(context.Background(), ArticleInput{
		Title:     "Go 文章",
		Content:   "正文",
		Tags:      []string{"go", "后端"},
		Published: true,
	}); err != nil {
		t.Fatalf("create tagged article: %v", err)
	}
	if _, err := svc.Create(context.Background(), ArticleInput{
		Title:     "随笔",
		Content:   "正文",
		Tags:      []string{"生活"},
		Published: true,
	}); err != nil {
		t.Fatalf("create other article: %v", err)
	}

	list, err := svc.ListPublished(1, 10, "go")
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected 1 article tagged go, got %d", list.Total)
	}
	if len(list.Articles) != 1 || list.Articles[0].Title != "Go 文章" {
		t.Fatalf("unexpected filter result: %#v", list.Articles)
	}
}

func TestArticleServiceUpdatePartial(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewArticleService(gdb, nil)

	created, err := svc.Create(context.Background(), ArticleInput{
		Title:   "原始标题",
		Content: "原始正文",
		Summary: "原始摘要",
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	newTitle := "更新后的标题"
	published := true
	result, err := svc.Update(context.Background(), created.Article.ID, ArticleUpdate{
		Title:     &newTitle,
		Published: &published,
	})
	if err != nil {
		t.Fatalf("update article: %v", err)
	}
	if result.Article.Title != newTitle {
		t.Fatalf("expected updated title, got %q", result.Article.Title)
	}
	if result.Article.Content != "原始正文" {
		t.Fatalf("content should be untouched, got %q", result.Article.Content)
	}
	if result.Article.Summary != "原始摘要" {
		t.Fatalf("summary should be untouched, got %q", result.Article.Summary)
	}
	if !result.Article.Published {
		t.Fatalf("expected article to be published")
	}
}

func TestArticleServiceRegenerateSummaryUnavailable(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewArticleService(gdb, &stubSummaries{available: false})

	created, err := svc.Create(context.Background(), ArticleInput{Title: "标题", Content: "正文"})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	if _, err := svc.RegenerateSummary(context.Background(), created.Article.ID); !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}
}

func TestArticleServiceRegenerateSummaryPersists(t *testing.T) {
	gdb := setupTestDB(t)
	summaries := &stubSummaries{available: true, summary: "重新生成的摘要"}
	svc := NewArticleService(gdb, summaries)

	created, err := svc.Create(context.Background(), ArticleInput{Title: "标题", Content: "正文"})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	article, err := svc.RegenerateSummary(context.Background(), created.Article.ID)
	if err != nil {
		t.Fatalf("regenerate summary: %v", err)
	}
	if article.AISummary != "重新生成的摘要" {
		t.Fatalf("unexpected summary %q", article.AISummary)
	}

	var stored db.Article
	if err := gdb.First(&stored, created.Article.ID).Error; err != nil {
		t.Fatalf("load stored article: %v", err)
	}
	if stored.AISummary != "重新生成的摘要" {
		t.Fatalf("summary not persisted, got %q", stored.AISummary)
	}
}

func TestArticleServiceDeleteRemovesComments(t *testing.T) {
	gdb := setupTestDB(t)
	articles := NewArticleService(gdb, nil)
	comments := NewCommentService(gdb)

	created, err := articles.Create(context.Background(), ArticleInput{
		Title:     "待删除文章",
		Content:   "正文",
		Published: true,
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	if _, err := comments.Submit(CommentInput{
		ArticleID: created.Article.ID,
		Nickname:  "访客",
		Content:   "留个言",
	}); err != nil {
		t.Fatalf("submit comment: %v", err)
	}

	if err := articles.Delete(created.Article.ID); err != nil {
		t.Fatalf("delete article: %v", err)
	}

	var commentCount int64
	if err := gdb.Model(&db.Comment{}).Where("article_id = ?", created.Article.ID).Count(&commentCount).Error; err != nil {
		t.Fatalf("count comments: %v", err)
	}
	if commentCount != 0 {
		t.Fatalf("expected comments removed, got %d", commentCount)
	}

	if err := articles.Delete(created.Article.ID); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound on second delete, got %v", err)
	}
}
