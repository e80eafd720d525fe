package service

import (
	"context"
	"errors"
	"testing"
)

func TestCommentServiceSubmitRequiresExistingArticle(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewCommentService(gdb)

	_, err := svc.Submit(CommentInput{
		ArticleID: 9999,
		Nickname:  "访客",
		Content:   "文章不存在也要评论",
	})
	if !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestCommentServiceSubmitValidation(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewCommentService(gdb)

	if _, err := svc.Submit(CommentInput{ArticleID: 1, Content: "没有昵称"}); !errors.Is(err, ErrNicknameRequired) {
		t.Fatalf("expected ErrNicknameRequired, got %v", err)
	}
	if _, err := svc.Submit(CommentInput{ArticleID: 1, Nickname: "访客", Content: "   "}); !errors.Is(err, ErrCommentContentRequired) {
		t.Fatalf("expected ErrCommentContentRequired, got %v", err)
	}
}

func TestCommentServiceModerationFlow(t *testing.T) {
	gdb := setupTestDB(t)
	articles := NewArticleService(gdb, nil)
	comments := NewCommentService(gdb)

	created, err := articles.Create(context.Background(), ArticleInput{
		Title:     "审核流程",
		Content:   "正文",
		Published: true,
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	articleID := created.Article.ID

	comment, err := comments.Submit(CommentInput{
		ArticleID: articleID,
		Nickname:  "访客",
		Email:     "guest@example.com",
		Content:   "写得不错",
		IPAddress: "203.0.113.7",
	})
	if err != nil {
		t.Fatalf("submit comment: %v", err)
	}
	if comment.IsApproved {
		t.Fatalf("new comment must start pending")
	}

	// 审核前对外不可见
	visible, err := comments.ListApprovedForArticle(articleID)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("expected no visible comments before approval, got %d", len(visible))
	}

	pending, err := comments.ListPending()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending comment, got %d", len(pending))
	}
	if pending[0].ArticleTitle != "审核流程" {
		t.Fatalf("expected article title to be joined, got %q", pending[0].ArticleTitle)
	}

	if _, err := comments.SetApproval(comment.ID, true); err != nil {
		t.Fatalf("approve comment: %v", err)
	}

	visible, err = comments.ListApprovedForArticle(articleID)
	if err != nil {
		t.Fatalf("list approved after approval: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 visible comment, got %d", len(visible))
	}

	// 拒绝后重新隐藏
	if _, err := comments.SetApproval(comment.ID, false); err != nil {
		t.Fatalf("reject comment: %v", err)
	}
	visible, err = comments.ListApprovedForArticle(articleID)
	if err != nil {
		t.Fatalf("list approved after rejection: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("expected comment hidden after rejection, got %d", len(visible))
	}
}

func TestCommentServiceSetApprovalIdempotent(t *testing.T) {
	gdb := setupTestDB(t)
	articles := NewArticleService(gdb, nil)
	comments := NewCommentService(gdb)

	created, err := articles.Create(context.Background(), ArticleInput{
		Title:     "幂等审核",
		Content:   "正文",
		Published: true,
	})
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	comment, err := comments.Submit(CommentInput{
		ArticleID: created.Article.ID,
		Nickname:  "访客",
		Content:   "内容",
	})
	if err != nil {
		t.Fatalf("submit comment: %v", err)
	}

	for i := 0; i < 2; i++ {
		updated, err := comments.SetApproval(comment.ID, true)
		if err != nil {
			t.Fatalf("approve round %d: %v", i, err)
		}
		if !updated.IsApproved {
			t.Fatalf("expected approved state on round %d", i)
		}
	}
}

func TestCommentServiceDelete(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewCommentService(gdb)

	if err := svc.Delete(12345); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}
