package service

import (
	"errors"
	"strings"

	"github.com/lumenblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound        = errors.New("comment not found")
	ErrNicknameRequired       = errors.New("comment nickname is required")
	ErrCommentContentRequired = errors.New("comment content is required")
)

// CommentService wraps comment related database operations.
type CommentService struct {
	db *gorm.DB
}

// CommentInput represents fields accepted when submitting a comment.
type CommentInput struct {
	ArticleID uint
	Nickname  string
	Email     string
	Content   string
	IPAddress string
}

// PendingComment 为待审核评论附带所属文章标题，方便后台筛查。
type PendingComment struct {
	db.Comment
	ArticleTitle string
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Submit 创建一条待审核评论。文章不存在时返回 ErrArticleNotFound，不落库。
func (s *CommentService) Submit(input CommentInput) (*db.Comment, error) {
	nickname := strings.TrimSpace(input.Nickname)
	if nickname == "" {
		return nil, ErrNicknameRequired
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrCommentContentRequired
	}

	var articleID uint
	if err := s.db.Model(&db.Article{}).
		Select("id").
		Where("id = ?", input.ArticleID).
		Take(&articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	comment := db.Comment{
		ArticleID:  input.ArticleID,
		Nickname:   nickname,
		Email:      strings.TrimSpace(input.Email),
		Content:    input.Content,
		IsApproved: false,
		IPAddress:  strings.TrimSpace(input.IPAddress),
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListApprovedForArticle returns approved comments for an article, newest first.
func (s *CommentService) ListApprovedForArticle(articleID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.
		Where("article_id = ? AND is_approved = ?", articleID, true).
		Order("created_at desc, id desc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ListPending returns comments awaiting moderation, newest first,
// each joined with its article title.
func (s *CommentService) ListPending() ([]PendingComment, error) {
	var pending []PendingComment
	if err := s.db.Model(&db.Comment{}).
		Select("comments.*, articles.title AS article_title").
		Joins("JOIN articles ON articles.id = comments.article_id").
		Where("comments.is_approved = ?", false).
		Order("comments.created_at desc, comments.id desc").
		Find(&pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

// SetApproval 将评论置为通过或拒绝。重复设置同一状态不视为错误。
func (s *CommentService) SetApproval(id uint, approved bool) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if comment.IsApproved != approved {
		if err := s.db.Model(&comment).Update("is_approved", approved).Error; err != nil {
			return nil, err
		}
		comment.IsApproved = approved
	}

	return &comment, nil
}

// Delete removes a comment by id.
func (s *CommentService) Delete(id uint) error {
	res := s.db.Delete(&db.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
