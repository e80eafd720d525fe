package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumenblog/internal/db"
	"github.com/lumenblog/internal/service"
)

// commentView 是评论的公开投影，不暴露邮箱与 IP。
type commentView struct {
	ID        uint      `json:"id"`
	Nickname  string    `json:"nickname"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentView(comment *db.Comment) commentView {
	return commentView{
		ID:        comment.ID,
		Nickname:  comment.Nickname,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// ListArticleComments 返回某篇文章的已审核评论。
// 路由参数与文章详情共用 :slug 名称，这里承载的是数字 ID。
func (a *API) ListArticleComments(c *gin.Context) {
	id, err := parseUintParam(c, "slug")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	comments, err := a.comments.ListApprovedForArticle(id)
	if err != nil {
		internalError(c, err, "获取评论失败")
		return
	}

	views := make([]commentView, 0, len(comments))
	for i := range comments {
		views = append(views, newCommentView(&comments[i]))
	}

	respondSuccess(c, http.StatusOK, views)
}

type commentPayload struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Content  string `json:"content"`
}

// SubmitComment 提交评论，新评论始终进入待审核状态。
func (a *API) SubmitComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var payload commentPayload
	if !bindJSON(c, &payload, "请求体格式错误") {
		return
	}

	comment, err := a.comments.Submit(service.CommentInput{
		ArticleID: id,
		Nickname:  payload.Nickname,
		Email:     payload.Email,
		Content:   payload.Content,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNicknameRequired):
			respondError(c, http.StatusBadRequest, "昵称不能为空")
		case errors.Is(err, service.ErrCommentContentRequired):
			respondError(c, http.StatusBadRequest, "评论内容不能为空")
		case errors.Is(err, service.ErrArticleNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		default:
			internalError(c, err, "提交评论失败")
		}
		return
	}

	respondSuccess(c, http.StatusCreated, gin.H{
		"message": "评论提交成功，等待审核",
		"comment": newCommentView(comment),
	})
}

// pendingCommentView 为后台审核列表保留邮箱与来源 IP。
type pendingCommentView struct {
	commentView
	Email        string `json:"email"`
	IPAddress    string `json:"ip_address"`
	ArticleID    uint   `json:"article_id"`
	ArticleTitle string `json:"article_title"`
}

// ListPendingComments 返回待审核评论及其所属文章标题。
func (a *API) ListPendingComments(c *gin.Context) {
	pending, err := a.comments.ListPending()
	if err != nil {
		internalError(c, err, "获取待审核评论失败")
		return
	}

	views := make([]pendingCommentView, 0, len(pending))
	for i := range pending {
		views = append(views, pendingCommentView{
			commentView:  newCommentView(&pending[i].Comment),
			Email:        pending[i].Email,
			IPAddress:    pending[i].IPAddress,
			ArticleID:    pending[i].ArticleID,
			ArticleTitle: pending[i].ArticleTitle,
		})
	}

	respondSuccess(c, http.StatusOK, views)
}

type approvalPayload struct {
	Approved *bool `json:"approved"`
}

// ApproveComment 审核评论：缺省通过，approved=false 表示拒绝。
func (a *API) ApproveComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	approved := true
	if c.Request.ContentLength > 0 {
		var payload approvalPayload
		if !bindJSON(c, &payload, "请求体格式错误") {
			return
		}
		if payload.Approved != nil {
			approved = *payload.Approved
		}
	}

	comment, err := a.comments.SetApproval(id, approved)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "评论不存在")
			return
		}
		internalError(c, err, "审核评论失败")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"id":          comment.ID,
		"is_approved": comment.IsApproved,
	})
}

// DeleteComment 删除评论。
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	if err := a.comments.Delete(id); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "评论不存在")
			return
		}
		internalError(c, err, "删除评论失败")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"message": "评论已删除"})
}
