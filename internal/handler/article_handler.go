package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumenblog/internal/db"
	"github.com/lumenblog/internal/service"
)

// articleListItem 是列表场景下的文章投影，不携带正文。
type articleListItem struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   string    `json:"summary"`
	AISummary string    `json:"ai_summary"`
	Tags      []string  `json:"tags"`
	Published bool      `json:"published"`
	ViewCount int       `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type articleDetail struct {
	articleListItem
	Content     string `json:"content"`
	ContentHTML string `json:"content_html"`
}

func newArticleListItem(article *db.Article) articleListItem {
	tags := article.Tags
	if tags == nil {
		tags = []string{}
	}
	return articleListItem{
		ID:        article.ID,
		Title:     article.Title,
		Slug:      article.Slug,
		Summary:   article.Summary,
		AISummary: article.AISummary,
		Tags:      tags,
		Published: article.Published,
		ViewCount: article.ViewCount,
		CreatedAt: article.CreatedAt,
		UpdatedAt: article.UpdatedAt,
	}
}

func newArticleDetail(article *db.Article) articleDetail {
	return articleDetail{
		articleListItem: newArticleListItem(article),
		Content:         article.Content,
		ContentHTML:     renderMarkdown(article.Content),
	}
}

// ListArticles 返回已发布文章的分页列表，支持 tag 过滤。
func (a *API) ListArticles(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "limit", 10)
	tag := c.Query("tag")

	result, err := a.articles.ListPublished(page, perPage, tag)
	if err != nil {
		internalError(c, err, "获取文章列表失败")
		return
	}

	items := make([]articleListItem, 0, len(result.Articles))
	for i := range result.Articles {
		items = append(items, newArticleListItem(&result.Articles[i]))
	}

	respondPage(c, items, result.Page, result.PerPage, result.TotalPages, result.Total)
}

// ListAllArticles 返回全部文章（含草稿），供后台管理使用。
func (a *API) ListAllArticles(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "limit", 10)

	result, err := a.articles.List(page, perPage)
	if err != nil {
		internalError(c, err, "获取文章列表失败")
		return
	}

	items := make([]articleListItem, 0, len(result.Articles))
	for i := range result.Articles {
		items = append(items, newArticleListItem(&result.Articles[i]))
	}

	respondPage(c, items, result.Page, result.PerPage, result.TotalPages, result.Total)
}

// GetArticle 按 ID 返回文章详情（含草稿），供后台编辑使用。
func (a *API) GetArticle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	article, err := a.articles.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		internalError(c, err, "获取文章失败")
		return
	}

	respondSuccess(c, http.StatusOK, newArticleDetail(article))
}

// GetArticleBySlug 返回已发布文章的详情并累加浏览量。
func (a *API) GetArticleBySlug(c *gin.Context) {
	slug := c.Param("slug")

	article, err := a.articles.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		internalError(c, err, "获取文章失败")
		return
	}

	respondSuccess(c, http.StatusOK, newArticleDetail(article))
}

type articlePayload struct {
	Title             string   `json:"title"`
	Slug              string   `json:"slug"`
	Content           string   `json:"content"`
	Summary           string   `json:"summary"`
	Tags              []string `json:"tags"`
	Published         bool     `json:"published"`
	GenerateAISummary *bool    `json:"generate_ai_summary"`
}

// CreateArticle 创建文章。AI 摘要默认开启且为 best-effort：
// 生成失败只作为 summary_warning 返回，文章照常保存。
func (a *API) CreateArticle(c *gin.Context) {
	var payload articlePayload
	if !bindJSON(c, &payload, "请求体格式错误") {
		return
	}

	generateSummary := true
	if payload.GenerateAISummary != nil {
		generateSummary = *payload.GenerateAISummary
	}

	result, err := a.articles.Create(c.Request.Context(), service.ArticleInput{
		Title:             payload.Title,
		Slug:              payload.Slug,
		Content:           payload.Content,
		Summary:           payload.Summary,
		Tags:              payload.Tags,
		Published:         payload.Published,
		GenerateAISummary: generateSummary,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired):
			respondError(c, http.StatusBadRequest, "文章标题不能为空")
		case errors.Is(err, service.ErrContentRequired):
			respondError(c, http.StatusBadRequest, "文章内容不能为空")
		case errors.Is(err, service.ErrDuplicateSlug):
			respondError(c, http.StatusBadRequest, "Slug 已存在，请更换标题或手动指定")
		default:
			internalError(c, err, "创建文章失败")
		}
		return
	}

	data := gin.H{"article": newArticleDetail(result.Article)}
	if result.SummaryErr != nil {
		data["summary_warning"] = result.SummaryErr.Error()
	}
	respondSuccess(c, http.StatusCreated, data)
}

type articleUpdatePayload struct {
	Title               *string   `json:"title"`
	Slug                *string   `json:"slug"`
	Content             *string   `json:"content"`
	Summary             *string   `json:"summary"`
	Tags                *[]string `json:"tags"`
	Published           *bool     `json:"published"`
	RegenerateAISummary bool      `json:"regenerate_ai_summary"`
}

// UpdateArticle 部分更新文章，未出现的字段保持原值。
func (a *API) UpdateArticle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var payload articleUpdatePayload
	if !bindJSON(c, &payload, "请求体格式错误") {
		return
	}

	result, err := a.articles.Update(c.Request.Context(), id, service.ArticleUpdate{
		Title:               payload.Title,
		Slug:                payload.Slug,
		Content:             payload.Content,
		Summary:             payload.Summary,
		Tags:                payload.Tags,
		Published:           payload.Published,
		RegenerateAISummary: payload.RegenerateAISummary,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrArticleNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, service.ErrDuplicateSlug):
			respondError(c, http.StatusBadRequest, "Slug 已存在，请更换标题或手动指定")
		default:
			internalError(c, err, "更新文章失败")
		}
		return
	}

	data := gin.H{"article": newArticleDetail(result.Article)}
	if result.SummaryErr != nil {
		data["summary_warning"] = result.SummaryErr.Error()
	}
	respondSuccess(c, http.StatusOK, data)
}

// RegenerateArticleSummary 显式重新生成 AI 摘要，失败原样返回。
func (a *API) RegenerateArticleSummary(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	article, err := a.articles.RegenerateSummary(c.Request.Context(), id)
	if err != nil {
		var genErr *service.GenerationError
		switch {
		case errors.Is(err, service.ErrAIUnavailable):
			respondError(c, http.StatusBadRequest, "AI 服务不可用，请先配置 API Key")
		case errors.Is(err, service.ErrArticleNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.As(err, &genErr):
			respondError(c, http.StatusInternalServerError, genErr.Error())
		default:
			internalError(c, err, "生成摘要失败")
		}
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"ai_summary": article.AISummary})
}

// DeleteArticle 删除文章及其全部评论。
func (a *API) DeleteArticle(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	if err := a.articles.Delete(id); err != nil {
		if errors.Is(err, service.ErrArticleNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		internalError(c, err, "删除文章失败")
		return
	}

	if claims := currentAdmin(c); claims != nil {
		log.Printf("[ADMIN] %s 删除了文章 %d", claims.Username, id)
	}

	respondSuccess(c, http.StatusOK, gin.H{"message": "文章已删除"})
}
