package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumenblog/internal/db"
	"github.com/lumenblog/internal/service"
)

type linkView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

func newLinkView(link *db.Link) linkView {
	return linkView{
		ID:          link.ID,
		Title:       link.Title,
		Description: link.Description,
		URL:         link.URL,
		Icon:        link.Icon,
		Category:    link.Category,
		SortOrder:   link.SortOrder,
		IsActive:    link.IsActive,
	}
}

// ListLinks 返回启用中的导航链接。
func (a *API) ListLinks(c *gin.Context) {
	links, err := a.links.ListActive()
	if err != nil {
		internalError(c, err, "获取链接列表失败")
		return
	}

	views := make([]linkView, 0, len(links))
	for i := range links {
		views = append(views, newLinkView(&links[i]))
	}

	respondSuccess(c, http.StatusOK, views)
}

// GetLink 返回单条链接。
func (a *API) GetLink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的链接ID")
		return
	}

	link, err := a.links.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondError(c, http.StatusNotFound, "链接不存在")
			return
		}
		internalError(c, err, "获取链接失败")
		return
	}

	respondSuccess(c, http.StatusOK, newLinkView(link))
}

type linkPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	SortOrder   int    `json:"sort_order"`
}

// CreateLink 创建导航链接。
func (a *API) CreateLink(c *gin.Context) {
	var payload linkPayload
	if !bindJSON(c, &payload, "请求体格式错误") {
		return
	}

	link, err := a.links.Create(service.LinkInput{
		Title:       payload.Title,
		Description: payload.Description,
		URL:         payload.URL,
		Icon:        payload.Icon,
		Category:    payload.Category,
		SortOrder:   payload.SortOrder,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkTitleRequired):
			respondError(c, http.StatusBadRequest, "链接标题不能为空")
		case errors.Is(err, service.ErrLinkURLRequired):
			respondError(c, http.StatusBadRequest, "链接地址不能为空")
		default:
			internalError(c, err, "创建链接失败")
		}
		return
	}

	respondSuccess(c, http.StatusCreated, newLinkView(link))
}

type linkUpdatePayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	Icon        *string `json:"icon"`
	Category    *string `json:"category"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateLink 部分更新链接，未出现的字段保持原值。
func (a *API) UpdateLink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的链接ID")
		return
	}

	var payload linkUpdatePayload
	if !bindJSON(c, &payload, "请求体格式错误") {
		return
	}

	link, err := a.links.Update(id, service.LinkUpdate{
		Title:       payload.Title,
		Description: payload.Description,
		URL:         payload.URL,
		Icon:        payload.Icon,
		Category:    payload.Category,
		SortOrder:   payload.SortOrder,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondError(c, http.StatusNotFound, "链接不存在")
			return
		}
		internalError(c, err, "更新链接失败")
		return
	}

	respondSuccess(c, http.StatusOK, newLinkView(link))
}

// DeleteLink 删除链接。
func (a *API) DeleteLink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的链接ID")
		return
	}

	if err := a.links.Delete(id); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			respondError(c, http.StatusNotFound, "链接不存在")
			return
		}
		internalError(c, err, "删除链接失败")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"message": "链接已删除"})
}
