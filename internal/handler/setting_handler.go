package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumenblog/internal/service"
)

// GetSettings 返回全部设置（敏感值已脱敏）与 AI 可用状态。
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.GetAll()
	if err != nil {
		internalError(c, err, "获取设置失败")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"settings":     settings,
		"ai_available": a.settings.IsAIAvailable(),
	})
}

// UpdateSettings 批量写入设置项，Gemini Key 会即时推送给摘要服务。
func (a *API) UpdateSettings(c *gin.Context) {
	var payload map[string]string
	if !bindJSON(c, &payload, "请求体格式错误") {
		return
	}
	if len(payload) == 0 {
		respondError(c, http.StatusBadRequest, "没有需要更新的设置")
		return
	}

	for key, value := range payload {
		if err := a.settings.Set(key, value); err != nil {
			internalError(c, err, "保存设置失败")
			return
		}
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"message":      "设置已保存",
		"ai_available": a.settings.IsAIAvailable(),
	})
}

// TestAI 用一段固定文本验证 AI 摘要服务是否连通。
func (a *API) TestAI(c *gin.Context) {
	summary, err := a.settings.TestAI(c.Request.Context())
	if err != nil {
		var genErr *service.GenerationError
		switch {
		case errors.Is(err, service.ErrAIUnavailable):
			respondError(c, http.StatusBadRequest, "AI 服务不可用，请先配置 API Key")
		case errors.As(err, &genErr):
			respondError(c, http.StatusInternalServerError, genErr.Error())
		default:
			internalError(c, err, "AI 连通性测试失败")
		}
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"summary": summary})
}
