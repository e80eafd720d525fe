package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lumenblog/internal/service"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 校验管理员凭据并签发会话令牌。
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "请求体格式错误") {
		return
	}

	if strings.TrimSpace(payload.Username) == "" || payload.Password == "" {
		respondError(c, http.StatusBadRequest, "用户名和密码不能为空")
		return
	}

	token, admin, err := a.auth.Login(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "用户名或密码错误")
			return
		}
		internalError(c, err, "登录失败")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":         admin.ID,
			"username":   admin.Username,
			"last_login": admin.LastLogin,
		},
	})
}

type refreshPayload struct {
	Token string `json:"token"`
}

// Refresh 刷新会话令牌。已过期但签名完好的令牌可以续期，
// 对应的管理员账号必须仍然存在。
func (a *API) Refresh(c *gin.Context) {
	var payload refreshPayload
	if !bindJSON(c, &payload, "请求体格式错误") {
		return
	}

	if strings.TrimSpace(payload.Token) == "" {
		respondError(c, http.StatusBadRequest, "缺少 Token")
		return
	}

	token, err := a.auth.Refresh(payload.Token)
	if err != nil {
		if errors.Is(err, service.ErrTokenInvalid) {
			respondError(c, http.StatusUnauthorized, "Token 无效")
			return
		}
		internalError(c, err, "刷新令牌失败")
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"token": token})
}
