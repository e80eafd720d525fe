package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lumenblog/internal/service"
)

const adminClaimsContextKey = "__admin_claims"

// AuthRequired 校验 Authorization: Bearer 头中的会话令牌。
// 缺失、无效与过期一律返回 401，避免泄露令牌状态细节。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			respondError(c, http.StatusUnauthorized, "未授权访问")
			c.Abort()
			return
		}

		claims, err := a.tokens.Verify(strings.TrimSpace(header[len(prefix):]))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Token 无效或已过期")
			c.Abort()
			return
		}

		c.Set(adminClaimsContextKey, claims)
		c.Next()
	}
}

// currentAdmin 从请求上下文取出已验证的管理员身份。
func currentAdmin(c *gin.Context) *service.AdminClaims {
	value, exists := c.Get(adminClaimsContextKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*service.AdminClaims)
	if !ok {
		return nil
	}
	return claims
}
