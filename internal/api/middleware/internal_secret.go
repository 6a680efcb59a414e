package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// InternalSecretMiddleware 保护内部端点（如 /metrics）。未配置密钥时不做限制。
func InternalSecretMiddleware(secret string) gin.HandlerFunc {
	secret = strings.TrimSpace(secret)
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		// 内部调用必须通过 Header 传递密钥，避免 query 泄露到浏览器/日志。
		token := strings.TrimSpace(c.GetHeader("X-Internal-Secret"))
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": unauthenticatedMessage})
			return
		}
		c.Next()
	}
}
