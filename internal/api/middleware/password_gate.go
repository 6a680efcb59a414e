package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const passwordChangeRequiredMessage = "password change required"

// RequirePasswordChangeCompletedMiddleware 阻止未完成改密的账号访问业务接口。
// 标记来自 Authenticate 读取的用户记录，改密成功后下一个请求即可放行。
func RequirePasswordChangeCompletedMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor, ok := ActorFromContext(c); ok && actor.MustChangePassword {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": passwordChangeRequiredMessage})
			return
		}
		c.Next()
	}
}
