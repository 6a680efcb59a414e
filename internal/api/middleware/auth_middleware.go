package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard/internal/auth"
	"jobboard/internal/database"
	"jobboard/internal/errcode"
	"jobboard/internal/metrics"
)

const actorKey = "actor"

const unauthenticatedMessage = "Unauthenticated."

// TokenValidator 校验 Bearer 访问令牌。
type TokenValidator interface {
	ValidateToken(token string) (*auth.TokenClaims, error)
}

// AccountLoader 按 ID 读取当前用户，用于获取最新角色。
type AccountLoader interface {
	Lookup(ctx context.Context, userID uint) (*database.User, error)
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": unauthenticatedMessage})
}

// Authenticate 校验访问令牌，并把不可变的 auth.Actor 注入上下文。
// 角色每次从数据库读取，管理员改角色后立即生效。
func Authenticate(tokens TokenValidator, revocations auth.RevocationStore, accounts AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Fields(c.GetHeader("Authorization"))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthenticated(c)
			return
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		ctx := c.Request.Context()
		revoked, err := revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			LoggerFromContext(c).Error("token revocation lookup failed", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
			return
		}
		if revoked {
			abortUnauthenticated(c)
			return
		}

		user, err := accounts.Lookup(ctx, claims.UserID)
		if err != nil {
			if !errcode.Is(err, errcode.KindUnauthenticated) {
				LoggerFromContext(c).Error("load authenticated user failed", slog.Any("error", err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
				return
			}
			abortUnauthenticated(c)
			return
		}
		role, ok := auth.ParseRole(user.Role)
		if !ok {
			abortUnauthenticated(c)
			return
		}

		actor := auth.Actor{
			UserID:             user.ID,
			Role:               role,
			MustChangePassword: user.MustChangePassword,
			TokenID:            claims.ID,
		}
		if claims.ExpiresAt != nil {
			actor.TokenExpiresAt = claims.ExpiresAt.Time
		}
		c.Set(actorKey, actor)
		c.Set(metrics.RoleKey, string(role))
		c.Next()
	}
}

// ActorFromContext 返回 Authenticate 注入的调用者。
func ActorFromContext(c *gin.Context) (auth.Actor, bool) {
	if value, ok := c.Get(actorKey); ok {
		if actor, ok := value.(auth.Actor); ok {
			return actor, true
		}
	}
	return auth.Actor{}, false
}

// RequireRole 只放行持有指定角色的调用者。角色之间没有继承关系，管理员也不例外。
func RequireRole(role auth.Role) gin.HandlerFunc {
	message := "Unauthorized. " + strings.ToUpper(string(role[:1])) + string(role[1:]) + " access required."
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			abortUnauthenticated(c)
			return
		}
		if actor.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": message})
			return
		}
		c.Next()
	}
}
