package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard/internal/api/middleware"
	"jobboard/internal/auth"
	"jobboard/internal/board"
	"jobboard/internal/database"
	"jobboard/internal/errcode"
)

// AuthHandler 处理注册、登录、退出、个人信息与改密。
type AuthHandler struct {
	accounts    *board.AccountService
	authService *auth.AuthService
	revocations auth.RevocationStore
	limiter     *auth.LoginLimiter
}

// NewAuthHandler 构造认证处理器。limiter 为 nil 时不限流。
func NewAuthHandler(accounts *board.AccountService, authService *auth.AuthService, revocations auth.RevocationStore, limiter *auth.LoginLimiter) *AuthHandler {
	return &AuthHandler{
		accounts:    accounts,
		authService: authService,
		revocations: revocations,
		limiter:     limiter,
	}
}

type tokenResponse struct {
	User        *database.User `json:"user"`
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"`
}

// Register 创建候选人或雇主账号并直接签发令牌。
func (h *AuthHandler) Register(c *gin.Context) {
	var req board.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		WriteError(c, err)
		return
	}
	middleware.LoggerFromContext(c).Info("user registered",
		slog.Uint64("user_id", uint64(user.ID)),
		slog.String("role", user.Role),
	)
	h.replyWithToken(c, http.StatusCreated, user)
}

// Login 校验口令并返回 Token。
func (h *AuthHandler) Login(c *gin.Context) {
	var req board.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	logger := middleware.LoggerFromContext(c)

	if ok, reason := h.limiter.Allow(ctx, c.ClientIP(), req.Email); !ok {
		logger.Info("login throttled", slog.String("reason", reason))
		WriteError(c, errcode.New(errcode.KindTooManyRequests, reason))
		return
	}

	user, err := h.accounts.Authenticate(ctx, req)
	if err != nil {
		if errcode.Is(err, errcode.KindUnauthenticated) {
			logger.Info("login failed")
			h.limiter.RecordFailure(ctx, req.Email)
		}
		WriteError(c, err)
		return
	}
	// 登录成功：清理失败计数
	h.limiter.Reset(ctx, req.Email)

	h.replyWithToken(c, http.StatusOK, user)
}

// Logout 将当前访问令牌加入黑名单，直到其自然过期。
func (h *AuthHandler) Logout(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	if err := h.revocations.Revoke(c.Request.Context(), actor.TokenID, time.Until(actor.TokenExpiresAt)); err != nil {
		WriteError(c, errcode.Internal("revoke token", err))
		return
	}
	Message(c, http.StatusOK, "Successfully logged out")
}

// Me 返回当前用户资料。
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	user, err := h.accounts.Profile(c.Request.Context(), actor)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword 校验当前密码并更新为新密码，旧令牌作废并签发新令牌。
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req board.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.accounts.ChangePassword(ctx, actor, req); err != nil {
		WriteError(c, err)
		return
	}
	if err := h.revocations.Revoke(ctx, actor.TokenID, time.Until(actor.TokenExpiresAt)); err != nil {
		WriteError(c, errcode.Internal("revoke token", err))
		return
	}

	user, err := h.accounts.Profile(ctx, actor)
	if err != nil {
		WriteError(c, err)
		return
	}
	middleware.LoggerFromContext(c).Info("password changed")
	h.replyWithToken(c, http.StatusOK, user)
}

func (h *AuthHandler) replyWithToken(c *gin.Context, status int, user *database.User) {
	token, err := h.authService.IssueAccessToken(user.ID)
	if err != nil {
		WriteError(c, errcode.Internal("issue access token", err))
		return
	}
	c.JSON(status, tokenResponse{
		User:        user,
		AccessToken: token.Value,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.authService.AccessTokenTTL().Seconds()),
	})
}
