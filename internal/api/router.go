package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobboard/internal/api/middleware"
	"jobboard/internal/config"
	"jobboard/internal/metrics"
)

// NewRouter 构建 Gin 路由引擎：公共中间件、健康检查与 /metrics。业务路由由 RegisterRoutes 挂载。
func NewRouter(cfg config.APIConfig, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			middleware.LoggerFromContext(c).Error("panic recovered", slog.Any("panic", recovered))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": serverErrorMessage})
		}),
		cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Correlation-ID"},
			ExposeHeaders:    []string{"X-Correlation-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", middleware.InternalSecretMiddleware(cfg.MetricsSecret), gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) {
		Message(c, http.StatusNotFound, "Not Found")
	})

	return router
}
