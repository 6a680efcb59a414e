package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddlewareLabelsRouteAndRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/probe/:id", func(c *gin.Context) {
		c.Set(RoleKey, "employer")
		c.Status(http.StatusNoContent)
	})

	counter := requestTotal.WithLabelValues(http.MethodGet, "/probe/:id", "204", "employer")
	unmatched := requestTotal.WithLabelValues(http.MethodGet, "unmatched", "404", "guest")
	before, beforeUnmatched := testutil.ToFloat64(counter), testutil.ToFloat64(unmatched)

	for i := 0; i < 3; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, fmt.Sprintf("/probe/%d", i), nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
}

func TestTaskOutcome(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "ok", taskOutcome(ctx, nil))
	assert.Equal(t, "dropped", taskOutcome(ctx, fmt.Errorf("bad payload: %w", asynq.SkipRetry)))
	assert.Equal(t, "retry", taskOutcome(ctx, errors.New("storage unavailable")))
}
