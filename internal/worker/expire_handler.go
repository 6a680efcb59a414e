package worker

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"jobboard/internal/metrics"
)

type jobExpirer interface {
	ExpirePastDeadline(ctx context.Context) (int64, error)
}

// ExpireJobsHandler 下线截止日期已过的职位。
type ExpireJobsHandler struct {
	jobs   jobExpirer
	logger *slog.Logger
}

// NewExpireJobsHandler 创建任务处理器。
func NewExpireJobsHandler(jobs jobExpirer, logger *slog.Logger) *ExpireJobsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpireJobsHandler{jobs: jobs, logger: logger}
}

// ProcessTask 实现 asynq.Handler。
func (h *ExpireJobsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	log := h.logger.With(slog.String("task_type", t.Type()))

	expired, err := h.jobs.ExpirePastDeadline(ctx)
	if err != nil {
		log.Error("expire jobs failed", slog.Any("error", err))
		return err
	}
	metrics.JobsExpired.Add(float64(expired))
	if expired > 0 {
		log.Info("expired jobs past deadline", slog.Int64("count", expired))
	}
	return nil
}
