package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"jobboard/internal/storage"
	"jobboard/internal/tasks"
)

type prefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// PurgeUserHandler 删除已注销用户上传的全部简历文件。
type PurgeUserHandler struct {
	storage prefixDeleter
	logger  *slog.Logger
}

// NewPurgeUserHandler 创建任务处理器。
func NewPurgeUserHandler(store prefixDeleter, logger *slog.Logger) *PurgeUserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurgeUserHandler{storage: store, logger: logger}
}

// ProcessTask 实现 asynq.Handler。
func (h *PurgeUserHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	payload, err := tasks.ParseStoragePurgeUserPayload(t)
	if err != nil {
		h.logger.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.UserID == 0 {
		return fmt.Errorf("missing user id: %w", asynq.SkipRetry)
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("user_id", uint64(payload.UserID)),
	)

	removed, err := h.storage.DeletePrefix(ctx, storage.ResumePrefix(payload.UserID))
	if err != nil {
		if isFinalAsynqAttempt(ctx) {
			log.Error("purge user files gave up", slog.Int("removed", removed), slog.Any("error", err))
		} else {
			log.Warn("purge user files failed, will retry", slog.Any("error", err))
		}
		return err
	}
	log.Info("purged user files", slog.Int("removed", removed))
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
