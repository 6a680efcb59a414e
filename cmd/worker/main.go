package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"jobboard/internal/board"
	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/metrics"
	"jobboard/internal/storage"
	"jobboard/internal/tasks"
	"jobboard/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	logger.Info("database connection ready for worker")

	storageClient, err := storage.NewClient(context.Background(), cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	services := board.New(db, time.Now)
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr()}

	// 定时任务只负责投递，实际处理仍由 server 完成
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register(cfg.Worker.ExpireJobsCron, tasks.NewJobsExpireTask()); err != nil {
		log.Fatalf("register expire schedule: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("start scheduler: %v", err)
	}
	defer scheduler.Shutdown()

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeJobsExpire, worker.NewExpireJobsHandler(services.Jobs, logger))
	mux.Handle(tasks.TypeStoragePurgeUser, worker.NewPurgeUserHandler(storageClient, logger))

	logger.Info("worker service started",
		slog.String("redis_addr", cfg.Redis.Addr()),
		slog.String("expire_cron", cfg.Worker.ExpireJobsCron),
	)
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
