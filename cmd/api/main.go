package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"jobboard/internal/api"
	"jobboard/internal/auth"
	"jobboard/internal/board"
	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/storage"
)

func main() {
	// 本地开发时从 .env 读取，生产环境直接使用进程环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	logger.Info("api bootstrapping",
		slog.String("db_host", cfg.Database.Host),
		slog.Int("db_port", cfg.Database.Port),
		slog.String("db_name", cfg.Database.Name),
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	logger.Info("database migrated")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	authService, err := loadAuthService(cfg.Auth)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	ctx := context.Background()
	storageClient, err := storage.NewClient(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer queue.Close()

	router := api.NewRouter(cfg.API, logger)
	api.RegisterRoutes(router, api.Dependencies{
		Services:    board.New(db, time.Now),
		AuthService: authService,
		Revocations: auth.NewRedisRevocationStore(redisClient),
		Limiter: auth.NewLoginLimiter(redisClient,
			cfg.Auth.LoginRateLimitPerHour,
			cfg.Auth.LoginLockThreshold,
			cfg.Auth.LoginLockTTL,
		),
		Uploads:   storageClient,
		Links:     storageClient,
		Scanner:   api.NewClamdScanner(cfg.Upload.ClamdAddr),
		MaxUpload: cfg.Upload.MaxBytes,
		Queue:     queue,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("api listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", slog.Any("error", err))
	}
	logger.Info("api stopped")
}

func loadAuthService(cfg config.AuthConfig) (*auth.AuthService, error) {
	privatePEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	publicPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return auth.NewAuthService(privatePEM, publicPEM, cfg.AccessTokenTTL)
}
