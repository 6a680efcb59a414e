package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MetricsSecret  string   `mapstructure:"metrics_secret"`
}

// AuthConfig contains bearer token and login throttling settings.
type AuthConfig struct {
	PrivateKeyPath        string        `mapstructure:"private_key_path"`
	PublicKeyPath         string        `mapstructure:"public_key_path"`
	AccessTokenTTL        time.Duration `mapstructure:"access_token_ttl"`
	LoginRateLimitPerHour int           `mapstructure:"login_rate_limit_per_hour"`
	LoginLockThreshold    int           `mapstructure:"login_lock_threshold"`
	LoginLockTTL          time.Duration `mapstructure:"login_lock_ttl"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig contains the Redis connection settings shared by the API and the worker.
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	Bucket           string `mapstructure:"bucket"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// UploadConfig bounds resume uploads.
type UploadConfig struct {
	MaxBytes  int64  `mapstructure:"max_bytes"`
	ClamdAddr string `mapstructure:"clamd_addr"`
}

// WorkerConfig contains asynq worker settings.
type WorkerConfig struct {
	Concurrency    int    `mapstructure:"concurrency"`
	ExpireJobsCron string `mapstructure:"expire_jobs_cron"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.API.AllowedOrigins = splitOrigins(cfg.API.AllowedOrigins)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDatabase reads only the database section, for tools that do not need the full stack.
func LoadDatabase() (DatabaseConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return DatabaseConfig{}, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DatabaseConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Database.Validate(); err != nil {
		return DatabaseConfig{}, err
	}
	return cfg.Database, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("auth.private_key_path", "keys/jwt_private.pem")
	v.SetDefault("auth.public_key_path", "keys/jwt_public.pem")
	v.SetDefault("auth.access_token_ttl", 24*time.Hour)
	v.SetDefault("auth.login_rate_limit_per_hour", 10)
	v.SetDefault("auth.login_lock_threshold", 5)
	v.SetDefault("auth.login_lock_ttl", 15*time.Minute)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "jobboard")
	v.SetDefault("database.user", "jobboard")
	v.SetDefault("database.password", "jobboard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("upload.max_bytes", 5*1024*1024)
	v.SetDefault("worker.concurrency", 10)
	v.SetDefault("worker.expire_jobs_cron", "@hourly")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                       "API_PORT",
		"api.allowed_origins":            "API_ALLOWED_ORIGINS",
		"api.metrics_secret":             "METRICS_SECRET",
		"auth.private_key_path":          "JWT_PRIVATE_KEY_PATH",
		"auth.public_key_path":           "JWT_PUBLIC_KEY_PATH",
		"auth.access_token_ttl":          "JWT_ACCESS_TOKEN_TTL",
		"auth.login_rate_limit_per_hour": "LOGIN_RATE_LIMIT_PER_HOUR",
		"auth.login_lock_threshold":      "LOGIN_LOCK_THRESHOLD",
		"auth.login_lock_ttl":            "LOGIN_LOCK_TTL",
		"database.host":                  "DATABASE_HOST",
		"database.port":                  "DATABASE_PORT",
		"database.name":                  "POSTGRES_DB",
		"database.user":                  "POSTGRES_USER",
		"database.password":              "POSTGRES_PASSWORD",
		"database.sslmode":               "DATABASE_SSLMODE",
		"redis.host":                     "REDIS_HOST",
		"redis.port":                     "REDIS_PORT",
		"minio.endpoint":                 "MINIO_ENDPOINT",
		"minio.public_endpoint":          "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":            "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":        "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                  "MINIO_USE_SSL",
		"minio.region":                   "MINIO_REGION",
		"minio.bucket_lookup":            "MINIO_BUCKET_LOOKUP",
		"minio.bucket":                   "MINIO_BUCKET",
		"minio.auto_create_bucket":       "MINIO_AUTO_CREATE_BUCKET",
		"upload.max_bytes":               "UPLOAD_MAX_BYTES",
		"upload.clamd_addr":              "CLAMD_ADDR",
		"worker.concurrency":             "WORKER_CONCURRENCY",
		"worker.expire_jobs_cron":        "WORKER_EXPIRE_JOBS_CRON",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

// splitOrigins accepts either a list or a single comma separated env value.
func splitOrigins(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Auth.PrivateKeyPath == "" || cfg.Auth.PublicKeyPath == "" {
		return errors.New("jwt key paths are required")
	}
	if cfg.Auth.AccessTokenTTL <= 0 {
		return errors.New("access token ttl must be positive")
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return errors.New("upload max bytes must be positive")
	}
	if cfg.Worker.Concurrency <= 0 {
		return errors.New("worker concurrency must be positive")
	}
	return nil
}

// Validate reports the first missing connection setting.
func (d DatabaseConfig) Validate() error {
	switch {
	case d.Host == "":
		return errors.New("database host is required")
	case d.Port <= 0:
		return errors.New("database port must be positive")
	case d.Name == "":
		return errors.New("database name is required")
	case d.User == "":
		return errors.New("database user is required")
	case d.Password == "":
		return errors.New("database password is required")
	case d.SSLMode == "":
		return errors.New("database sslmode is required")
	}
	return nil
}
