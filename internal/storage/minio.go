package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"jobboard/internal/config"
)

// Client 封装 MinIO 客户端，负责简历文件的存取。
// internalClient 走内网 endpoint，publicClient 只用于签发浏览器可访问的下载链接。
type Client struct {
	internalClient *minio.Client
	publicClient   *minio.Client
	bucketName     string
}

// NewClient 根据配置初始化 MinIO 客户端，并确保目标 Bucket 存在。
func NewClient(ctx context.Context, cfg config.MinIOConfig) (*Client, error) {
	bucketLookup, err := parseBucketLookup(cfg.BucketLookup)
	if err != nil {
		return nil, err
	}
	creds := credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, "")

	internalClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        creds,
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init internal minio client: %w", err)
	}

	publicClient := internalClient
	if strings.TrimSpace(cfg.PublicEndpoint) != "" {
		publicURL, err := url.Parse(cfg.PublicEndpoint)
		if err != nil {
			return nil, fmt.Errorf("parse minio public endpoint: %w", err)
		}
		if publicURL.Host == "" {
			return nil, errors.New("invalid minio public endpoint, host missing")
		}
		publicClient, err = minio.New(publicURL.Host, &minio.Options{
			Creds:        creds,
			Secure:       publicURL.Scheme == "https",
			Region:       cfg.Region,
			BucketLookup: bucketLookup,
		})
		if err != nil {
			return nil, fmt.Errorf("init public minio client: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := internalClient.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if !cfg.AutoCreateBucket {
			return nil, fmt.Errorf("bucket %q does not exist (auto create disabled)", cfg.Bucket)
		}
		if err := internalClient.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Client{
		internalClient: internalClient,
		publicClient:   publicClient,
		bucketName:     cfg.Bucket,
	}, nil
}

func parseBucketLookup(raw string) (minio.BucketLookupType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "auto":
		return minio.BucketLookupAuto, nil
	case "dns":
		return minio.BucketLookupDNS, nil
	case "path":
		return minio.BucketLookupPath, nil
	default:
		return minio.BucketLookupAuto, fmt.Errorf("invalid minio bucket lookup %q", raw)
	}
}

// UploadFile 将对象上传到私有 Bucket。
func (c *Client) UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := c.internalClient.PutObject(ctx, c.bucketName, objectKey, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object %q: %w", objectKey, err)
	}
	return nil
}

// GeneratePresignedURL 生成对象的限时下载链接。
func (c *Client) GeneratePresignedURL(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	presignedURL, err := c.publicClient.PresignedGetObject(ctx, c.bucketName, objectKey, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("generate presigned url for %q: %w", objectKey, err)
	}
	return presignedURL.String(), nil
}

// DeletePrefix 删除指定前缀下的所有对象，已不存在的对象视为成功。
func (c *Client) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return 0, nil
	}

	objects := c.internalClient.ListObjects(ctx, c.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	toRemove := make(chan minio.ObjectInfo)
	var (
		listErr error
		listed  int
	)
	go func() {
		defer close(toRemove)
		for object := range objects {
			if object.Err != nil {
				listErr = object.Err
				return
			}
			listed++
			toRemove <- object
		}
	}()

	failed := 0
	for result := range c.internalClient.RemoveObjects(ctx, c.bucketName, toRemove, minio.RemoveObjectsOptions{}) {
		if IsNoSuchKey(result.Err) {
			continue
		}
		failed++
		slog.Default().Error("delete minio object failed",
			slog.String("key", result.ObjectName),
			slog.Any("error", result.Err),
		)
	}
	removed := listed - failed
	if listErr != nil {
		return removed, fmt.Errorf("list objects under %q: %w", prefix, listErr)
	}
	if failed > 0 {
		return removed, fmt.Errorf("delete objects under %q: %d errors", prefix, failed)
	}
	return removed, nil
}
