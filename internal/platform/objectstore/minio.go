package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yungbote/ragdash-backend/internal/platform/logger"
)

type minioStore struct {
	log    *logger.Logger
	client *minio.Client
	bucket string
}

func newMinIOStore(ctx context.Context, log *logger.Logger, cfg Config) (Store, error) {
	storeLog := log.With("service", "MinIOObjectStore")

	// minio.New takes a bare host:port.
	endpoint := strings.TrimSpace(cfg.MinIO.Endpoint)
	endpoint = strings.TrimPrefix(endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimRight(endpoint, "/")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check minio bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.MinIO.Region}); err != nil {
			return nil, fmt.Errorf("create minio bucket %q: %w", cfg.Bucket, err)
		}
		storeLog.Info("Created bucket", "bucket", cfg.Bucket)
	}

	storeLog.Info(
		"Object storage initialized",
		"mode", cfg.Mode,
		"mode_source", cfg.ModeSource(),
		"endpoint", endpoint,
		"bucket", cfg.Bucket,
	)
	return &minioStore{log: storeLog, client: client, bucket: cfg.Bucket}, nil
}

func (s *minioStore) Bucket() string { return s.bucket }

// Put refuses to overwrite an existing key. The write carries
// If-None-Match: * so a concurrent writer loses with ErrObjectExists; the stat
// beforehand fails fast without sending the body. Multipart uploads only send
// the precondition on initiate, so for them the stat check is what applies.
func (s *minioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err == nil {
		return fmt.Errorf("%w: %s", ErrObjectExists, key)
	} else if !isNoSuchKey(err) {
		return fmt.Errorf("stat minio object %q: %w", key, err)
	}

	if contentType == "" {
		contentType = ContentTypeForKey(key)
	}
	if size <= 0 {
		size = -1
	}
	opts := minio.PutObjectOptions{ContentType: contentType}
	opts.SetMatchETagExcept("*")
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		if isPreconditionFailed(err) {
			return fmt.Errorf("%w: %s", ErrObjectExists, key)
		}
		return fmt.Errorf("failed to write data to minio: %w", err)
	}
	return nil
}

func (s *minioStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return fmt.Errorf("stat minio object %q: %w", key, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete minio object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *minioStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	out := []string{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		out = append(out, obj.Key)
	}
	return out, nil
}

func (s *minioStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return deleteKeys(ctx, s.log, s, prefix)
}

func isPreconditionFailed(err error) bool {
	return minio.ToErrorResponse(err).Code == minio.PreconditionFailed
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}
