package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"pictiato/internal/config"
	"pictiato/internal/repository/blob"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// BlobRepository stores canonical image bytes in a MinIO (S3-compatible)
// bucket. Object keys carry the domain/YYYY/MM/DD/filename layout verbatim.
type BlobRepository struct {
	client  *minio.Client
	bucket  string
	retries retry.Strategy
	logger  *zlog.Zerolog
}

func NewBlobRepository(cfg *config.Config, retries retry.Strategy, logger *zlog.Zerolog) (*BlobRepository, error) {
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Minio.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Minio.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Minio.Bucket, err)
		}
		logger.Info().Str("bucket", cfg.Minio.Bucket).Msg("Created blob bucket")
	}

	return &BlobRepository{
		client:  client,
		bucket:  cfg.Minio.Bucket,
		retries: retries,
		logger:  logger,
	}, nil
}

func (r *BlobRepository) Put(ctx context.Context, path string, data []byte, contentType string) error {
	err := retry.Do(func() error {
		_, err := r.client.PutObject(ctx, r.bucket, path, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType})
		return err
	}, r.retries)
	if err != nil {
		return fmt.Errorf("failed to put object %q: %w", path, err)
	}
	return nil
}

func (r *BlobRepository) Get(ctx context.Context, path string) ([]byte, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %q: %w", path, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, blob.ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read object %q: %w", path, err)
	}
	return data, nil
}

func (r *BlobRepository) Delete(ctx context.Context, path string) error {
	err := retry.Do(func() error {
		return r.client.RemoveObject(ctx, r.bucket, path, minio.RemoveObjectOptions{})
	}, r.retries)
	if err != nil {
		return fmt.Errorf("failed to remove object %q: %w", path, err)
	}
	return nil
}
