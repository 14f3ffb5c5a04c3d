// Package storage provides read access to the MinIO resource bucket that
// holds static nurture assets (e.g. the prequalification guide PDF attached
// to the first follow-up email).
package storage

import (
	"context"
	"fmt"
	"io"

	"leadflow_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Service reads resource objects. A nil *Service is valid and reports every
// object as absent, so callers need no enabled-checks at each site.
type Service struct {
	client *minio.Client
	bucket string
}

// NewMinIOService builds the resource reader, or nil when MinIO is not configured.
func NewMinIOService(cfg config.StorageConfig) (*Service, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, nil
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &Service{client: client, bucket: cfg.GetMinioBucketResources()}, nil
}

// EnsureBucketExists creates the resource bucket if it is missing.
func (s *Service) EnsureBucketExists(ctx context.Context) error {
	if s == nil {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// FetchResource reads one object from the resource bucket. Returns ok=false
// when storage is unconfigured or the object does not exist.
func (s *Service) FetchResource(ctx context.Context, objectName string) ([]byte, string, bool) {
	if s == nil {
		return nil, "", false
	}

	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", false
	}
	defer func() {
		_ = obj.Close()
	}()

	stat, err := obj.Stat()
	if err != nil {
		return nil, "", false
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", false
	}

	return data, stat.ContentType, true
}
