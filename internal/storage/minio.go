package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"aperture/internal/config"
	"aperture/internal/middleware"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements MediaStore on top of an S3-compatible endpoint.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to the configured endpoint and ensures the
// bucket exists.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MediaEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MediaAccessKey, cfg.MediaSecretKey, ""),
		Secure: cfg.MediaUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize media host client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MediaBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket %q exists: %w", cfg.MediaBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MediaBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.MediaBucket, err)
		}
		middleware.Logger.Info("created media bucket", "bucket", cfg.MediaBucket)
	}

	publicURL := strings.TrimRight(cfg.MediaPublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.MediaUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MediaEndpoint, cfg.MediaBucket)
	}

	return &MinioStore{
		client:    client,
		bucket:    cfg.MediaBucket,
		publicURL: publicURL,
	}, nil
}

// Store uploads the file under a generated object key.
func (s *MinioStore) Store(ctx context.Context, reader io.Reader, size int64, contentType string) (string, string, error) {
	ext := extensionForContentType(contentType)
	objectKey := fmt.Sprintf("photos/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("media host upload failed: %w", err)
	}

	return s.publicURL + "/" + objectKey, objectKey, nil
}

// Delete removes the object identified by storageID.
func (s *MinioStore) Delete(ctx context.Context, storageID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, storageID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("media host delete failed: %w", err)
	}
	return nil
}

// Health checks that the bucket is reachable.
func (s *MinioStore) Health(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}

func extensionForContentType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
