package blobstore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds connection settings for an S3-compatible blob backend.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store stores blobs as objects in a single S3/MinIO bucket, keyed by blob
// name. The flat-namespace and last-write-wins semantics are the same as
// DirStore's.
type S3Store struct {
	client *minio.Client
	bucket string
}

// NewS3Store connects to the S3 endpoint and ensures the bucket exists.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to s3 endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) key(name string) string {
	return filepath.Base(name)
}

// Save streams the blob into the bucket, overwriting any object with the
// same key.
func (s *S3Store) Save(ctx context.Context, name string, content io.Reader) (string, int64, error) {
	key := s.key(name)
	info, err := s.client.PutObject(ctx, s.bucket, key, content, -1, minio.PutObjectOptions{})
	if err != nil {
		return "", 0, fmt.Errorf("put object %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", s.bucket, key), info.Size, nil
}

// Open returns a reader over the named object.
func (s *S3Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.key(name)

	// GetObject defers errors until the first read, so stat first to
	// surface missing objects.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, s.mapError(key, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapError(key, err)
	}
	return obj, nil
}

// ContentType returns the stored content type of the named object.
func (s *S3Store) ContentType(ctx context.Context, name string) (string, error) {
	key := s.key(name)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return "", s.mapError(key, err)
	}
	if info.ContentType == "" {
		return "application/octet-stream", nil
	}
	return info.ContentType, nil
}

// Exists reports whether an object with the given name is present.
func (s *S3Store) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, s.key(name), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat object %s: %w", name, err)
	}
	return true, nil
}

// Remove deletes the named object.
func (s *S3Store) Remove(ctx context.Context, name string) error {
	key := s.key(name)
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return s.mapError(key, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) mapError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrBlobNotFound
	}
	return fmt.Errorf("object %s: %w", key, err)
}
