// Package minio stores profile pictures in an S3 compatible bucket.
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/synchrony/student-management/internal/config"
	"github.com/synchrony/student-management/internal/storage"
)

// PhotoStore is the MinIO adapter for storage.PhotoStore.
type PhotoStore struct {
	bucket string
	client *mclient.Client
}

// New connects to the endpoint and fails fast when the bucket is missing. The scheme of the
// endpoint selects TLS.
func New(ctx context.Context, cfg config.PhotoConfig) (*PhotoStore, error) {
	const op = "storage/minio/New"

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	return &PhotoStore{bucket: cfg.Bucket, client: client}, nil
}

func (s *PhotoStore) Put(ctx context.Context, key string, photo storage.Photo) error {
	const op = "storage/minio/Put"
	if key == "" || len(photo.Data) == 0 {
		return storage.ErrInvalidArgument
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(photo.Data), int64(len(photo.Data)),
		mclient.PutObjectOptions{ContentType: photo.ContentType})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *PhotoStore) Get(ctx context.Context, key string) (*storage.Photo, error) {
	const op = "storage/minio/Get"

	obj, err := s.client.GetObject(ctx, s.bucket, key, mclient.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	defer obj.Close()

	// GetObject is lazy; a missing key surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	info, err := obj.Stat()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapErr(err))
	}
	return &storage.Photo{Data: data, ContentType: info.ContentType}, nil
}

func (s *PhotoStore) Delete(ctx context.Context, key string) error {
	const op = "storage/minio/Delete"
	if err := s.client.RemoveObject(ctx, s.bucket, key, mclient.RemoveObjectOptions{}); err != nil {
		if errors.Is(mapErr(err), storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Ping checks the bucket is still reachable.
func (s *PhotoStore) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}

func mapErr(err error) error {
	resp := mclient.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return storage.ErrNotFound
	}
	return err
}

var _ storage.PhotoStore = (*PhotoStore)(nil)
