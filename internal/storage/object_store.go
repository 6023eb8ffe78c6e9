package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultSignedURLTTL is used when callers pass a non-positive expiry.
const DefaultSignedURLTTL = time.Hour

const uploadTimeout = 60 * time.Second

// ObjectStore moves audio payloads in and out of durable remote storage.
// Every operation reports failure through its error; callers decide which
// failures are fatal.
type ObjectStore interface {
	// Upload writes the payload under key and returns a stable reference URI.
	// Re-uploading the same key overwrites.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// PresignGet issues a time-limited read-only URL for a stored object.
	PresignGet(ctx context.Context, uri string, expiry time.Duration) (string, error)
	// Delete removes the object behind the URI.
	Delete(ctx context.Context, uri string) error
}

// MinioStore implements ObjectStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to the storage endpoint and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioStore{client: client, bucket: bucket}, nil
}

// Upload stores the payload with a bounded transfer timeout and returns the
// object URI.
func (m *MinioStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return ObjectURI(m.bucket, key), nil
}

// PresignGet derives the storage key from the URI and issues a pre-signed
// GET URL. A non-positive expiry falls back to DefaultSignedURLTTL.
func (m *MinioStore) PresignGet(ctx context.Context, uri string, expiry time.Duration) (string, error) {
	key, err := KeyFromURI(m.bucket, uri)
	if err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = DefaultSignedURLTTL
	}
	url, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return url.String(), nil
}

// Delete removes the object behind the URI.
func (m *MinioStore) Delete(ctx context.Context, uri string) error {
	key, err := KeyFromURI(m.bucket, uri)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// ObjectURI formats the durable reference stored in the database.
func ObjectURI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}

// KeyFromURI extracts the object key from a reference URI for this bucket.
func KeyFromURI(bucket, uri string) (string, error) {
	prefix := fmt.Sprintf("s3://%s/", bucket)
	key := strings.TrimPrefix(uri, prefix)
	if key == uri || key == "" {
		return "", fmt.Errorf("uri %q does not reference bucket %q", uri, bucket)
	}
	return key, nil
}
