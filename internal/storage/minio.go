package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore forwards uploads to a MinIO (S3-compatible) bucket and returns
// absolute object URLs.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

var _ Store = (*MinioStore)(nil)

// NewMinioStore connects to the object storage endpoint and ensures the
// bucket exists.
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return &MinioStore{
		client:  client,
		bucket:  bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket),
	}, nil
}

// Save uploads the stream as folder/<uuid><ext> and returns the object URL.
func (s *MinioStore) Save(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (string, error) {
	object := path.Join(folder, uuid.New().String()+path.Ext(filename))
	_, err := s.client.PutObject(ctx, s.bucket, object, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.baseURL + "/" + object, nil
}

// Remove deletes the object a reference points at. References outside this
// bucket are ignored.
func (s *MinioStore) Remove(ctx context.Context, ref string) error {
	object, ok := strings.CutPrefix(ref, s.baseURL+"/")
	if !ok {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, object, minio.RemoveObjectOptions{})
}
