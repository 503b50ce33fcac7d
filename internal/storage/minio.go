package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultContentType = "application/octet-stream"

// minioAPI is the subset of the MinIO SDK the store needs, narrowed so
// tests can stub the client.
type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// MinioStore implements ObjectStore against an S3-compatible endpoint.
type MinioStore struct {
	client     minioAPI
	bucket     string
	publicBase string
}

// NewMinioStore connects to the object store. publicBase is the URL prefix
// objects resolve under; when empty it is derived from the endpoint and
// bucket, which assumes the bucket allows anonymous reads.
func NewMinioStore(endpoint, accessKey, secretKey, bucket, publicBase string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	if strings.TrimSpace(publicBase) == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
	}

	return &MinioStore{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

// Upload stores data under objectPath.
func (s *MinioStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = defaultContentType
	}
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("upload %s: %w", objectPath, err)
	}
	return nil
}

// Remove deletes each path, continuing past individual failures and
// returning the first error seen.
func (s *MinioStore) Remove(ctx context.Context, objectPaths ...string) error {
	var firstErr error
	for _, p := range objectPaths {
		if err := s.client.RemoveObject(ctx, s.bucket, p, minio.RemoveObjectOptions{}); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove %s: %w", p, err)
			}
		}
	}
	return firstErr
}

// PublicURL resolves an object path to its public location.
func (s *MinioStore) PublicURL(objectPath string) string {
	return s.publicBase + "/" + objectPath
}

// PathFromURL inverts PublicURL. URLs outside the configured base fall
// back to the URL path so older rows stay deletable after a base change.
func (s *MinioStore) PathFromURL(rawURL string) string {
	if trimmed := strings.TrimPrefix(rawURL, s.publicBase+"/"); trimmed != rawURL {
		return trimmed
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.TrimPrefix(parsed.Path, "/"), s.bucket+"/")
}

// List walks the bucket under prefix.
func (s *MinioStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objectCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var objects []ObjectInfo
	for object := range objectCh {
		if object.Err != nil {
			return objects, object.Err
		}
		objects = append(objects, ObjectInfo{Path: object.Key, LastModified: object.LastModified})
	}
	return objects, nil
}
