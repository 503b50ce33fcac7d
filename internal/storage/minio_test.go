package storage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

type stubMinio struct {
	putPaths    []string
	putTypes    []string
	removed     []string
	removeErrs  map[string]error
	listObjects []minio.ObjectInfo
}

func (s *stubMinio) PutObject(ctx context.Context, bucket, name string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	s.putPaths = append(s.putPaths, name)
	s.putTypes = append(s.putTypes, opts.ContentType)
	return minio.UploadInfo{Key: name, Size: size}, nil
}

func (s *stubMinio) RemoveObject(ctx context.Context, bucket, name string, opts minio.RemoveObjectOptions) error {
	if err := s.removeErrs[name]; err != nil {
		return err
	}
	s.removed = append(s.removed, name)
	return nil
}

func (s *stubMinio) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(s.listObjects))
	for _, obj := range s.listObjects {
		ch <- obj
	}
	close(ch)
	return ch
}

func newTestStore(client *stubMinio) *MinioStore {
	return &MinioStore{
		client:     client,
		bucket:     "gallery",
		publicBase: "https://cdn.example.com/gallery",
	}
}

func TestUploadDefaultsContentType(t *testing.T) {
	client := &stubMinio{}
	store := newTestStore(client)

	if err := store.Upload(context.Background(), "game/1/a.jpg", []byte("data"), ""); err != nil {
		t.Fatalf("failed to upload: %v", err)
	}
	if client.putTypes[0] != defaultContentType {
		t.Fatalf("expected default content type, got %s", client.putTypes[0])
	}
}

func TestRemoveContinuesPastFailures(t *testing.T) {
	client := &stubMinio{removeErrs: map[string]error{"a.jpg": errors.New("denied")}}
	store := newTestStore(client)

	err := store.Remove(context.Background(), "a.jpg", "b.jpg")
	if err == nil {
		t.Fatalf("expected first error to surface")
	}
	if len(client.removed) != 1 || client.removed[0] != "b.jpg" {
		t.Fatalf("expected b.jpg removed despite a.jpg failing, got %v", client.removed)
	}
}

func TestPublicURLRoundTrip(t *testing.T) {
	store := newTestStore(&stubMinio{})

	path := "game/42/123-abc.jpg"
	url := store.PublicURL(path)
	if url != "https://cdn.example.com/gallery/game/42/123-abc.jpg" {
		t.Fatalf("unexpected public url %s", url)
	}
	if got := store.PathFromURL(url); got != path {
		t.Fatalf("expected round trip to %s, got %s", path, got)
	}
}

func TestPathFromURLForeignBase(t *testing.T) {
	store := newTestStore(&stubMinio{})

	got := store.PathFromURL("https://old-cdn.example.com/gallery/game/42/a.jpg")
	if got != "game/42/a.jpg" {
		t.Fatalf("expected bucket-relative path, got %s", got)
	}
}

func TestListReturnsObjects(t *testing.T) {
	now := time.Now()
	client := &stubMinio{listObjects: []minio.ObjectInfo{
		{Key: "game/1/a.jpg", LastModified: now},
		{Key: "game/1/a_thumb.jpg", LastModified: now},
	}}
	store := newTestStore(client)

	objects, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(objects) != 2 || objects[0].Path != "game/1/a.jpg" {
		t.Fatalf("unexpected listing %v", objects)
	}
}
