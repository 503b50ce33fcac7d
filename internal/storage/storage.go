package storage

import (
	"context"
	"time"
)

// ObjectInfo describes one stored blob.
type ObjectInfo struct {
	Path         string
	LastModified time.Time
}

// ObjectStore is the durable blob storage behind gallery variants.
// Remove is best effort per path; List exists for reconciliation sweeps.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, data []byte, contentType string) error
	Remove(ctx context.Context, objectPaths ...string) error
	PublicURL(objectPath string) string
	PathFromURL(rawURL string) string
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
