package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playware/internal/db"
	"github.com/playware/internal/handler"
	"github.com/playware/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type nullStore struct{}

func (nullStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	return nil
}

func (nullStore) Remove(ctx context.Context, objectPaths ...string) error {
	return nil
}

func (nullStore) PublicURL(objectPath string) string {
	return "https://cdn.test/" + objectPath
}

func (nullStore) PathFromURL(rawURL string) string {
	return strings.TrimPrefix(rawURL, "https://cdn.test/")
}

func (nullStore) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

type nullProcessor struct{}

func (nullProcessor) Transcode(src []byte) ([]byte, error) {
	return src, nil
}

func (nullProcessor) Thumbnail(src []byte) ([]byte, error) {
	return src, nil
}

func setupRouterTest(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&db.GalleryImage{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	api := handler.NewAPI(gdb, nullStore{}, nullProcessor{}, time.Hour)
	r := SetupRouter(api)

	return r, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestPing(t *testing.T) {
	r, cleanup := setupRouterTest(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestOwnerImagesRouteWired(t *testing.T) {
	r, cleanup := setupRouterTest(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/owners/game/1/images", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestUnknownOwnerKindRejected(t *testing.T) {
	r, cleanup := setupRouterTest(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/owners/movie/1/images", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}
