package handler

import (
	"time"

	"github.com/playware/internal/service"
	"github.com/playware/internal/storage"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	galleries  *service.GalleryService
	reconciler *service.ReconcileService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store storage.ObjectStore, processor service.ImageProcessor, reconcileGrace time.Duration) *API {
	return &API{
		db:         gdb,
		galleries:  service.NewGalleryService(gdb, store, processor),
		reconciler: service.NewReconcileService(gdb, store, reconcileGrace),
	}
}

// Reconciler exposes the reconcile service for scheduling.
func (a *API) Reconciler() *service.ReconcileService {
	return a.reconciler
}
