package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/playware/internal/db"
	"github.com/playware/internal/storage"
	"gorm.io/gorm"
)

// ReconcileReport summarizes one repair sweep over blobs and metadata.
type ReconcileReport struct {
	Blobs                int
	Rows                 int
	OrphanBlobsRemoved   []string
	OrphanBlobsDeferred  []string
	BrokenRows           []uint
	RenumberedPartitions int
}

// ReconcileService repairs the drift the pipeline tolerates: uploads that
// never got a metadata row, deletes that never reached the store, and
// partitions whose display order lost contiguity. Upload and delete are
// not transactional, so this sweep is what eventually restores the
// blob/row correspondence.
type ReconcileService struct {
	db    *gorm.DB
	store storage.ObjectStore
	grace time.Duration
}

// NewReconcileService creates a ReconcileService. Orphan blobs younger
// than grace are left alone; they may be uploads whose row insert has not
// landed yet.
func NewReconcileService(gdb *gorm.DB, store storage.ObjectStore, grace time.Duration) *ReconcileService {
	return &ReconcileService{db: gdb, store: store, grace: grace}
}

// Run performs one full sweep and reports what it found and repaired.
func (s *ReconcileService) Run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	objects, err := s.store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	report.Blobs = len(objects)

	var rows []db.GalleryImage
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	report.Rows = len(rows)

	referenced := make(map[string]bool, len(rows)*2)
	for _, row := range rows {
		referenced[s.store.PathFromURL(row.ImageURL)] = true
		if row.ThumbnailURL != "" {
			referenced[s.store.PathFromURL(row.ThumbnailURL)] = true
		}
	}

	stored := make(map[string]bool, len(objects))
	now := time.Now()
	for _, object := range objects {
		stored[object.Path] = true
		if referenced[object.Path] {
			continue
		}
		if now.Sub(object.LastModified) < s.grace {
			report.OrphanBlobsDeferred = append(report.OrphanBlobsDeferred, object.Path)
			continue
		}
		if err := s.store.Remove(ctx, object.Path); err == nil {
			report.OrphanBlobsRemoved = append(report.OrphanBlobsRemoved, object.Path)
		}
	}

	// Rows pointing at vanished blobs are reported, never auto-deleted:
	// dropping user-visible metadata is worse than a broken image.
	for _, row := range rows {
		if !stored[s.store.PathFromURL(row.ImageURL)] {
			report.BrokenRows = append(report.BrokenRows, row.ID)
		}
	}

	renumbered, err := s.renumberPartitions(rows)
	if err != nil {
		return report, err
	}
	report.RenumberedPartitions = renumbered
	return report, nil
}

// Name implements scheduler.Job.
func (s *ReconcileService) Name() string {
	return "gallery-reconcile"
}

// Execute implements scheduler.Job.
func (s *ReconcileService) Execute() error {
	report, err := s.Run(context.Background())
	if err != nil {
		return err
	}
	log.Printf("reconcile: %d blobs, %d rows, removed %d orphans, deferred %d, %d broken rows, renumbered %d partitions",
		report.Blobs, report.Rows, len(report.OrphanBlobsRemoved), len(report.OrphanBlobsDeferred),
		len(report.BrokenRows), report.RenumberedPartitions)
	return nil
}

type partitionKey struct {
	ownerID uint
	kind    string
}

// renumberPartitions restores the 0..N-1 contiguity a lost reorder race
// can break. Ties on display order resolve by row id so the outcome is
// deterministic.
func (s *ReconcileService) renumberPartitions(rows []db.GalleryImage) (int, error) {
	partitions := make(map[partitionKey][]db.GalleryImage)
	for _, row := range rows {
		key := partitionKey{ownerID: row.OwnerID, kind: row.OwnerKind}
		partitions[key] = append(partitions[key], row)
	}

	renumbered := 0
	for _, items := range partitions {
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].DisplayOrder != items[j].DisplayOrder {
				return items[i].DisplayOrder < items[j].DisplayOrder
			}
			return items[i].ID < items[j].ID
		})

		dirty := false
		for i := range items {
			if items[i].DisplayOrder != i {
				dirty = true
				break
			}
		}
		if !dirty {
			continue
		}

		for i := range items {
			if items[i].DisplayOrder == i {
				continue
			}
			if err := s.db.Model(&db.GalleryImage{}).
				Where("id = ?", items[i].ID).
				Update("display_order", i).Error; err != nil {
				return renumbered, err
			}
		}
		renumbered++
	}
	return renumbered, nil
}
