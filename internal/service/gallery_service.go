package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/playware/internal/db"
	"github.com/playware/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound = errors.New("gallery image not found")
	ErrNotAnImage    = errors.New("file is not an image")
	ErrFileTooLarge  = errors.New("file exceeds the upload size limit")
	ErrBadOwnerKind  = errors.New("owner kind is invalid")
	ErrBadIndex      = errors.New("reorder index out of range")
)

// MaxUploadBytes caps a single file before any processing happens.
const MaxUploadBytes = 10 << 20

// ImageProcessor produces the bounded stored variants of an upload.
// The gallery service only ever sees bytes in and bytes out, so tests
// swap in a deterministic fake.
type ImageProcessor interface {
	Transcode(src []byte) ([]byte, error)
	Thumbnail(src []byte) ([]byte, error)
}

// GalleryService orchestrates upload, ordering and deletion of the image
// set attached to one content item.
type GalleryService struct {
	db        *gorm.DB
	store     storage.ObjectStore
	processor ImageProcessor
}

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadRejection reports a file that was skipped without aborting the batch.
type UploadRejection struct {
	Name   string
	Reason error
}

// UploadResult aggregates the outcome of one upload batch.
type UploadResult struct {
	Appended []db.GalleryImage
	Rejected []UploadRejection
}

// NewGalleryService creates a GalleryService instance.
func NewGalleryService(gdb *gorm.DB, store storage.ObjectStore, processor ImageProcessor) *GalleryService {
	return &GalleryService{db: gdb, store: store, processor: processor}
}

// List returns the owner partition ordered for display.
func (s *GalleryService) List(ownerID uint, ownerKind string) ([]db.GalleryImage, error) {
	kind, err := normalizeOwnerKind(ownerKind)
	if err != nil {
		return nil, err
	}

	var items []db.GalleryImage
	if err := s.db.
		Where("owner_id = ? AND owner_kind = ?", ownerID, kind).
		Order("display_order asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Upload processes files one at a time in the order supplied. A file that
// fails validation, upload or insert is recorded as a rejection and the
// batch moves on; already-uploaded blobs of a failed file are left for the
// reconciliation sweep.
func (s *GalleryService) Upload(ctx context.Context, ownerID uint, ownerKind string, files []UploadFile) (UploadResult, error) {
	var result UploadResult

	kind, err := normalizeOwnerKind(ownerKind)
	if err != nil {
		return result, err
	}

	base, err := s.nextDisplayOrder(ownerID, kind)
	if err != nil {
		return result, err
	}

	for _, file := range files {
		if err := validateUpload(file); err != nil {
			result.Rejected = append(result.Rejected, UploadRejection{Name: file.Name, Reason: err})
			continue
		}

		item, err := s.storeOne(ctx, ownerID, kind, file, base+len(result.Appended))
		if err != nil {
			result.Rejected = append(result.Rejected, UploadRejection{Name: file.Name, Reason: err})
			continue
		}
		result.Appended = append(result.Appended, *item)
	}

	return result, nil
}

func (s *GalleryService) storeOne(ctx context.Context, ownerID uint, kind string, file UploadFile, order int) (*db.GalleryImage, error) {
	data := file.Data
	contentType := file.ContentType
	name := file.Name

	// Degrade-not-fail: a codec failure keeps the original bytes.
	if transcoded, err := s.processor.Transcode(file.Data); err == nil {
		data = transcoded
		contentType = "image/jpeg"
		name = replaceExt(file.Name, ".jpg")
	}

	thumb, thumbErr := s.processor.Thumbnail(file.Data)
	thumbType := "image/jpeg"
	if thumbErr != nil {
		thumb = file.Data
		thumbType = file.ContentType
	}

	mainPath := storage.ObjectPath(kind, ownerID, name)
	if err := s.store.Upload(ctx, mainPath, data, contentType); err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}

	// The main variant proceeds even when the thumbnail does not land;
	// an empty ThumbnailURL means the variant is absent.
	thumbURL := ""
	// The thumb key follows the bytes actually stored: a re-encoded
	// thumbnail is JPEG even when the main variant kept its original
	// extension.
	thumbPath := storage.ThumbPath(mainPath)
	if thumbErr == nil {
		thumbPath = storage.ThumbPath(replaceExt(mainPath, ".jpg"))
	}
	if err := s.store.Upload(ctx, thumbPath, thumb, thumbType); err == nil {
		thumbURL = s.store.PublicURL(thumbPath)
	}

	item := db.GalleryImage{
		OwnerID:      ownerID,
		OwnerKind:    kind,
		ImageURL:     s.store.PublicURL(mainPath),
		ThumbnailURL: thumbURL,
		DisplayOrder: order,
	}
	if err := s.db.Create(&item).Error; err != nil {
		// The blobs are already up; the reconciliation sweep reaps them.
		return nil, fmt.Errorf("save %s: %w", file.Name, err)
	}
	return &item, nil
}

// Delete removes the blobs best effort, then the metadata row. A blob that
// refuses to go becomes a tolerated orphan for reconciliation to clean up.
func (s *GalleryService) Delete(ctx context.Context, id uint) error {
	var item db.GalleryImage
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	paths := make([]string, 0, 2)
	if p := s.store.PathFromURL(item.ImageURL); p != "" {
		paths = append(paths, p)
	}
	if item.ThumbnailURL != "" {
		if p := s.store.PathFromURL(item.ThumbnailURL); p != "" {
			paths = append(paths, p)
		}
	}
	// Storage first, metadata second.
	_ = s.store.Remove(ctx, paths...)

	return s.db.Delete(&item).Error
}

// Reorder moves the element at from to position to, shifts everything in
// between by one, and renumbers the partition 0..N-1. Rows are persisted
// one at a time; when a write fails partway the authoritative order is
// re-fetched and returned alongside the error so callers can resync.
func (s *GalleryService) Reorder(ownerID uint, ownerKind string, from, to int) ([]db.GalleryImage, error) {
	kind, err := normalizeOwnerKind(ownerKind)
	if err != nil {
		return nil, err
	}

	items, err := s.List(ownerID, kind)
	if err != nil {
		return nil, err
	}
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, ErrBadIndex
	}
	if from == to {
		return items, nil
	}

	moved := items[from]
	without := make([]db.GalleryImage, 0, len(items)-1)
	without = append(without, items[:from]...)
	without = append(without, items[from+1:]...)

	reordered := make([]db.GalleryImage, 0, len(items))
	reordered = append(reordered, without[:to]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, without[to:]...)

	for i := range reordered {
		if reordered[i].DisplayOrder == i {
			continue
		}
		if err := s.db.Model(&db.GalleryImage{}).
			Where("id = ?", reordered[i].ID).
			Update("display_order", i).Error; err != nil {
			// Partial write: hand back whatever the store now holds.
			current, listErr := s.List(ownerID, kind)
			if listErr != nil {
				return nil, err
			}
			return current, err
		}
		reordered[i].DisplayOrder = i
	}

	return reordered, nil
}

// UpdateMetadata persists the two description fields and nothing else.
func (s *GalleryService) UpdateMetadata(id uint, altText, caption string) (*db.GalleryImage, error) {
	var item db.GalleryImage
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	item.AltText = strings.TrimSpace(altText)
	item.Caption = strings.TrimSpace(caption)

	if err := s.db.Model(&item).
		Select("alt_text", "caption").
		Updates(map[string]interface{}{
			"alt_text": item.AltText,
			"caption":  item.Caption,
		}).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func validateUpload(file UploadFile) error {
	contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	if len(file.Data) > MaxUploadBytes {
		return ErrFileTooLarge
	}
	return nil
}

func normalizeOwnerKind(kind string) (string, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	switch kind {
	case db.OwnerKindGame, db.OwnerKindProgram, db.OwnerKindBlog:
		return kind, nil
	}
	return "", ErrBadOwnerKind
}

// nextDisplayOrder returns one past the highest live order in the
// partition. Equal to the partition size while orders stay contiguous,
// and still collision free after a delete left a gap.
func (s *GalleryService) nextDisplayOrder(ownerID uint, kind string) (int, error) {
	var next int
	if err := s.db.Model(&db.GalleryImage{}).
		Where("owner_id = ? AND owner_kind = ?", ownerID, kind).
		Select("COALESCE(MAX(display_order) + 1, 0)").
		Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

func replaceExt(name, ext string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ext
}
