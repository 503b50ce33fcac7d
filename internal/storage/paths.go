package storage

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectPath derives a collision-resistant storage key for an upload:
// {kind}/{ownerID}/{unix-ts}-{uuid}{ext}. The extension is taken from
// filename, falling back to .jpg.
func ObjectPath(kind string, ownerID uint, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%d/%d-%s%s", kind, ownerID, time.Now().Unix(), uuid.New().String(), ext)
}

// ThumbPath derives the thumbnail key from the main variant's key by
// inserting _thumb before the extension.
func ThumbPath(objectPath string) string {
	ext := path.Ext(objectPath)
	return strings.TrimSuffix(objectPath, ext) + "_thumb" + ext
}
