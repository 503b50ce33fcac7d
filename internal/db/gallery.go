package db

import (
	"time"

	"gorm.io/gorm"
)

// Owner kinds a gallery image can be attached to.
const (
	OwnerKindGame    = "game"
	OwnerKindProgram = "program"
	OwnerKindBlog    = "blog"
)

// GalleryImage is one stored image attached to a content item. The pair
// (OwnerID, OwnerKind) selects the owning partition; DisplayOrder is the
// zero-based position inside it.
type GalleryImage struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID      uint   `gorm:"index:idx_gallery_owner" json:"owner_id"`
	OwnerKind    string `gorm:"index:idx_gallery_owner" json:"owner_kind"` // game, program, blog
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"` // empty when no thumbnail variant exists
	AltText      string `json:"alt_text"`
	Caption      string `json:"caption"`
	DisplayOrder int    `gorm:"default:0" json:"display_order"`
}
