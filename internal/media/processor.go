package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ErrDecode marks inputs the codec could not handle. Callers fall back to
// the original bytes instead of failing the upload.
var ErrDecode = errors.New("image decode failed")

// Variant bounds and encode quality for the two stored renditions.
const (
	MainLongEdge  = 1920
	MainShortEdge = 1080
	MainQuality   = 85

	ThumbLongEdge = 300
	ThumbQuality  = 80
)

// Processor re-encodes uploads into bounded JPEG variants.
type Processor struct{}

// NewProcessor creates a Processor with the default variant bounds.
func NewProcessor() *Processor {
	return &Processor{}
}

// Transcode produces the full-size stored variant: both axes fit inside
// 1920x1080 (orientation aware), aspect ratio preserved, JPEG quality 85.
func (p *Processor) Transcode(src []byte) ([]byte, error) {
	return resizeToFit(src, MainLongEdge, MainShortEdge, MainQuality)
}

// Thumbnail produces the preview variant: longer axis capped at 300 px,
// aspect ratio preserved, JPEG quality 80.
func (p *Processor) Thumbnail(src []byte) ([]byte, error) {
	return resizeToFit(src, ThumbLongEdge, ThumbLongEdge, ThumbQuality)
}

// resizeToFit scales src down so the longer axis fits longEdge and the
// shorter fits shortEdge, whichever constraint binds. Images already
// inside the bounds are re-encoded without scaling; nothing is upscaled.
func resizeToFit(src []byte, longEdge, shortEdge, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	maxW, maxH := longEdge, shortEdge
	if bounds.Dy() > bounds.Dx() {
		maxW, maxH = shortEdge, longEdge
	}
	if bounds.Dx() > maxW || bounds.Dy() > maxH {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return buf.Bytes(), nil
}
