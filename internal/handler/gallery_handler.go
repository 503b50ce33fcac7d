package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playware/internal/service"
)

type reorderPayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type imageMetadataPayload struct {
	AltText string `json:"alt_text"`
	Caption string `json:"caption"`
}

func ownerParams(c *gin.Context) (uint, string, bool) {
	ownerID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid owner id")
		return 0, "", false
	}
	return ownerID, c.Param("kind"), true
}

// ListOwnerImages returns the ordered gallery of one content item.
func (a *API) ListOwnerImages(c *gin.Context) {
	ownerID, kind, ok := ownerParams(c)
	if !ok {
		return
	}

	items, err := a.galleries.List(ownerID, kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadOwnerKind):
			respondError(c, http.StatusBadRequest, "unknown owner kind")
		default:
			respondError(c, http.StatusInternalServerError, "failed to load gallery")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": renderItems(items)})
}

// UploadOwnerImages appends uploaded files to the owner's gallery. Files
// that fail validation or storage are reported per file; valid siblings
// still go through.
func (a *API) UploadOwnerImages(c *gin.Context) {
	ownerID, kind, ok := ownerParams(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid multipart form")
		return
	}
	fileHeaders := form.File["images"]
	if len(fileHeaders) == 0 {
		respondError(c, http.StatusBadRequest, "no images supplied")
		return
	}

	files := make([]service.UploadFile, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		data, err := readUpload(header)
		if err != nil {
			respondError(c, http.StatusBadRequest, "failed to read upload")
			return
		}
		files = append(files, service.UploadFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	result, err := a.galleries.Upload(c.Request.Context(), ownerID, kind, files)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadOwnerKind):
			respondError(c, http.StatusBadRequest, "unknown owner kind")
		default:
			respondError(c, http.StatusInternalServerError, "failed to upload images")
		}
		return
	}

	rejections := make([]gin.H, 0, len(result.Rejected))
	for _, rejection := range result.Rejected {
		rejections = append(rejections, gin.H{
			"name":  rejection.Name,
			"error": rejectionMessage(rejection.Reason),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    renderItems(result.Appended),
		"rejected": rejections,
	})
}

// ReorderOwnerImages moves one image to a new position and returns the
// resulting order. When persistence fails partway the authoritative order
// is returned with a conflict status so clients can resync.
func (a *API) ReorderOwnerImages(c *gin.Context) {
	ownerID, kind, ok := ownerParams(c)
	if !ok {
		return
	}

	var payload reorderPayload
	if !bindJSON(c, &payload, "invalid reorder payload") {
		return
	}

	items, err := a.galleries.Reorder(ownerID, kind, payload.From, payload.To)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadOwnerKind):
			respondError(c, http.StatusBadRequest, "unknown owner kind")
		case errors.Is(err, service.ErrBadIndex):
			respondError(c, http.StatusBadRequest, "reorder index out of range")
		default:
			c.JSON(http.StatusConflict, gin.H{
				"error": "reorder failed, showing current order",
				"items": renderItems(items),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": renderItems(items)})
}

// UpdateImage persists alt text and caption for one image.
func (a *API) UpdateImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image id")
		return
	}

	var payload imageMetadataPayload
	if !bindJSON(c, &payload, "invalid metadata payload") {
		return
	}

	item, err := a.galleries.UpdateMetadata(id, payload.AltText, payload.Caption)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			respondError(c, http.StatusNotFound, "image not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update image")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": galleryItemView{GalleryImage: *item, CaptionHTML: renderCaption(item.Caption)}})
}

// DeleteImage removes an image and its stored variants.
func (a *API) DeleteImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid image id")
		return
	}

	if err := a.galleries.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrImageNotFound):
			respondError(c, http.StatusNotFound, "image not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to delete image")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

// RunReconcile triggers a manual consistency sweep.
func (a *API) RunReconcile(c *gin.Context) {
	report, err := a.reconciler.Run(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "reconciliation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

func rejectionMessage(reason error) string {
	switch {
	case errors.Is(reason, service.ErrNotAnImage):
		return "only image files can be uploaded"
	case errors.Is(reason, service.ErrFileTooLarge):
		return "file exceeds the 10 MiB limit"
	default:
		return "upload failed"
	}
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
