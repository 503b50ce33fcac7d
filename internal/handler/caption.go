package handler

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/playware/internal/db"
)

var (
	captionMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	captionSanitizer = bluemonday.UGCPolicy()
)

type galleryItemView struct {
	db.GalleryImage
	CaptionHTML template.HTML `json:"caption_html"`
}

// renderCaption converts a stored caption to sanitized display HTML.
func renderCaption(caption string) template.HTML {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := captionMarkdown.Convert([]byte(caption), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(caption))
	}
	return template.HTML(captionSanitizer.Sanitize(buf.String()))
}

func renderItems(items []db.GalleryImage) []galleryItemView {
	views := make([]galleryItemView, 0, len(items))
	for _, item := range items {
		views = append(views, galleryItemView{
			GalleryImage: item,
			CaptionHTML:  renderCaption(item.Caption),
		})
	}
	return views
}
