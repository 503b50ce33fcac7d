package storage

import (
	"strings"
	"testing"
)

func TestObjectPathLayout(t *testing.T) {
	p := ObjectPath("game", 42, "screenshot.PNG")

	if !strings.HasPrefix(p, "game/42/") {
		t.Fatalf("expected owner prefix, got %s", p)
	}
	if !strings.HasSuffix(p, ".png") {
		t.Fatalf("expected lowercased extension, got %s", p)
	}
}

func TestObjectPathDefaultsExtension(t *testing.T) {
	p := ObjectPath("blog", 7, "noext")

	if !strings.HasSuffix(p, ".jpg") {
		t.Fatalf("expected .jpg fallback, got %s", p)
	}
}

func TestObjectPathCollisionResistant(t *testing.T) {
	a := ObjectPath("program", 1, "a.jpg")
	b := ObjectPath("program", 1, "a.jpg")

	if a == b {
		t.Fatalf("expected distinct paths for identical inputs, got %s twice", a)
	}
}

func TestThumbPathInsertsSuffix(t *testing.T) {
	if got := ThumbPath("game/42/123-abc.jpg"); got != "game/42/123-abc_thumb.jpg" {
		t.Fatalf("unexpected thumb path %s", got)
	}
}

func TestThumbPathWithoutExtension(t *testing.T) {
	if got := ThumbPath("game/42/123-abc"); got != "game/42/123-abc_thumb" {
		t.Fatalf("unexpected thumb path %s", got)
	}
}
