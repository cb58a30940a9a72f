package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHTTPCache_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	c := &HTTPCache{Dir: t.TempDir()}

	url := "https://feed.example/threats"
	if err := c.Save(ctx, url, "text/html", `"v1"`, "Mon, 01 Jan 2024 00:00:00 GMT", []byte("<html>body</html>")); err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := c.LoadMeta(ctx, url)
	if err != nil {
		t.Fatalf("load meta: %v", err)
	}
	if meta.ETag != `"v1"` || meta.ContentType != "text/html" {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	body, err := c.LoadBody(ctx, url)
	if err != nil {
		t.Fatalf("load body: %v", err)
	}
	if string(body) != "<html>body</html>" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestHTTPCache_MissIsError(t *testing.T) {
	c := &HTTPCache{Dir: t.TempDir()}
	if _, err := c.LoadMeta(context.Background(), "https://feed.example/missing"); err == nil {
		t.Fatalf("expected miss to error")
	}
}

func TestHTTPCache_PurgeByAge(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := &HTTPCache{Dir: dir}

	url := "https://feed.example/old"
	if err := c.Save(ctx, url, "text/html", "", "", []byte("old")); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Backdate the entry by rewriting its meta with an old SavedAt.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, de := range entries {
		if filepath.Ext(de.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, de.Name())
		old := `{"url":"https://feed.example/old","saved_at":"2000-01-01T00:00:00Z"}`
		if err := os.WriteFile(path, []byte(old), 0o644); err != nil {
			t.Fatalf("backdate: %v", err)
		}
	}

	removed, err := c.PurgeByAge(24 * time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 entry purged, got %d", removed)
	}
	if _, err := c.LoadMeta(ctx, url); err == nil {
		t.Fatalf("purged entry must be gone")
	}
}
