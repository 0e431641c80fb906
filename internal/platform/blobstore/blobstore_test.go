package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *DirStore {
	t.Helper()
	store, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	return store
}

func TestDirStore_SaveAndOpen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path, size, err := store.Save(ctx, "report.pdf", strings.NewReader("%PDF-1.4 content"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("%PDF-1.4 content")) {
		t.Errorf("expected size %d, got %d", len("%PDF-1.4 content"), size)
	}
	if filepath.Base(path) != "report.pdf" {
		t.Errorf("expected path ending in report.pdf, got %s", path)
	}

	rc, err := store.Open(ctx, "report.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4 content" {
		t.Errorf("unexpected blob content: %q", data)
	}
}

func TestDirStore_Open_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Open(context.Background(), "missing.pdf")
	if !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestDirStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, _, err := store.Save(ctx, "scan.jpg", strings.NewReader("first")); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if _, _, err := store.Save(ctx, "scan.jpg", strings.NewReader("second")); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	rc, err := store.Open(ctx, "scan.jpg")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "second" {
		t.Errorf("expected last write to win, got %q", data)
	}
}

func TestDirStore_SaveStripsPath(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, _, err := store.Save(ctx, "../../etc/evil.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// The blob must land inside the store directory under its base name.
	if _, err := os.Stat(filepath.Join(store.Dir(), "evil.pdf")); err != nil {
		t.Errorf("expected blob stored under base name: %v", err)
	}
	ok, err := store.Exists(ctx, "evil.pdf")
	if err != nil || !ok {
		t.Errorf("expected blob to exist under base name, got ok=%v err=%v", ok, err)
	}
}

func TestDirStore_ExistsAndRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, _, err := store.Save(ctx, "x.png", strings.NewReader("png bytes")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ok, err := store.Exists(ctx, "x.png")
	if err != nil || !ok {
		t.Fatalf("expected blob to exist, got ok=%v err=%v", ok, err)
	}

	if err := store.Remove(ctx, "x.png"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	ok, err = store.Exists(ctx, "x.png")
	if err != nil {
		t.Fatalf("Exists after remove: %v", err)
	}
	if ok {
		t.Error("expected blob to be gone after remove")
	}
}

func TestDirStore_Remove_NotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.Remove(context.Background(), "never-there.pdf")
	if !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestDirStore_ContentType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// A real PDF header so sniffing identifies it.
	if _, _, err := store.Save(ctx, "doc.pdf", strings.NewReader("%PDF-1.4\n%test")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ct, err := store.ContentType(ctx, "doc.pdf")
	if err != nil {
		t.Fatalf("ContentType: %v", err)
	}
	if !strings.HasPrefix(ct, "application/pdf") {
		t.Errorf("expected application/pdf, got %s", ct)
	}
}

func TestDirStore_ContentType_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ContentType(context.Background(), "missing.pdf")
	if !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestNewDirStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	if _, err := NewDirStore(dir); err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected directory to be created: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}
