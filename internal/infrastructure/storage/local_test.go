package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreSaveDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	ref, err := s.Save(context.Background(), "Photo.PNG", "image/png", strings.NewReader("data"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(ref, "uploads/") || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("unexpected ref %q", ref)
	}
	file := filepath.Join(dir, strings.TrimPrefix(ref, "uploads/"))
	b, err := os.ReadFile(file)
	if err != nil || string(b) != "data" {
		t.Fatalf("stored file = %q, %v", b, err)
	}

	if err := s.Delete(context.Background(), ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatalf("file still present: %v", err)
	}
	// second delete and foreign refs are no-ops
	if err := s.Delete(context.Background(), ref); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if err := s.Delete(context.Background(), "uploads/../config.go"); err != nil {
		t.Fatalf("foreign ref: %v", err)
	}
}
