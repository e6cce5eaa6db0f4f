package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStorePutWritesAndDedupes(t *testing.T) {
	root := filepath.Join(t.TempDir(), "snapshots", "sha256")
	s := NewStore(root)
	content := []byte(`{"pages":[]}`)

	hash, created, err := s.Put(context.Background(), content)
	if err != nil {
		t.Fatalf("Put() first error = %v", err)
	}
	if !created || hash != Hash(content) {
		t.Fatalf("unexpected first put: hash=%s created=%v", hash, created)
	}

	again, created, err := s.Put(context.Background(), content)
	if err != nil {
		t.Fatalf("Put() second error = %v", err)
	}
	if created || again != hash {
		t.Fatalf("expected duplicate put to be a no-op, got hash=%s created=%v", again, created)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one stored file without temp leftovers, got %d", len(entries))
	}

	got, err := s.Get(context.Background(), hash)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != string(content) {
		t.Fatalf("Get() = %q, want %q", got, content)
	}
}

func TestStoreGetErrors(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	if _, err := s.Get(ctx, "bad"); err == nil {
		t.Fatalf("expected invalid hash error")
	}
	missing := Hash([]byte("missing"))
	if _, err := s.Get(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	hash, _, err := s.Put(ctx, []byte("original"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := os.WriteFile(s.Path(hash), []byte("tampered"), 0o644); err != nil {
		t.Fatalf("tamper snapshot: %v", err)
	}
	if _, err := s.Get(ctx, hash); err == nil {
		t.Fatalf("expected corrupt snapshot error")
	}
}

func TestStorePutHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := NewStore(t.TempDir()).Put(ctx, []byte("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStorePruneRemovesUnreferenced(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)
	ctx := context.Background()

	kept, _, err := s.Put(ctx, []byte("kept"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	dropped, _, err := s.Put(ctx, []byte("dropped"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	removed, err := s.Prune(ctx, map[string]bool{kept: true})
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed snapshot, got %d", removed)
	}
	if _, err := s.Get(ctx, dropped); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected dropped snapshot to be gone, got %v", err)
	}
	if _, err := s.Get(ctx, kept); err != nil {
		t.Fatalf("expected kept snapshot to remain, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "README")); err != nil {
		t.Fatalf("expected non-snapshot file to be left alone: %v", err)
	}

	missing := NewStore(filepath.Join(root, "missing"))
	if n, err := missing.Prune(ctx, nil); err != nil || n != 0 {
		t.Fatalf("Prune() on missing dir = %d, %v", n, err)
	}
}
