package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemStore(t *testing.T) {
	t.Run("creates directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "snapshot")
		if _, err := NewFileSystemStore(dir); err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("snapshot directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	})

	t.Run("requires dir", func(t *testing.T) {
		if _, err := NewFileSystemStore(""); err == nil {
			t.Error("NewFileSystemStore(\"\") expected error")
		}
	})
}

func TestFileSystemStore_GetPut(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	t.Run("absent key", func(t *testing.T) {
		data, err := s.Get(ctx, "flights")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if data != nil {
			t.Errorf("Get() = %q, want nil", data)
		}
	})

	t.Run("put overwrites wholesale", func(t *testing.T) {
		if err := s.Put(ctx, "flights", []byte(`[{"id":"1"},{"id":"2"}]`)); err != nil {
			t.Fatalf("first Put() error = %v", err)
		}
		if err := s.Put(ctx, "flights", []byte(`[]`)); err != nil {
			t.Fatalf("second Put() error = %v", err)
		}
		data, err := s.Get(ctx, "flights")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(data) != `[]` {
			t.Errorf("Get() = %q, want %q", data, `[]`)
		}
	})

	t.Run("empty value is not absent", func(t *testing.T) {
		if err := s.Put(ctx, "empty", nil); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		data, err := s.Get(ctx, "empty")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if data == nil {
			t.Error("Get() = nil for an empty stored value")
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".tmp-") {
				t.Errorf("leftover temp file %s", e.Name())
			}
		}
	})
}

func TestFileSystemStore_InvalidKey(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	for _, key := range []string{"", "..", "../escape", `a\b`} {
		if err := s.Put(ctx, key, []byte(`[]`)); err == nil {
			t.Errorf("Put(%q) expected error", key)
		}
		if _, err := s.Get(ctx, key); err == nil {
			t.Errorf("Get(%q) expected error", key)
		}
	}
}

func TestFileSystemStore_ReadError(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSystemStore(dir)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	// A directory where the snapshot file should be cannot be read as a file.
	if err := os.Mkdir(filepath.Join(dir, "flights.json"), 0700); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "flights"); err == nil {
		t.Error("Get() expected error when the snapshot path is a directory")
	}
}
