package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ft-go/internal/ft"
)

// FileSystemStore keeps each snapshot key in its own file:
//
//	<dir>/
//	  <key>.json
//
// Writes go to a temp file in the same directory, are synced, then renamed
// over the old file, so readers see either the old or the new snapshot.
type FileSystemStore struct {
	dir string
}

var _ ft.SnapshotStore = (*FileSystemStore)(nil)

// NewFileSystemStore creates dir if needed.
func NewFileSystemStore(dir string) (*FileSystemStore, error) {
	if dir == "" {
		return nil, errors.New("filesystem snapshot store requires dir to be set")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileSystemStore{dir: dir}, nil
}

func (s *FileSystemStore) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid snapshot key: %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileSystemStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (s *FileSystemStore) Put(_ context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

func (s *FileSystemStore) Close() error { return nil }
