package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoDocument is returned by a Backend when a category has never been saved.
var ErrNoDocument = errors.New("document not found")

// Backend reads and writes whole category documents.
type Backend interface {
	ReadDocument(ctx context.Context, name string) ([]byte, error)
	WriteDocument(ctx context.Context, name string, data []byte) error
}

// FileBackend stores each category as <Dir>/<name>.json. Writes are plain
// truncating rewrites; a crash mid-write can leave a corrupt file.
type FileBackend struct {
	Dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{Dir: dir}
}

func (b *FileBackend) Path(name string) string {
	return filepath.Join(b.Dir, name+".json")
}

func (b *FileBackend) ReadDocument(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("read %s: %w", b.Path(name), err)
	}
	return data, nil
}

func (b *FileBackend) WriteDocument(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(b.Path(name), data, 0o644)
}
