package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend stores each key as a JSON file in a directory. It is the
// closest analogue to the browser-local storage the cart originally lived in.
type FileBackend struct {
	dir string
}

// NewFile creates the directory if needed and returns a FileBackend.
func NewFile(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

func (b *FileBackend) Read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *FileBackend) Write(key string, data []byte) error {
	return os.WriteFile(b.path(key), data, 0o644)
}

func (b *FileBackend) Delete(key string) error {
	err := os.Remove(b.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
