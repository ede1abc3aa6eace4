package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const publicPrefix = "/uploads/"

// DiskStore keeps uploads in a local directory, served under /uploads/.
// Filenames are regenerated on save so client-supplied names never reach
// the filesystem.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the local directory backing the store.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(originalName string, r io.Reader) (string, error) {
	ext := filepath.Ext(originalName)
	name := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return publicPrefix + name, nil
}

func (s *DiskStore) Remove(publicPath string) error {
	name := strings.TrimPrefix(publicPath, publicPrefix)
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("invalid upload path: %q", publicPath)
	}
	return os.Remove(filepath.Join(s.dir, name))
}
