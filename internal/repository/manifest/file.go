package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/oshokin/workspace-patcher/internal/repository/files"
)

// ErrNotFound is returned when the manifest file does not exist.
var ErrNotFound = errors.New("manifest not found")

// Repository defines persistence operations for the workspace manifest.
type Repository interface {
	Load() (*Manifest, error)
	Save(m *Manifest) error
}

var _ Repository = (*FileRepository)(nil)

// FileRepository stores the manifest as TOML on disk.
type FileRepository struct {
	// path is the filesystem location of Cargo.toml.
	path string
	// writer persists encoded content.
	writer files.Writer
	// mu serializes access to the manifest file.
	mu sync.Mutex
}

// NewFileRepository creates a repository for the manifest at path.
func NewFileRepository(path string, w files.Writer) *FileRepository {
	if w == nil {
		w = files.InPlaceWriter{}
	}

	return &FileRepository{
		path:   filepath.Clean(path),
		writer: w,
	}
}

// Path returns the manifest location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads and decodes the manifest.
func (r *FileRepository) Load() (*Manifest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return nil, fmt.Errorf("read manifest: %w", err)
	}

	m, err := Decode(contents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}

	return m, nil
}

// Save encodes m and overwrites the manifest.
func (r *FileRepository) Save(m *Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := m.Encode()
	if err != nil {
		return err
	}

	return r.writer.WriteFile(r.path, data)
}
