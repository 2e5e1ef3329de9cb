package lines

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/workspace-patcher/internal/repository/files"
)

// ErrNotFound is returned when the file to rewrite does not exist.
var ErrNotFound = errors.New("file not found")

// FileRepository reads and rewrites one line-oriented text file.
type FileRepository struct {
	path   string
	writer files.Writer
}

// NewFileRepository binds a repository to path, persisting through w.
func NewFileRepository(path string, w files.Writer) *FileRepository {
	if w == nil {
		w = files.InPlaceWriter{}
	}

	return &FileRepository{
		path:   filepath.Clean(path),
		writer: w,
	}
}

// Path returns the file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the file into a Document.
func (r *FileRepository) Load() (*Document, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	return Parse(contents), nil
}

// Save writes doc back to the file.
func (r *FileRepository) Save(doc *Document) error {
	return r.writer.WriteFile(r.path, doc.Bytes())
}

// Rewrite loads the file, applies rules and saves it.
// It returns the number of replaced lines.
func (r *FileRepository) Rewrite(rules ...Rule) (int, error) {
	doc, err := r.Load()
	if err != nil {
		return 0, err
	}

	replaced := doc.Apply(rules...)

	if err = r.Save(doc); err != nil {
		return replaced, err
	}

	return replaced, nil
}
