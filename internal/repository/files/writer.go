package files

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	goupdate "github.com/doitdistributed/go-update"
)

// DefaultFileMode is used for files whose mode cannot be read.
const DefaultFileMode os.FileMode = 0o644

// Writer replaces the content of an existing file.
type Writer interface {
	WriteFile(path string, data []byte) error
}

// InPlaceWriter truncates and rewrites the target file.
type InPlaceWriter struct{}

// WriteFile overwrites path keeping its current mode.
func (InPlaceWriter) WriteFile(path string, data []byte) error {
	path = filepath.Clean(path)

	if err := os.WriteFile(path, data, modeOf(path)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// AtomicWriter writes a sibling file and swaps it in with go-update,
// so readers never observe a half-written target.
type AtomicWriter struct{}

// WriteFile replaces path through a rename and removes the previous copy.
func (AtomicWriter) WriteFile(path string, data []byte) error {
	path = filepath.Clean(path)

	options := goupdate.Options{
		TargetPath: path,
		TargetMode: modeOf(path),
	}

	if err := goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	// go-update keeps the previous copy next to the target on some platforms.
	oldFileName := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".old")
	if _, err := os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	return nil
}

// DiscardWriter records what would have been written and leaves files untouched.
type DiscardWriter struct {
	mu      sync.Mutex
	written map[string][]byte
}

// WriteFile stores data for later inspection.
func (w *DiscardWriter) WriteFile(path string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.written == nil {
		w.written = make(map[string][]byte)
	}

	w.written[filepath.Clean(path)] = bytes.Clone(data)

	return nil
}

// Content returns the data recorded for path.
func (w *DiscardWriter) Content(path string) ([]byte, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	data, ok := w.written[filepath.Clean(path)]

	return data, ok
}

// NewWriter picks the writer for the requested mode. Dry runs win over atomic writes.
//
//nolint:ireturn // Callers only need the Writer behaviour.
func NewWriter(atomic, dryRun bool) Writer {
	switch {
	case dryRun:
		return new(DiscardWriter)
	case atomic:
		return AtomicWriter{}
	default:
		return InPlaceWriter{}
	}
}

// Exists reports whether path names an existing regular file or directory.
// Errors other than "not found" are returned to the caller.
func Exists(path string) (bool, error) {
	_, err := os.Stat(filepath.Clean(path))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	return false, fmt.Errorf("stat %s: %w", path, err)
}

func modeOf(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return DefaultFileMode
	}

	return info.Mode().Perm()
}
