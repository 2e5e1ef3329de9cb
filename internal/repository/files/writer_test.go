package files

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, mode os.FileMode) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Dockerfile")
	require.NoError(t, os.WriteFile(path, []byte("FROM rust:1.70 as build\n"), mode))
	require.NoError(t, os.Chmod(path, mode))

	return path
}

// TestInPlaceWriter_KeepsMode overwrites content and keeps the file mode.
func TestInPlaceWriter_KeepsMode(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, 0o600)

	require.NoError(t, InPlaceWriter{}.WriteFile(path, []byte("new\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "new\n", string(data))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

// TestAtomicWriter_ReplacesFile swaps content and leaves no backup behind.
func TestAtomicWriter_ReplacesFile(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, 0o640)

	require.NoError(t, AtomicWriter{}.WriteFile(path, []byte("FROM rust:1.75 as build\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "FROM rust:1.75 as build\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	}
}

// TestDiscardWriter_LeavesFile records data without touching disk.
func TestDiscardWriter_LeavesFile(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, 0o644)
	w := new(DiscardWriter)

	require.NoError(t, w.WriteFile(path, []byte("changed\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "FROM rust:1.70 as build\n", string(data))

	recorded, ok := w.Content(path)
	require.True(t, ok)
	require.Equal(t, "changed\n", string(recorded))
}

// TestNewWriter selects the strategy from flags.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	require.IsType(t, InPlaceWriter{}, NewWriter(false, false))
	require.IsType(t, AtomicWriter{}, NewWriter(true, false))
	require.IsType(t, new(DiscardWriter), NewWriter(true, true))
}

// TestExists distinguishes present and missing files.
func TestExists(t *testing.T) {
	t.Parallel()

	path := writeFixture(t, 0o644)

	ok, err := Exists(path)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = Exists(filepath.Join(filepath.Dir(path), "missing"))
	require.NoError(t, err)
	require.False(t, ok)
}
