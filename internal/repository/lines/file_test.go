package lines

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/workspace-patcher/internal/repository/files"
)

// TestFileRepository_NotFound verifies Load reports ErrNotFound for a missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "rust-toolchain.toml"), nil)

	doc, err := repo.Load()
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, doc)

	_, err = repo.Rewrite(Rule{Prefix: "channel", Replacement: "channel = \"1.75\""})
	require.ErrorIs(t, err, ErrNotFound)
}

// TestFileRepository_Rewrite persists replacements and keeps other lines intact.
func TestFileRepository_Rewrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rust-toolchain.toml")
	require.NoError(t, os.WriteFile(path, []byte(toolchain), 0o644))

	repo := NewFileRepository(path, files.InPlaceWriter{})

	replaced, err := repo.Rewrite(Rule{Prefix: "channel", Replacement: `channel = "1.75"`})
	require.NoError(t, err)
	require.Equal(t, 1, replaced)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, strings.Replace(toolchain, `channel = "1.72.0"`, `channel = "1.75"`, 1), string(data))
}

// TestFileRepository_DryRun leaves the file untouched.
func TestFileRepository_DryRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rust-toolchain.toml")
	require.NoError(t, os.WriteFile(path, []byte(toolchain), 0o644))

	w := new(files.DiscardWriter)
	repo := NewFileRepository(path, w)

	replaced, err := repo.Rewrite(Rule{Prefix: "channel", Replacement: `channel = "1.75"`})
	require.NoError(t, err)
	require.Equal(t, 1, replaced)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, toolchain, string(data))

	recorded, ok := w.Content(path)
	require.True(t, ok)
	require.Contains(t, string(recorded), `channel = "1.75"`)
}
