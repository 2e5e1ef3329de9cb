package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func staticLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// TestResolveVersion checks override, environment and default precedence.
func TestResolveVersion(t *testing.T) {
	t.Parallel()

	cfg := Default()

	require.Equal(t, "1.80", cfg.ResolveVersion("1.80", staticLookup(map[string]string{"RUST_VERSION": "1.75"})))
	require.Equal(t, "1.75", cfg.ResolveVersion("", staticLookup(map[string]string{"RUST_VERSION": "1.75"})))
	require.Equal(t, "latest", cfg.ResolveVersion("", staticLookup(map[string]string{"RUST_VERSION": ""})))
	require.Equal(t, "latest", cfg.ResolveVersion("", staticLookup(nil)))
	require.Equal(t, "latest", cfg.ResolveVersion("", nil))

	cfg.VersionEnv = "TOOLCHAIN"
	require.Equal(t, "nightly", cfg.ResolveVersion("", staticLookup(map[string]string{
		"RUST_VERSION": "1.75",
		"TOOLCHAIN":    "nightly",
	})))
}

// TestEnvLookup_ReadsDotenv verifies that dotenv values fill gaps in the environment.
func TestEnvLookup_ReadsDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultEnvFilename)
	require.NoError(t, os.WriteFile(path, []byte("PATCHER_TEST_FROM_FILE=1.72\nPATCHER_TEST_SHADOWED=file\n"), 0o600))

	t.Setenv("PATCHER_TEST_SHADOWED", "env")

	lookup, err := EnvLookup(path)
	require.NoError(t, err)

	value, ok := lookup("PATCHER_TEST_FROM_FILE")
	require.True(t, ok)
	require.Equal(t, "1.72", value)

	value, ok = lookup("PATCHER_TEST_SHADOWED")
	require.True(t, ok)
	require.Equal(t, "env", value)

	_, ok = lookup("PATCHER_TEST_UNSET")
	require.False(t, ok)

	_, set := os.LookupEnv("PATCHER_TEST_FROM_FILE")
	require.False(t, set)
}

// TestEnvLookup_MissingFile is not an error.
func TestEnvLookup_MissingFile(t *testing.T) {
	t.Parallel()

	lookup, err := EnvLookup(filepath.Join(t.TempDir(), DefaultEnvFilename))
	require.NoError(t, err)
	require.NotNil(t, lookup)
}
