package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LookupFunc reports the value of an environment variable and whether it is set.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a lookup that consults the process environment first and
// then the dotenv file at path. A missing dotenv file is not an error.
// The process environment is never modified.
func EnvLookup(path string) (LookupFunc, error) {
	values, err := godotenv.Read(filepath.Clean(path))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read env file: %w", err)
	}

	return func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}

		value, ok := values[key]

		return value, ok
	}, nil
}

// ResolveVersion picks the toolchain version: a non-empty override wins, then a
// non-empty VersionEnv value, then DefaultVersion.
func (c *Config) ResolveVersion(override string, lookup LookupFunc) string {
	if override != "" {
		return override
	}

	if lookup != nil {
		if value, ok := lookup(c.VersionEnv); ok && value != "" {
			return value
		}
	}

	return c.DefaultVersion
}
