// Package files provides the write strategies shared by the patcher's
// repositories: plain in-place overwrite, rename-based replacement through
// go-update, and a discarding writer for dry runs.
package files
