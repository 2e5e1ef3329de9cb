// Package version exposes build metadata of the patcher binary.
//
// Version, Commit and BuildTime are injected with -ldflags and fall back to
// placeholders for local builds.
package version
