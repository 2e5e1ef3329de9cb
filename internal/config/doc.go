// Package config defines which repository files the patcher rewrites and the
// values it writes, with helpers to load, validate and save them as YAML.
//
// It also resolves the toolchain version from a CLI override, the process
// environment or a dotenv file in the repository root.
package config
