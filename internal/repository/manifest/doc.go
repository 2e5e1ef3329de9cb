// Package manifest reads and writes the Cargo workspace manifest.
//
// The manifest is decoded into a generic TOML document so unrelated sections
// are carried over. Writing re-serializes the whole document: key order and
// comments of the original file are not preserved.
package manifest
