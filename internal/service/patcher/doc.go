// Package patcher prepares a Rust repository checkout for a given toolchain.
//
// It registers extra crates in the Cargo workspace manifest and writes the
// toolchain version into the rustup pin file, the mise config and the
// Dockerfile. Steps run in a fixed order and stop at the first error;
// files patched before the failure stay patched.
package patcher
