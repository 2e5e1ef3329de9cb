// Package workspace models the member list of a Cargo workspace.
package workspace
