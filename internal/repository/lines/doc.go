// Package lines rewrites text files line by line.
//
// A Rule selects lines by the prefix of their trimmed content and replaces
// the whole line. Lines no rule selects are written back unchanged, so the
// line count and order of a file never change.
package lines
