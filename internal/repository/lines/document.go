package lines

import (
	"strings"
)

// Rule replaces every line whose trimmed content starts with Prefix.
type Rule struct {
	// Prefix is matched against the line with surrounding whitespace removed.
	Prefix string
	// Replacement is the new line content without its terminator.
	Replacement string
}

// Matches reports whether line is selected by the rule.
func (r Rule) Matches(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), r.Prefix)
}

// Document is a text file held as a sequence of lines.
// Each line keeps its own terminator so untouched lines round-trip byte for byte.
type Document struct {
	lines []string
}

// Parse splits content into lines. The last line may lack a terminator.
func Parse(content []byte) *Document {
	if len(content) == 0 {
		return &Document{}
	}

	lines := strings.SplitAfter(string(content), "\n")

	// SplitAfter leaves an empty tail when content ends with a terminator.
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	}

	return &Document{lines: lines}
}

// Lines returns a copy of the lines including terminators.
func (d *Document) Lines() []string {
	return append([]string(nil), d.lines...)
}

// Len returns the number of lines.
func (d *Document) Len() int {
	return len(d.lines)
}

// Apply rewrites matching lines in place and returns how many were replaced.
// The first matching rule wins; replaced lines always end with "\n".
func (d *Document) Apply(rules ...Rule) int {
	replaced := 0

	for i, line := range d.lines {
		for _, rule := range rules {
			if !rule.Matches(line) {
				continue
			}

			d.lines[i] = rule.Replacement + "\n"
			replaced++

			break
		}
	}

	return replaced
}

// Bytes joins the lines back into file content.
func (d *Document) Bytes() []byte {
	return []byte(strings.Join(d.lines, ""))
}
