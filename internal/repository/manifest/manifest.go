package manifest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

const (
	workspaceKey = "workspace"
	membersKey   = "members"
)

var (
	// errWorkspaceNotTable is returned when `workspace` is present but is not a table.
	errWorkspaceNotTable = errors.New("workspace is not a table")
	// errMembersNotStrings is returned when workspace.members is not an array of strings.
	errMembersNotStrings = errors.New("workspace.members is not an array of strings")
)

// Manifest is a decoded Cargo.toml kept as a generic document, so keys the
// patcher does not know about survive a rewrite.
type Manifest struct {
	doc map[string]any
}

// Decode parses TOML content into a Manifest.
func Decode(data []byte) (*Manifest, error) {
	doc := make(map[string]any)
	if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	return &Manifest{doc: doc}, nil
}

// Encode serializes the manifest. Keys come out sorted and comments are lost.
func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer

	enc := toml.NewEncoder(&buf)
	enc.Indent = ""

	if err := enc.Encode(m.doc); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	return buf.Bytes(), nil
}

// Members returns workspace.members, or nil when the key or table is absent.
func (m *Manifest) Members() ([]string, error) {
	raw, ok := m.doc[workspaceKey]
	if !ok {
		return nil, nil
	}

	ws, ok := raw.(map[string]any)
	if !ok {
		return nil, errWorkspaceNotTable
	}

	switch members := ws[membersKey].(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), members...), nil
	case []any:
		out := make([]string, 0, len(members))

		for i, item := range members {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d has type %T: %w", i, item, errMembersNotStrings)
			}

			out = append(out, s)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("got %T: %w", members, errMembersNotStrings)
	}
}

// SetMembers replaces workspace.members, creating the workspace table when missing.
func (m *Manifest) SetMembers(members []string) error {
	if m.doc == nil {
		m.doc = make(map[string]any)
	}

	raw, ok := m.doc[workspaceKey]
	if !ok {
		raw = make(map[string]any)
		m.doc[workspaceKey] = raw
	}

	ws, ok := raw.(map[string]any)
	if !ok {
		return errWorkspaceNotTable
	}

	ws[membersKey] = append([]string(nil), members...)

	return nil
}

// Get returns the top-level value stored under key.
func (m *Manifest) Get(key string) (any, bool) {
	v, ok := m.doc[key]
	return v, ok
}
