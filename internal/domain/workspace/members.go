package workspace

import "slices"

// MemberSet holds the paths of crates participating in a Cargo workspace.
// The zero value is an empty set ready to use.
type MemberSet struct {
	members map[string]struct{}
}

// NewMemberSet returns a set holding the given members.
func NewMemberSet(members ...string) *MemberSet {
	s := &MemberSet{members: make(map[string]struct{}, len(members))}
	s.Add(members...)

	return s
}

// Add inserts members; adding an existing member has no effect.
func (s *MemberSet) Add(members ...string) {
	if s.members == nil {
		s.members = make(map[string]struct{}, len(members))
	}

	for _, m := range members {
		s.members[m] = struct{}{}
	}
}

// Contains reports whether member is in the set.
func (s *MemberSet) Contains(member string) bool {
	_, ok := s.members[member]
	return ok
}

// Len returns the number of distinct members.
func (s *MemberSet) Len() int {
	return len(s.members)
}

// Sorted returns the members in ascending byte order.
func (s *MemberSet) Sorted() []string {
	out := make([]string, 0, len(s.members))
	for m := range s.members {
		out = append(out, m)
	}

	slices.Sort(out)

	return out
}
