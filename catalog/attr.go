// Package catalog holds the immutable value types read from the four input
// tables (relations, subjects, authorizations, and the operator tree) and
// the construction-time validation that guards the rest of the compiler
// from malformed input.
package catalog

import (
	"sort"
	"strings"
)

// Attribute is an opaque attribute symbol. The reference CSV format encodes
// attribute sets as strings of single characters, but nothing in this
// package assumes an attribute is exactly one rune.
type Attribute string

// AttrSet is a set of Attribute. The zero value is a valid empty set.
type AttrSet map[Attribute]struct{}

// NewAttrSet builds a set from the given attributes.
func NewAttrSet(attrs ...Attribute) AttrSet {
	s := make(AttrSet, len(attrs))
	for _, a := range attrs {
		s[a] = struct{}{}
	}
	return s
}

// ParseAttrString splits a reference-format attribute string (one
// character per attribute) into a set. Empty and whitespace-only strings
// yield the empty set.
func ParseAttrString(s string) AttrSet {
	set := AttrSet{}
	for _, r := range strings.TrimSpace(s) {
		set[Attribute(r)] = struct{}{}
	}
	return set
}

// Has reports whether a is a member of the set.
func (s AttrSet) Has(a Attribute) bool {
	_, ok := s[a]
	return ok
}

// Add inserts a into the set in place.
func (s AttrSet) Add(a Attribute) {
	s[a] = struct{}{}
}

// Remove deletes a from the set in place.
func (s AttrSet) Remove(a Attribute) {
	delete(s, a)
}

// Len returns the number of members.
func (s AttrSet) Len() int {
	return len(s)
}

// Clone returns a shallow copy.
func (s AttrSet) Clone() AttrSet {
	out := make(AttrSet, len(s))
	for a := range s {
		out[a] = struct{}{}
	}
	return out
}

// Union returns a new set containing members of both s and other.
func (s AttrSet) Union(other AttrSet) AttrSet {
	out := s.Clone()
	for a := range other {
		out[a] = struct{}{}
	}
	return out
}

// UnionAll unions s with every set in others.
func (s AttrSet) UnionAll(others ...AttrSet) AttrSet {
	out := s.Clone()
	for _, o := range others {
		for a := range o {
			out[a] = struct{}{}
		}
	}
	return out
}

// Intersect returns a new set containing members present in both s and other.
func (s AttrSet) Intersect(other AttrSet) AttrSet {
	out := AttrSet{}
	small, big := s, other
	if len(other) < len(s) {
		small, big = other, s
	}
	for a := range small {
		if _, ok := big[a]; ok {
			out[a] = struct{}{}
		}
	}
	return out
}

// Diff returns a new set containing members of s not present in other.
func (s AttrSet) Diff(other AttrSet) AttrSet {
	out := AttrSet{}
	for a := range s {
		if _, ok := other[a]; !ok {
			out[a] = struct{}{}
		}
	}
	return out
}

// Intersects reports whether s and other share at least one member.
func (s AttrSet) Intersects(other AttrSet) bool {
	small, big := s, other
	if len(other) < len(s) {
		small, big = other, s
	}
	for a := range small {
		if _, ok := big[a]; ok {
			return true
		}
	}
	return false
}

// SubsetOf reports whether every member of s is a member of other.
func (s AttrSet) SubsetOf(other AttrSet) bool {
	for a := range s {
		if _, ok := other[a]; !ok {
			return false
		}
	}
	return true
}

// Equal reports whether s and other have the same members.
func (s AttrSet) Equal(other AttrSet) bool {
	if len(s) != len(other) {
		return false
	}
	return s.SubsetOf(other)
}

// IsEmpty reports whether the set has no members.
func (s AttrSet) IsEmpty() bool {
	return len(s) == 0
}

// Sorted returns the members in ascending lexical order, for deterministic
// iteration (error messages, CSV/DOT output, tests).
func (s AttrSet) Sorted() []Attribute {
	out := make([]Attribute, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders the set as its concatenated sorted attributes, matching
// the reference CSV encoding (e.g. "NPS").
func (s AttrSet) String() string {
	var b strings.Builder
	for _, a := range s.Sorted() {
		b.WriteString(string(a))
	}
	return b.String()
}
