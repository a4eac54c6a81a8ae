package ecs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Matcher is an immutable predicate over an entity's component set,
// built from three clauses: all-of, any-of and none-of. Two matchers
// built from the same clause contents are equal regardless of argument
// order or duplicates, and hash identically, which is what lets a
// context cache one group per distinct predicate.
type Matcher struct {
	all  []*ComponentType
	any  []*ComponentType
	none []*ComponentType

	allMask  Bitmask
	anyMask  Bitmask
	noneMask Bitmask

	key  string
	hash uint64
}

// AllOf matches entities that carry every given type.
func AllOf(types ...*ComponentType) Matcher {
	return Matcher{}.AllOf(types...)
}

// AnyOf matches entities that carry at least one of the given types.
func AnyOf(types ...*ComponentType) Matcher {
	return Matcher{}.AnyOf(types...)
}

// NoneOf matches entities that carry none of the given types.
func NoneOf(types ...*ComponentType) Matcher {
	return Matcher{}.NoneOf(types...)
}

// AllOf returns a copy of m with the all-of clause set to types.
func (m Matcher) AllOf(types ...*ComponentType) Matcher {
	m.all = canonical(types)
	m.refresh()
	return m
}

// AnyOf returns a copy of m with the any-of clause set to types.
func (m Matcher) AnyOf(types ...*ComponentType) Matcher {
	m.any = canonical(types)
	m.refresh()
	return m
}

// NoneOf returns a copy of m with the none-of clause set to types.
func (m Matcher) NoneOf(types ...*ComponentType) Matcher {
	m.none = canonical(types)
	m.refresh()
	return m
}

// Matches reports whether e satisfies all three clauses. An empty clause
// is vacuously satisfied.
func (m Matcher) Matches(e *Entity) bool {
	if !e.mask.ContainsAll(m.allMask) {
		return false
	}
	if !m.anyMask.IsZero() && !e.mask.ContainsAny(m.anyMask) {
		return false
	}
	if e.mask.ContainsAny(m.noneMask) {
		return false
	}
	return true
}

// Equal reports structural equality of the canonical clauses.
func (m Matcher) Equal(other Matcher) bool {
	return m.key == other.key
}

// Hash returns a 64-bit digest of the canonical clauses. Equal matchers
// hash equal; the context confirms with Equal on bucket collisions.
func (m Matcher) Hash() uint64 { return m.hash }

func (m Matcher) String() string {
	var b strings.Builder
	b.WriteString("Matcher(")
	wrote := false
	clause := func(label string, types []*ComponentType) {
		if len(types) == 0 {
			return
		}
		if wrote {
			b.WriteString(" ")
		}
		wrote = true
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.name
		}
		fmt.Fprintf(&b, "%s(%s)", label, strings.Join(names, ", "))
	}
	clause("AllOf", m.all)
	clause("AnyOf", m.any)
	clause("NoneOf", m.none)
	b.WriteString(")")
	return b.String()
}

// refresh recomputes masks, key and hash from the canonical clauses.
func (m *Matcher) refresh() {
	m.allMask = maskOf(m.all)
	m.anyMask = maskOf(m.any)
	m.noneMask = maskOf(m.none)

	var b strings.Builder
	writeClause := func(label byte, types []*ComponentType) {
		b.WriteByte(label)
		for _, t := range types {
			fmt.Fprintf(&b, "%d,", t.id)
		}
	}
	writeClause('a', m.all)
	writeClause('y', m.any)
	writeClause('n', m.none)
	m.key = b.String()
	m.hash = xxhash.Sum64String(m.key)
}

// canonical sorts by component ID and drops duplicates, so clause
// identity does not depend on how the caller listed the types.
func canonical(types []*ComponentType) []*ComponentType {
	if len(types) == 0 {
		return nil
	}
	out := make([]*ComponentType, len(types))
	copy(out, types)
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	dedup := out[:1]
	for _, t := range out[1:] {
		if t.id != dedup[len(dedup)-1].id {
			dedup = append(dedup, t)
		}
	}
	return dedup
}

func maskOf(types []*ComponentType) Bitmask {
	var m Bitmask
	for _, t := range types {
		m.Set(t.id)
	}
	return m
}
