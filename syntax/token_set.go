package syntax

import "strings"

// TokenSet is an immutable set of element types backed by a bitset.
// The zero value is the empty set.
type TokenSet struct {
	bits []uint64
}

func NewTokenSet(types ...*ElementType) TokenSet {
	var s TokenSet
	for _, t := range types {
		if t == nil {
			continue
		}
		w := t.index / 64
		for len(s.bits) <= w {
			s.bits = append(s.bits, 0)
		}
		s.bits[w] |= 1 << (t.index % 64)
	}
	return s
}

func (s TokenSet) Contains(t *ElementType) bool {
	if t == nil {
		return false
	}
	w := t.index / 64
	return w < len(s.bits) && s.bits[w]&(1<<(t.index%64)) != 0
}

// Union returns a new set holding the members of both s and other.
func (s TokenSet) Union(other TokenSet) TokenSet {
	n := max(len(s.bits), len(other.bits))
	out := TokenSet{bits: make([]uint64, n)}
	copy(out.bits, s.bits)
	for i, w := range other.bits {
		out.bits[i] |= w
	}
	return out
}

// Types returns the members of s in registration order.
func (s TokenSet) Types() []*ElementType {
	var types []*ElementType
	for w, bits := range s.bits {
		for b := 0; b < 64; b++ {
			if bits&(1<<b) == 0 {
				continue
			}
			if t := LookupElementType(w*64 + b); t != nil {
				types = append(types, t)
			}
		}
	}
	return types
}

func (s TokenSet) IsEmpty() bool {
	for _, w := range s.bits {
		if w != 0 {
			return false
		}
	}
	return true
}

func (s TokenSet) String() string {
	types := s.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}
