package genparse

import "github.com/dhamidi/grammarkit/syntax"

// Parser is the signature of a generated rule function. level is the
// recursion depth the rule is invoked at.
type Parser func(rt *Runtime, level int) bool

// BracePair associates a left and right delimiter. Structural braces
// delimit blocks; recovery never eats an unmatched structural right brace.
type BracePair struct {
	Left       *syntax.ElementType
	Right      *syntax.ElementType
	Structural bool
}

// Grammar is the static metadata of a generated parser. A Grammar is built
// once and must not be modified afterwards; it may be shared by any number
// of concurrent parse sessions.
type Grammar struct {
	Name string

	// ExtendsSets groups element types that may stand in for one another.
	ExtendsSets []syntax.TokenSet
	Braces      []BracePair

	CaseSensitive     bool
	MaxRecursionDepth int

	// Rules maps a root element type to the rule that parses it. Root is
	// used for any other element type.
	Rules map[*syntax.ElementType]Parser
	Root  Parser

	// AltExtends is consulted by TypeExtends when no extends set matches.
	AltExtends func(child, parent *syntax.ElementType) bool
}

// Modifiers control how a section interprets its result.
type Modifiers uint8

const (
	None Modifiers = 0
	// Collapse replaces the section's node by an inner node that covers
	// the same tokens and whose type extends the section type.
	Collapse Modifiers = 0x01
	// Left wraps the previously completed node into the section's node.
	Left Modifiers = 0x02
	// LeftInner completes the section and re-wraps the previous node with
	// its own type around both.
	LeftInner Modifiers = 0x04
	// And is a positive lookahead predicate.
	And Modifiers = 0x08
	// Not is a negative lookahead predicate.
	Not Modifiers = 0x10
	// Upper passes the section's type to the nearest enclosing typed
	// section instead of producing a node.
	Upper Modifiers = 0x20
)

func (m Modifiers) Has(flag Modifiers) bool {
	return m&flag != 0
}
