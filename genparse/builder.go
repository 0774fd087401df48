package genparse

import "github.com/dhamidi/grammarkit/syntax"

// Builder is the token stream and tree builder a generated parser drives.
// Whitespace and comment tokens are skipped lazily: TokenType, EOF and
// Mark move past them, AdvanceLexer does not.
type Builder interface {
	// CurrentOffset returns the byte offset of the current token.
	CurrentOffset() int
	// RawTokenIndex returns the index of the current token in the raw
	// token stream, whitespace and comments included.
	RawTokenIndex() int
	// TokenType returns the type of the current token, or nil at the end
	// of input.
	TokenType() *syntax.ElementType
	TokenText() string
	AdvanceLexer()
	EOF() bool
	// RawLookup returns the type of the raw token steps positions away
	// from the current one (negative steps look back), or nil.
	RawLookup(steps int) *syntax.ElementType
	IsWhitespaceOrComment(t *syntax.ElementType) bool

	Mark() Marker
	// Error inserts an empty error element at the current position.
	Error(message string)
	// LatestDoneMarker returns the most recently completed marker, or nil
	// if nothing has been completed yet.
	LatestDoneMarker() Marker
}

// Marker is a position in the production list that is later completed as
// a node, dropped, or rolled back to.
type Marker interface {
	Precede() Marker
	Done(t *syntax.ElementType)
	Drop()
	RollbackTo()
	// Error completes the marker as an error element.
	Error(message string)

	// Type returns the type the marker was completed with, or nil.
	Type() *syntax.ElementType
	StartIndex() int
	EndIndex() int
	// SetEdgeBinders replaces the binders of a completed marker. A nil
	// binder keeps the current one.
	SetEdgeBinders(left, right syntax.EdgeBinder)
}
