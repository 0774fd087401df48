package builder

import (
	"cmp"
	"slices"

	"github.com/dhamidi/grammarkit/genparse"
	"github.com/dhamidi/grammarkit/syntax"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("grammarkit.builder")

type Option func(*TreeBuilder)

// WithTrivia sets the token types skipped while parsing and attached to the
// tree afterwards. The default is whitespace and comments.
func WithTrivia(types syntax.TokenSet) Option {
	return func(b *TreeBuilder) {
		b.trivia = types
	}
}

type prodKind uint8

const (
	startProd prodKind = iota
	doneProd
)

type production struct {
	kind prodKind
	m    *marker
}

func (p production) index() int {
	if p.kind == startProd {
		return p.m.start
	}
	return p.m.end
}

// TreeBuilder records the markers of a parse over a token slice and turns
// them into a syntax tree. It implements genparse.Builder.
type TreeBuilder struct {
	tokens  []syntax.Token
	trivia  syntax.TokenSet
	current int

	productions []production
	nextID      int
}

var _ genparse.Builder = (*TreeBuilder)(nil)

func New(tokens []syntax.Token, opts ...Option) *TreeBuilder {
	b := &TreeBuilder{
		tokens: tokens,
		trivia: syntax.NewTokenSet(syntax.WhiteSpace, syntax.Comment),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *TreeBuilder) Tokens() []syntax.Token { return b.tokens }
func (b *TreeBuilder) ProductionCount() int   { return len(b.productions) }

func (b *TreeBuilder) skipTrivia() {
	for b.current < len(b.tokens) && b.trivia.Contains(b.tokens[b.current].Type) {
		b.current++
	}
}

func (b *TreeBuilder) CurrentOffset() int {
	b.skipTrivia()
	if b.current >= len(b.tokens) {
		return b.endOfInput().Offset
	}
	return b.tokens[b.current].Pos.Offset
}

func (b *TreeBuilder) RawTokenIndex() int {
	return b.current
}

func (b *TreeBuilder) TokenType() *syntax.ElementType {
	b.skipTrivia()
	if b.current >= len(b.tokens) {
		return nil
	}
	return b.tokens[b.current].Type
}

func (b *TreeBuilder) TokenText() string {
	b.skipTrivia()
	if b.current >= len(b.tokens) {
		return ""
	}
	return b.tokens[b.current].Text
}

func (b *TreeBuilder) AdvanceLexer() {
	if b.EOF() {
		return
	}
	b.current++
}

func (b *TreeBuilder) EOF() bool {
	b.skipTrivia()
	return b.current >= len(b.tokens)
}

func (b *TreeBuilder) RawLookup(steps int) *syntax.ElementType {
	i := b.current + steps
	if i < 0 || i >= len(b.tokens) {
		return nil
	}
	return b.tokens[i].Type
}

func (b *TreeBuilder) IsWhitespaceOrComment(t *syntax.ElementType) bool {
	return b.trivia.Contains(t)
}

// Mark opens a marker at the current token. Trivia before it is skipped,
// except for the very first marker, which is the root.
func (b *TreeBuilder) Mark() genparse.Marker {
	if len(b.productions) > 0 {
		b.skipTrivia()
	}
	m := b.newMarker(b.current)
	b.productions = append(b.productions, production{kind: startProd, m: m})
	return m
}

// Error inserts an empty error element at the current token. A second
// error at the same place is ignored.
func (b *TreeBuilder) Error(message string) {
	b.skipTrivia()
	if n := len(b.productions); n > 0 {
		last := b.productions[n-1]
		if last.kind == doneProd && last.m.errorItem && last.m.start == b.current {
			return
		}
	}
	m := b.newMarker(b.current)
	m.errorItem = true
	m.typ = syntax.ErrorElement
	m.message = message
	m.end = b.current
	m.done = true
	b.productions = append(b.productions,
		production{kind: startProd, m: m},
		production{kind: doneProd, m: m})
}

// LatestDoneMarker returns the most recently completed marker. Error
// elements inserted with Error are not markers and are skipped.
func (b *TreeBuilder) LatestDoneMarker() genparse.Marker {
	for i := len(b.productions) - 1; i >= 0; i-- {
		p := b.productions[i]
		if p.kind == doneProd && !p.m.errorItem {
			return p.m
		}
	}
	return nil
}

func (b *TreeBuilder) newMarker(start int) *marker {
	b.nextID++
	return &marker{
		b:     b,
		id:    b.nextID,
		start: start,
		end:   -1,
		left:  syntax.DefaultLeftBinder,
		right: syntax.DefaultRightBinder,
	}
}

// indexOf finds the production of m. Token indices never decrease along
// the production list, so only the productions at m's token index are
// scanned.
func (b *TreeBuilder) indexOf(m *marker, kind prodKind) int {
	at := m.start
	if kind == doneProd {
		if !m.done {
			return -1
		}
		at = m.end
	}
	i, _ := slices.BinarySearchFunc(b.productions, at, func(p production, at int) int {
		return cmp.Compare(p.index(), at)
	})
	for ; i < len(b.productions) && b.productions[i].index() == at; i++ {
		if p := b.productions[i]; p.m == m && p.kind == kind {
			return i
		}
	}
	return -1
}

func (b *TreeBuilder) endOfInput() syntax.Position {
	if len(b.tokens) == 0 {
		return syntax.Position{Line: 1, Column: 1}
	}
	return b.tokens[len(b.tokens)-1].End()
}

type marker struct {
	b       *TreeBuilder
	id      int
	start   int
	end     int
	typ     *syntax.ElementType
	message string
	done    bool

	errorItem bool
	left      syntax.EdgeBinder
	right     syntax.EdgeBinder
}

var _ genparse.Marker = (*marker)(nil)

// Precede opens a new marker right before m. The new marker must be
// completed after m.
func (m *marker) Precede() genparse.Marker {
	b := m.b
	i := b.indexOf(m, startProd)
	if i < 0 {
		log.Errorf("precede of unknown marker %d", m.id)
		return b.Mark()
	}
	p := b.newMarker(m.start)
	b.productions = append(b.productions, production{})
	copy(b.productions[i+1:], b.productions[i:])
	b.productions[i] = production{kind: startProd, m: p}
	return p
}

func (m *marker) Done(t *syntax.ElementType) {
	m.complete(t, "")
}

func (m *marker) Error(message string) {
	m.complete(syntax.ErrorElement, message)
}

func (m *marker) complete(t *syntax.ElementType, message string) {
	b := m.b
	if m.done {
		log.Errorf("marker %d completed twice", m.id)
		return
	}
	if b.indexOf(m, startProd) < 0 {
		log.Errorf("completing unknown marker %d", m.id)
		return
	}
	m.typ = t
	m.message = message
	m.end = b.current
	m.done = true
	b.productions = append(b.productions, production{kind: doneProd, m: m})
}

// Drop removes m from the production list. Its children become children
// of its parent.
func (m *marker) Drop() {
	b := m.b
	if i := b.indexOf(m, doneProd); i >= 0 {
		b.productions = append(b.productions[:i], b.productions[i+1:]...)
	}
	if i := b.indexOf(m, startProd); i >= 0 {
		b.productions = append(b.productions[:i], b.productions[i+1:]...)
	}
	m.done = false
}

// RollbackTo discards m and everything recorded after it and moves the
// lexer back to where m was opened.
func (m *marker) RollbackTo() {
	b := m.b
	i := b.indexOf(m, startProd)
	if i < 0 {
		log.Errorf("rollback to unknown marker %d", m.id)
		return
	}
	clear(b.productions[i:])
	b.productions = b.productions[:i]
	b.current = m.start
	m.done = false
}

func (m *marker) Type() *syntax.ElementType { return m.typ }
func (m *marker) StartIndex() int           { return m.start }
func (m *marker) EndIndex() int             { return m.end }

func (m *marker) SetEdgeBinders(left, right syntax.EdgeBinder) {
	if left != nil {
		m.left = left
	}
	if right != nil {
		m.right = right
	}
}
