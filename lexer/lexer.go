// Package lexer provides lexical scanning based on EBNF grammars.
//
// Productions whose name starts with an upper case letter are tokens; the
// others are helpers that tokens refer to. At each position every token
// production is tried and the longest match wins. On a tie the production
// declared first wins. Bytes no token matches become BAD_CHARACTER tokens.
package lexer

import (
	"fmt"
	"io"
	"os"
	"slices"
	"unicode/utf8"

	"github.com/dhamidi/grammarkit/syntax"
	"golang.org/x/exp/ebnf"
)

// Language is a compiled token grammar. It is read-only and may be shared
// by concurrent lexers.
type Language struct {
	grammar ebnf.Grammar
	order   []string

	// Kinds maps token production names to the element types their tokens
	// carry.
	Kinds map[string]*syntax.ElementType
}

// NewLanguage prepares g for scanning. kinds supplies element types for
// token productions; productions missing from it get a new element type
// named after the production, except WhiteSpace and Comment which map to
// the standard trivia types.
func NewLanguage(g ebnf.Grammar, kinds map[string]*syntax.ElementType) (*Language, error) {
	if err := checkNames(g); err != nil {
		return nil, err
	}
	lang := &Language{
		grammar: g,
		Kinds:   make(map[string]*syntax.ElementType),
	}
	for name, prod := range g {
		if prod.Expr == nil || !isTokenName(name) {
			continue
		}
		lang.order = append(lang.order, name)
	}
	slices.SortFunc(lang.order, func(a, b string) int {
		return g[a].Name.StringPos.Offset - g[b].Name.StringPos.Offset
	})
	if len(lang.order) == 0 {
		return nil, fmt.Errorf("grammar has no token productions")
	}
	for _, name := range lang.order {
		switch t, ok := kinds[name]; {
		case ok:
			lang.Kinds[name] = t
		case name == "WhiteSpace":
			lang.Kinds[name] = syntax.WhiteSpace
		case name == "Comment":
			lang.Kinds[name] = syntax.Comment
		default:
			lang.Kinds[name] = syntax.NewElementType(name)
		}
	}
	return lang, nil
}

// TokenNames returns the token productions in declaration order.
func (lang *Language) TokenNames() []string {
	return slices.Clone(lang.order)
}

// Lex scans input completely. It never fails: unknown input becomes
// BAD_CHARACTER tokens.
func (lang *Language) Lex(input []byte) []syntax.Token {
	tokens, _ := lang.NewLexer(input).Tokenize()
	return tokens
}

func isTokenName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

func checkNames(g ebnf.Grammar) error {
	var err error
	var visit func(ebnf.Expression)
	visit = func(expr ebnf.Expression) {
		switch e := expr.(type) {
		case ebnf.Sequence:
			for _, x := range e {
				visit(x)
			}
		case ebnf.Alternative:
			for _, x := range e {
				visit(x)
			}
		case *ebnf.Repetition:
			visit(e.Body)
		case *ebnf.Option:
			visit(e.Body)
		case *ebnf.Group:
			visit(e.Body)
		case *ebnf.Name:
			if _, ok := g[e.String]; !ok && err == nil {
				err = fmt.Errorf("%s: undefined production %s", e.StringPos, e.String)
			}
		case *ebnf.Range:
			if utf8.RuneCountInString(e.Begin.String) != 1 || utf8.RuneCountInString(e.End.String) != 1 {
				if err == nil {
					err = fmt.Errorf("%s: range bounds must be single characters", e.Begin.StringPos)
				}
			}
		}
	}
	for _, prod := range g {
		if prod.Expr != nil {
			visit(prod.Expr)
		}
	}
	return err
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return ParseGrammar(filename, f)
}

func ParseGrammar(filename string, r io.Reader) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

const noMatch = -1

// Lexer tokenizes one input.
type Lexer struct {
	lang   *Language
	input  []byte
	pos    int
	line   int
	column int

	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func (lang *Language) NewLexer(input []byte) *Lexer {
	return &Lexer{
		lang:     lang,
		input:    input,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

// Position returns the current position in the input.
func (l *Lexer) Position() syntax.Position {
	return syntax.Position{Offset: l.pos, Line: l.line, Column: l.column}
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

// NextToken returns the next token, or io.EOF at the end of input.
func (l *Lexer) NextToken() (syntax.Token, error) {
	if l.pos >= len(l.input) {
		return syntax.Token{Pos: l.Position()}, io.EOF
	}

	start := l.Position()
	clear(l.memo)

	bestKind := ""
	bestLen := 0
	for _, name := range l.lang.order {
		clear(l.visiting)
		n := l.match(l.lang.grammar[name].Expr, start.Offset)
		if n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	kind := l.lang.Kinds[bestKind]
	if bestLen == 0 {
		// Nothing matched: emit one character as a bad character token.
		_, size := utf8.DecodeRune(l.input[start.Offset:])
		bestLen = size
		kind = syntax.BadCharacter
	}
	for range bestLen {
		l.advance()
	}
	return syntax.Token{
		Type: kind,
		Text: string(l.input[start.Offset : start.Offset+bestLen]),
		Pos:  start,
	}, nil
}

// match returns the length of the longest match of expr at offset, or
// noMatch. Repetitions and options may match the empty string.
func (l *Lexer) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		if offset+len(e.String) > len(l.input) || string(l.input[offset:offset+len(e.String)]) != e.String {
			return noMatch
		}
		return len(e.String)

	case *ebnf.Range:
		return l.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := l.match(item, offset+total)
			if n == noMatch {
				return noMatch
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := noMatch
		for _, alt := range e {
			best = max(best, l.match(alt, offset))
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := l.match(e.Body, offset+total)
			if n <= 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		return max(l.match(e.Body, offset), 0)

	case *ebnf.Group:
		return l.match(e.Body, offset)

	case *ebnf.Name:
		return l.matchName(e.String, offset)

	default:
		return noMatch
	}
}

// matchName matches a named production with memoization and cycle detection.
func (l *Lexer) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if result, ok := l.memo[key]; ok {
		return result
	}
	// Left recursion: fail the inner attempt.
	if l.visiting[key] {
		return noMatch
	}
	prod, ok := l.lang.grammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = noMatch
		return noMatch
	}

	l.visiting[key] = true
	result := l.match(prod.Expr, offset)
	delete(l.visiting, key)

	l.memo[key] = result
	return result
}

// matchRange matches one character in a range such as "a" … "z".
func (l *Lexer) matchRange(begin, end string, offset int) int {
	if offset >= len(l.input) {
		return noMatch
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRune(l.input[offset:])
	if r == utf8.RuneError && size <= 1 {
		return noMatch
	}
	if r < lo || r > hi {
		return noMatch
	}
	return size
}

// Tokenize reads all tokens from input.
func (l *Lexer) Tokenize() ([]syntax.Token, error) {
	var tokens []syntax.Token
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
}
