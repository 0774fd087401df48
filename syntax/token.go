package syntax

import "fmt"

type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Token is a lexeme produced by a lexer. Whitespace and comments are kept in
// the token stream; the tree builder skips them while parsing and attaches
// them to the tree afterwards.
type Token struct {
	Type *ElementType
	Text string
	Pos  Position
}

// End returns the position just past the token.
func (t Token) End() Position {
	end := t.Pos
	for i := 0; i < len(t.Text); i++ {
		end.Offset++
		if t.Text[i] == '\n' {
			end.Line++
			end.Column = 1
		} else {
			end.Column++
		}
	}
	return end
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Type, t.Text)
}
