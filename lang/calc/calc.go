// Package calc is a small scripting language used to exercise the parser
// runtime:
//
//	# comments attach to the next declaration
//	fn square(x) { return x * x; }
//	let total = square(3) + -1;
//	if total > 5 { print "big"; } else { print total; }
//
// Keywords are soft: they are identifiers matched by text, ignoring case.
package calc

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/dhamidi/grammarkit/builder"
	"github.com/dhamidi/grammarkit/diag"
	"github.com/dhamidi/grammarkit/genparse"
	"github.com/dhamidi/grammarkit/lexer"
	"github.com/dhamidi/grammarkit/syntax"
)

//go:embed calc.ebnf
var tokenGrammar []byte

// Language is the compiled token grammar of calc.
var Language = mustLanguage()

func mustLanguage() *lexer.Language {
	g, err := lexer.ParseGrammar("calc.ebnf", bytes.NewReader(tokenGrammar))
	if err != nil {
		panic(err)
	}
	lang, err := lexer.NewLanguage(g, tokenKinds)
	if err != nil {
		panic(err)
	}
	return lang
}

// Grammar is the parser metadata of calc. FILE parses a whole program,
// EXPR a single expression.
var Grammar = &genparse.Grammar{
	Name:        "calc",
	ExtendsSets: []syntax.TokenSet{expressionTypes, statementTypes},
	Braces: []genparse.BracePair{
		{Left: LBRACE, Right: RBRACE, Structural: true},
		{Left: LPAREN, Right: RPAREN},
	},
	CaseSensitive: false,
	Rules: map[*syntax.ElementType]genparse.Parser{
		FILE: file,
		EXPR: expression,
	},
	Root: file,
}

// Result is the outcome of parsing one source.
type Result struct {
	Name        string
	Source      []byte
	Tokens      []syntax.Token
	Tree        *syntax.Node
	Diagnostics []diag.Diagnostic
	Stats       genparse.Stats
}

// Parse parses a whole program. Syntax errors do not fail the parse: they
// are part of the tree and listed in Diagnostics. An error is returned only
// when the parse was aborted.
func Parse(name string, src []byte, opts ...genparse.Option) (*Result, error) {
	return parse(FILE, name, src, opts)
}

// ParseExpression parses src as a single expression.
func ParseExpression(name string, src []byte, opts ...genparse.Option) (*Result, error) {
	return parse(EXPR, name, src, opts)
}

func parse(root *syntax.ElementType, name string, src []byte, opts []genparse.Option) (*Result, error) {
	tokens := Language.Lex(src)
	b := builder.New(tokens)
	rt := genparse.New(b, Grammar, opts...)
	if err := rt.Parse(root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	tree, err := b.Tree()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return &Result{
		Name:        name,
		Source:      src,
		Tokens:      tokens,
		Tree:        tree,
		Diagnostics: diag.FromTree(name, tree),
		Stats:       rt.Stats(),
	}, nil
}
