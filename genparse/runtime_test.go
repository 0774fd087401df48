package genparse_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/grammarkit/builder"
	"github.com/dhamidi/grammarkit/genparse"
	"github.com/dhamidi/grammarkit/syntax"
	"github.com/google/go-cmp/cmp"
)

var (
	ident = syntax.NewElementType("ID")
	plus  = syntax.NewElementType("+")
	semi  = syntax.NewElementType(";")
	lp    = syntax.NewElementType("(")
	rp    = syntax.NewElementType(")")

	root = syntax.NewElementType("ROOT")
	stmt = syntax.NewElementType("STMT")
	expr = syntax.NewElementType("EXPR")
	add  = syntax.NewElementType("ADD")
	ref  = syntax.NewElementType("REF")
	wrap = syntax.NewElementType("WRAP")

	punct = map[byte]*syntax.ElementType{'+': plus, ';': semi, '(': lp, ')': rp}
)

// scan splits src into identifiers, whitespace runs and one-character
// punctuation.
func scan(src string) []syntax.Token {
	var tokens []syntax.Token
	pos := syntax.Position{Line: 1, Column: 1}
	for i := 0; i < len(src); {
		j := i + 1
		var t *syntax.ElementType
		switch c := src[i]; {
		case c == ' ' || c == '\n':
			for j < len(src) && (src[j] == ' ' || src[j] == '\n') {
				j++
			}
			t = syntax.WhiteSpace
		case c >= 'a' && c <= 'z':
			for j < len(src) && src[j] >= 'a' && src[j] <= 'z' {
				j++
			}
			t = ident
		default:
			t = punct[c]
		}
		tok := syntax.Token{Type: t, Text: src[i:j], Pos: pos}
		tokens = append(tokens, tok)
		pos = tok.End()
		i = j
	}
	return tokens
}

func testGrammar(rule genparse.Parser) *genparse.Grammar {
	return &genparse.Grammar{
		Name:          "test",
		ExtendsSets:   []syntax.TokenSet{syntax.NewTokenSet(expr, add, ref)},
		Braces:        []genparse.BracePair{{Left: lp, Right: rp}},
		CaseSensitive: true,
		Root:          rule,
	}
}

func parse(t *testing.T, rule genparse.Parser, src string, opts ...genparse.Option) (*genparse.Runtime, *syntax.Node) {
	t.Helper()
	b := builder.New(scan(src))
	rt := genparse.New(b, testGrammar(rule), opts...)
	if err := rt.Parse(root); err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	tree, err := b.Tree()
	if err != nil {
		t.Fatalf("Tree(%q): %v", src, err)
	}
	return rt, tree
}

// program ::= statement*
func program(rt *genparse.Runtime, l int) bool {
	for !rt.EOF() {
		c := rt.CurrentPosition()
		if !statement(rt, l+1) {
			break
		}
		if !rt.EmptyElementParsedGuard("program", c) {
			break
		}
	}
	return true
}

// statement ::= expression ';' {pin=1}
func statement(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "statement") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, stmt, "")
	r := expression(rt, l+1)
	p := r
	r = r && rt.ConsumeToken(semi)
	rt.ExitSection(l, s, r, p, nil)
	return r || p
}

// expression ::= reference ('+' reference)* {collapse}
func expression(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "expression") {
		return false
	}
	s := rt.EnterSection(l, genparse.Collapse, expr, "<expression>")
	r := reference(rt, l+1)
	for r {
		ls := rt.EnterSection(l+1, genparse.Left, nil, "")
		if !rt.ConsumeToken(plus) {
			rt.ExitSection(l+1, ls, false, false, nil)
			break
		}
		ok := reference(rt, l+2)
		rt.ExitSectionAs(l+1, ls, add, ok, true, nil)
	}
	rt.ExitSection(l, s, r, false, nil)
	return r
}

// reference ::= ID
func reference(rt *genparse.Runtime, l int) bool {
	m := rt.Mark()
	r := rt.ConsumeToken(ident)
	rt.ExitMarker(m, ref, r)
	return r
}

func TestLeftAndCollapse(t *testing.T) {
	_, tree := parse(t, program, "a + b;")
	want := strings.Join([]string{
		"ROOT",
		"  STMT",
		"    ADD",
		"      REF",
		"        ID 'a'",
		"      WHITE_SPACE ' '",
		"      + '+'",
		"      WHITE_SPACE ' '",
		"      REF",
		"        ID 'b'",
		"    ; ';'",
		"",
	}, "\n")
	if diff := cmp.Diff(want, tree.String()); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}
}

func TestCollapseSingleOperand(t *testing.T) {
	_, tree := parse(t, program, "a;")
	s := tree.FirstChildOfType(stmt)
	if s == nil || len(s.Children) != 2 || s.Children[0].Type != ref {
		t.Errorf("expected the expression to collapse into REF, got\n%s", tree)
	}
}

func TestPinnedSequenceReportsExpected(t *testing.T) {
	rt, tree := parse(t, program, "a b;")
	errs := tree.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1:\n%s", len(errs), tree)
	}
	if want := "'+' or ';' expected, got 'b'"; errs[0].Error != want {
		t.Errorf("error = %q, want %q", errs[0].Error, want)
	}
	if got := len(tree.ChildrenOfType(stmt)); got != 2 {
		t.Errorf("got %d statements, want parsing to continue after the error", got)
	}
	if rt.Stats().ErrorsReported != 1 {
		t.Errorf("ErrorsReported = %d, want 1", rt.Stats().ErrorsReported)
	}
}

func TestMissingOperandAtEOF(t *testing.T) {
	_, tree := parse(t, program, "a +")
	errs := tree.Errors()
	if len(errs) == 0 {
		t.Fatalf("no error reported:\n%s", tree)
	}
	if want := "ID expected, unexpected end of file"; errs[0].Error != want {
		t.Errorf("error = %q, want %q", errs[0].Error, want)
	}
}

func TestTrailingGarbageBecomesOneError(t *testing.T) {
	rule := func(rt *genparse.Runtime, l int) bool {
		return reference(rt, l+1)
	}
	_, tree := parse(t, rule, "a ) ) b")
	errs := tree.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1:\n%s", len(errs), tree)
	}
	if got := errs[0].Text(); got != ") ) b" {
		t.Errorf("error element covers %q, want %q", got, ") ) b")
	}
	if tree.Span.End.Offset != len("a ) ) b") {
		t.Errorf("root ends at %d, want the whole input", tree.Span.End.Offset)
	}
}

func nest(rt *genparse.Runtime, l int) bool {
	if !rt.RecursionGuard(l, "nest") {
		return false
	}
	s := rt.EnterSection(l, genparse.None, nil, "")
	r := rt.ConsumeToken(lp)
	r = r && (rt.EOF() || nest(rt, l+1))
	rt.ExitSection(l, s, r, false, nil)
	return r
}

func TestRecursionGuard(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		parse(t, nest, strings.Repeat("(", 10), genparse.WithMaxRecursionDepth(10))
	})

	t.Run("past limit", func(t *testing.T) {
		b := builder.New(scan(strings.Repeat("(", 50)))
		rt := genparse.New(b, testGrammar(nest), genparse.WithMaxRecursionDepth(10))
		err := rt.Parse(root)

		var rerr *genparse.RecursionError
		if !errors.As(err, &rerr) {
			t.Fatalf("Parse error = %v, want *RecursionError", err)
		}
		want := &genparse.RecursionError{Rule: "nest", Level: 11, Max: 10}
		if diff := cmp.Diff(want, rerr); diff != "" {
			t.Errorf("error (-want +got):\n%s", diff)
		}
		if rt.State().Current() != nil || rt.Level() != 0 {
			t.Errorf("state not unwound: level %d", rt.Level())
		}
	})
}

func TestBacktrackDiscardsAttempt(t *testing.T) {
	var hookRan bool
	rule := func(rt *genparse.Runtime, l int) bool {
		before := rt.State().VariantCount()
		s := rt.EnterSection(l+1, genparse.None, wrap, "")
		rt.ConsumeToken(ident)
		genparse.RegisterHook(rt, func(b genparse.Builder, m genparse.Marker, _ struct{}) genparse.Marker {
			hookRan = true
			return m
		}, struct{}{})
		rt.ConsumeToken(semi)
		rt.Backtrack(l+1, s)

		if got := rt.State().VariantCount(); got != before {
			t.Errorf("variants after backtrack = %d, want %d", got, before)
		}
		if rt.State().PendingHooks() != 0 {
			t.Errorf("pending hooks = %d after backtrack", rt.State().PendingHooks())
		}
		if rt.Builder().RawTokenIndex() != 0 {
			t.Errorf("builder at %d after backtrack, want 0", rt.Builder().RawTokenIndex())
		}
		return program(rt, l)
	}
	rt, tree := parse(t, rule, "a + b;")
	if hookRan {
		t.Error("hook registered inside a backtracked section ran")
	}
	if rt.Stats().Backtracks != 1 {
		t.Errorf("Backtracks = %d, want 1", rt.Stats().Backtracks)
	}
	if tree.FirstChildOfType(wrap) != nil {
		t.Errorf("backtracked node survived:\n%s", tree)
	}
}

func TestWrapHook(t *testing.T) {
	rule := func(rt *genparse.Runtime, l int) bool {
		s := rt.EnterSection(l+1, genparse.None, stmt, "")
		r := reference(rt, l+2)
		genparse.RegisterHook(rt, genparse.WrapHook, wrap)
		rt.ExitSection(l+1, s, r, false, nil)
		return r
	}
	_, tree := parse(t, rule, "a")
	w := tree.FirstChildOfType(wrap)
	if w == nil || w.FirstChildOfType(stmt) == nil {
		t.Errorf("statement was not wrapped:\n%s", tree)
	}
}

func TestNotPredicate(t *testing.T) {
	// reference !'+'
	rule := func(rt *genparse.Runtime, l int) bool {
		s := rt.EnterSection(l+1, genparse.None, stmt, "")
		r := reference(rt, l+2)
		if r {
			ns := rt.EnterSection(l+2, genparse.Not, nil, "")
			ok := !rt.ConsumeToken(plus)
			rt.ExitSection(l+2, ns, ok, false, nil)
			r = ok
		}
		if rt.State().PredicateCount() != 0 || !rt.State().PredicateSign() {
			t.Errorf("predicate state leaked: count %d", rt.State().PredicateCount())
		}
		if r {
			rt.ExitSection(l+1, s, true, false, nil)
			return true
		}
		rt.ExitSection(l+1, s, false, false, nil)
		return false
	}

	rt, tree := parse(t, rule, "a")
	if tree.FirstChildOfType(stmt) == nil {
		t.Errorf("predicate failed on 'a':\n%s", tree)
	}
	if rt.Builder().RawTokenIndex() != 1 {
		t.Errorf("predicate consumed input")
	}

	_, tree = parse(t, rule, "a+")
	if tree.FirstChildOfType(stmt) != nil {
		t.Errorf("predicate held on 'a+':\n%s", tree)
	}
}

func TestUnbalancedExitIsRecovered(t *testing.T) {
	rule := func(rt *genparse.Runtime, l int) bool {
		outer := rt.EnterSection(l+1, genparse.None, stmt, "")
		rt.EnterSection(l+2, genparse.None, nil, "")
		r := reference(rt, l+3)
		// The inner section is never closed.
		rt.ExitSection(l+1, outer, r, false, nil)
		return r
	}
	rt, _ := parse(t, rule, "a")
	if rt.Level() != 0 {
		t.Errorf("level = %d after parse, want 0", rt.Level())
	}
}
