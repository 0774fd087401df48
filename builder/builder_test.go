package builder_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/grammarkit/builder"
	"github.com/dhamidi/grammarkit/syntax"
	"github.com/google/go-cmp/cmp"
)

var (
	word = syntax.NewElementType("WORD")
	list = syntax.NewElementType("LIST")
	item = syntax.NewElementType("ITEM")
	pair = syntax.NewElementType("PAIR")
)

// tokens turns parts into a token stream: parts starting with a space are
// whitespace, parts starting with '#' are comments, the rest are words.
func tokens(parts ...string) []syntax.Token {
	var out []syntax.Token
	pos := syntax.Position{Line: 1, Column: 1}
	for _, p := range parts {
		t := word
		switch {
		case strings.HasPrefix(p, " ") || strings.HasPrefix(p, "\n"):
			t = syntax.WhiteSpace
		case strings.HasPrefix(p, "#"):
			t = syntax.Comment
		}
		tok := syntax.Token{Type: t, Text: p, Pos: pos}
		out = append(out, tok)
		pos = tok.End()
	}
	return out
}

func mustTree(t *testing.T, b *builder.TreeBuilder) string {
	t.Helper()
	tree, err := b.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	return tree.String()
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func TestTrivia(t *testing.T) {
	b := builder.New(tokens(" ", "a", " ", "b", " "))
	root := b.Mark()
	if b.TokenText() != "a" || b.RawTokenIndex() != 1 {
		t.Fatalf("TokenText = %q at %d, want trivia skipped", b.TokenText(), b.RawTokenIndex())
	}
	b.AdvanceLexer()
	m := b.Mark()
	if m.StartIndex() != 3 {
		t.Errorf("marker starts at %d, want 3", m.StartIndex())
	}
	b.AdvanceLexer()
	m.Done(item)
	if !b.EOF() {
		t.Error("trailing whitespace is not EOF")
	}
	if b.CurrentOffset() != 5 {
		t.Errorf("CurrentOffset = %d at EOF, want 5", b.CurrentOffset())
	}
	root.Done(list)

	want := lines(
		"LIST",
		"  WHITE_SPACE ' '",
		"  WORD 'a'",
		"  WHITE_SPACE ' '",
		"  ITEM",
		"    WORD 'b'",
		"  WHITE_SPACE ' '",
	)
	if diff := cmp.Diff(want, mustTree(t, b)); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}
}

func TestEdgeBinders(t *testing.T) {
	tests := []struct {
		name        string
		left, right syntax.EdgeBinder
		want        string
	}{
		{
			name: "default",
			want: lines(
				"LIST",
				"  WORD 'a'",
				"  WHITE_SPACE '\\n'",
				"  COMMENT '# doc'",
				"  WHITE_SPACE '\\n'",
				"  ITEM",
				"    WORD 'b'",
				"  WHITE_SPACE ' '",
				"  COMMENT '# tail'",
			),
		},
		{
			name: "greedy",
			left: syntax.GreedyLeftBinder, right: syntax.GreedyRightBinder,
			want: lines(
				"LIST",
				"  WORD 'a'",
				"  WHITE_SPACE '\\n'",
				"  ITEM",
				"    COMMENT '# doc'",
				"    WHITE_SPACE '\\n'",
				"    WORD 'b'",
				"    WHITE_SPACE ' '",
				"    COMMENT '# tail'",
			),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := builder.New(tokens("a", "\n", "# doc", "\n", "b", " ", "# tail"))
			root := b.Mark()
			b.AdvanceLexer()
			m := b.Mark()
			b.AdvanceLexer()
			m.Done(item)
			m.SetEdgeBinders(tt.left, tt.right)
			root.Done(list)
			if diff := cmp.Diff(tt.want, mustTree(t, b)); diff != "" {
				t.Errorf("tree (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRollbackTo(t *testing.T) {
	b := builder.New(tokens("a", " ", "b", " ", "c"))
	root := b.Mark()
	b.AdvanceLexer()
	m := b.Mark()
	b.AdvanceLexer()
	inner := b.Mark()
	b.AdvanceLexer()
	inner.Done(item)
	before := b.ProductionCount()

	m.RollbackTo()
	if b.RawTokenIndex() != 2 {
		t.Errorf("RawTokenIndex = %d after rollback, want 2", b.RawTokenIndex())
	}
	if got := b.ProductionCount(); got != before-3 {
		t.Errorf("ProductionCount = %d, want %d", got, before-3)
	}
	if b.LatestDoneMarker() != nil {
		t.Error("rolled back marker is still reported as done")
	}
	for !b.EOF() {
		b.AdvanceLexer()
	}
	root.Done(list)

	want := lines(
		"LIST",
		"  WORD 'a'",
		"  WHITE_SPACE ' '",
		"  WORD 'b'",
		"  WHITE_SPACE ' '",
		"  WORD 'c'",
	)
	if diff := cmp.Diff(want, mustTree(t, b)); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}
}

func TestPrecedeAndDrop(t *testing.T) {
	b := builder.New(tokens("a", " ", "b"))
	root := b.Mark()
	first := b.Mark()
	b.AdvanceLexer()
	first.Done(item)

	outer := first.Precede()
	b.AdvanceLexer()
	outer.Done(pair)
	if b.LatestDoneMarker() != outer {
		t.Error("LatestDoneMarker is not the preceding marker")
	}

	first.Drop()
	root.Done(list)

	want := lines(
		"LIST",
		"  PAIR",
		"    WORD 'a'",
		"    WHITE_SPACE ' '",
		"    WORD 'b'",
	)
	if diff := cmp.Diff(want, mustTree(t, b)); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}
}

func TestDeepNesting(t *testing.T) {
	const depth = 5000
	parts := make([]string, depth)
	for i := range parts {
		parts[i] = "w"
	}
	b := builder.New(tokens(parts...))
	root := b.Mark()
	markers := make([]interface{ Done(*syntax.ElementType) }, depth)
	for i := range depth {
		markers[i] = b.Mark()
		b.AdvanceLexer()
	}
	for i := depth - 1; i >= 0; i-- {
		markers[i].Done(item)
	}
	root.Done(list)

	tree, err := b.Tree()
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	levels := 0
	for n := tree.FirstChildOfType(item); n != nil; n = n.FirstChildOfType(item) {
		levels++
	}
	if levels != depth {
		t.Errorf("nesting = %d, want %d", levels, depth)
	}
}

func TestMarkersSharingAStart(t *testing.T) {
	b := builder.New(tokens("a", "b"))
	root := b.Mark()
	inner := b.Mark()
	b.AdvanceLexer()
	inner.Done(item)
	middle := inner.Precede()
	middle.Done(pair)
	outer := middle.Precede()
	b.AdvanceLexer()
	outer.Done(pair)
	middle.Drop()
	empty := b.Mark()
	empty.Drop()
	root.Done(list)

	want := lines(
		"LIST",
		"  PAIR",
		"    ITEM",
		"      WORD 'a'",
		"    WORD 'b'",
	)
	if diff := cmp.Diff(want, mustTree(t, b)); diff != "" {
		t.Errorf("tree (-want +got):\n%s", diff)
	}
}

func TestError(t *testing.T) {
	b := builder.New(tokens("a", " ", "b"))
	root := b.Mark()
	m := b.Mark()
	b.AdvanceLexer()
	m.Done(item)
	b.Error("first")
	b.Error("second")
	if b.LatestDoneMarker() != m {
		t.Error("LatestDoneMarker returned an error element")
	}
	b.AdvanceLexer()
	root.Done(list)

	tree, err := b.Tree()
	if err != nil {
		t.Fatal(err)
	}
	errs := tree.Errors()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1:\n%s", len(errs), tree)
	}
	if errs[0].Error != "first" {
		t.Errorf("error = %q, want %q", errs[0].Error, "first")
	}
	if errs[0].Span.Start.Offset != 2 || errs[0].Span.End != errs[0].Span.Start {
		t.Errorf("error span = %v, want empty at offset 2", errs[0].Span)
	}
}

func TestTreeRejectsIncompleteProductions(t *testing.T) {
	t.Run("no root", func(t *testing.T) {
		b := builder.New(tokens("a"))
		if _, err := b.Tree(); !errors.Is(err, builder.ErrNoRoot) {
			t.Errorf("err = %v, want ErrNoRoot", err)
		}
	})

	t.Run("open marker", func(t *testing.T) {
		b := builder.New(tokens("a"))
		root := b.Mark()
		b.Mark()
		b.AdvanceLexer()
		root.Done(list)
		if _, err := b.Tree(); err == nil {
			t.Error("Tree accepted a marker that was never completed")
		}
	})

	t.Run("root not last", func(t *testing.T) {
		b := builder.New(tokens("a"))
		root := b.Mark()
		root.Done(list)
		m := b.Mark()
		b.AdvanceLexer()
		m.Done(item)
		if _, err := b.Tree(); err == nil {
			t.Error("Tree accepted a marker after the root")
		}
	})
}

func TestRootCoversEverything(t *testing.T) {
	b := builder.New(tokens("a", " ", "b"))
	root := b.Mark()
	b.AdvanceLexer()
	root.Done(list)

	tree, err := b.Tree()
	if err != nil {
		t.Fatal(err)
	}
	if tree.Text() != "a b" {
		t.Errorf("root text = %q, want the whole input", tree.Text())
	}
}
