package diag

import (
	"bytes"
	"testing"

	"github.com/dhamidi/grammarkit/syntax"
	"github.com/google/go-cmp/cmp"
)

func TestRender(t *testing.T) {
	src := []byte("let a = 1;\nlet x = 1 + 2 x\nprint x;")
	tests := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{
			name: "middle line",
			d: Diagnostic{
				File:    "prog.calc",
				Span:    syntax.Span{Start: syntax.Position{Line: 2, Column: 15}, End: syntax.Position{Line: 2, Column: 16}},
				Message: "';' expected, got 'x'",
			},
			want: "error in prog.calc at 2:15: ';' expected, got 'x'\n\n" +
				"   1 | let a = 1;\n" +
				"   2 | let x = 1 + 2 x\n" +
				"     |               ^\n" +
				"   3 | print x;\n",
		},
		{
			name: "first line wide span",
			d: Diagnostic{
				Span:    syntax.Span{Start: syntax.Position{Line: 1, Column: 5}, End: syntax.Position{Line: 1, Column: 10}},
				Message: "oops",
			},
			want: "error at 1:5: oops\n\n" +
				"   1 | let a = 1;\n" +
				"     |     ^^^^^\n" +
				"   2 | let x = 1 + 2 x\n",
		},
		{
			name: "past the end",
			d: Diagnostic{
				Span:    syntax.Span{Start: syntax.Position{Line: 9, Column: 1}},
				Message: "unexpected end of file",
			},
			want: "error at 3:1: unexpected end of file\n\n" +
				"   2 | let x = 1 + 2 x\n" +
				"   3 | print x;\n" +
				"     | ^\n",
		},
	}
	r := NewRenderer(&bytes.Buffer{}, ColorAuto)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, r.Render(tt.d, src)); diff != "" {
				t.Errorf("Render (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderColor(t *testing.T) {
	d := Diagnostic{Span: syntax.Span{Start: syntax.Position{Line: 1, Column: 1}}, Message: "m"}
	out := NewRenderer(&bytes.Buffer{}, ColorAlways).Render(d, []byte("x"))
	if !bytes.Contains([]byte(out), []byte("\x1b[")) {
		t.Errorf("ColorAlways produced no escape sequences: %q", out)
	}
}

func TestFromTree(t *testing.T) {
	pos := func(off int) syntax.Position { return syntax.Position{Offset: off, Line: 1, Column: off + 1} }
	root := &syntax.Node{Type: syntax.NewElementType("ROOT")}
	inner := &syntax.Node{Type: syntax.NewElementType("INNER")}
	inner.AddChild(&syntax.Node{Type: syntax.ErrorElement, Span: syntax.Span{Start: pos(2), End: pos(2)}, Error: "first"})
	root.AddChild(inner)
	root.AddChild(&syntax.Node{Type: syntax.ErrorElement, Span: syntax.Span{Start: pos(5), End: pos(7)}, Error: "second"})

	var got []string
	for _, d := range FromTree("f.calc", root) {
		got = append(got, d.String())
	}
	want := []string{"f.calc:1:3: first", "f.calc:1:6: second"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromTree (-want +got):\n%s", diff)
	}
	if FromTree("f.calc", nil) != nil {
		t.Error("FromTree(nil) returned diagnostics")
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"always", ColorAlways, false},
		{"NEVER", ColorNever, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseColorMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}
