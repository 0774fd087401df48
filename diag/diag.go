// Package diag turns the error elements of a syntax tree into diagnostics
// and renders them as source snippets with a caret under the offending
// text:
//
//	error in prog.calc at 3:12: ';' expected, got 'x'
//
//	   2 | let y = 2;
//	   3 | let x = 1 + 2 x
//	     |              ^
//	   4 | print x;
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhamidi/grammarkit/syntax"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Diagnostic is a parse error located in a source file.
type Diagnostic struct {
	File    string
	Span    syntax.Span
	Message string
}

func (d Diagnostic) String() string {
	if d.File == "" {
		return fmt.Sprintf("%s: %s", d.Span.Start, d.Message)
	}
	return fmt.Sprintf("%s:%s: %s", d.File, d.Span.Start, d.Message)
}

// FromTree collects a diagnostic for every error element below root, in
// document order.
func FromTree(file string, root *syntax.Node) []Diagnostic {
	if root == nil {
		return nil
	}
	var diags []Diagnostic
	for _, n := range root.Errors() {
		diags = append(diags, Diagnostic{File: file, Span: n.Span, Message: n.Error})
	}
	return diags
}

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	case "":
		return ColorAuto, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Renderer formats diagnostics for a terminal.
type Renderer struct {
	profile termenv.Profile
}

// NewRenderer returns a renderer for w. In auto mode colors are used only
// when w is a terminal.
func NewRenderer(w io.Writer, mode ColorMode) *Renderer {
	profile := termenv.Ascii
	switch mode {
	case ColorAlways:
		profile = termenv.ANSI
	case ColorAuto:
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			profile = termenv.ANSI
		}
	}
	return &Renderer{profile: profile}
}

func (r *Renderer) red(s string) string {
	return r.profile.String(s).Foreground(r.profile.Color("1")).Bold().String()
}

func (r *Renderer) faint(s string) string {
	return r.profile.String(s).Faint().String()
}

// Render formats d with one line of context on each side of the error
// line. Lines and columns outside of src are clamped.
func (r *Renderer) Render(d Diagnostic, src []byte) string {
	lines := strings.Split(string(src), "\n")
	line := min(max(d.Span.Start.Line, 1), len(lines))
	col := max(d.Span.Start.Column, 1)
	width := 1
	if d.Span.End.Line == d.Span.Start.Line && d.Span.End.Column > col {
		width = d.Span.End.Column - col
	}

	var sb strings.Builder
	header := "error"
	if d.File != "" {
		header += " in " + d.File
	}
	fmt.Fprintf(&sb, "%s at %d:%d: %s\n\n", r.red(header), line, col, d.Message)
	if line > 1 {
		fmt.Fprintf(&sb, "%s %s\n", r.faint(fmt.Sprintf("%4d |", line-1)), lines[line-2])
	}
	fmt.Fprintf(&sb, "%s %s\n", r.faint(fmt.Sprintf("%4d |", line)), lines[line-1])
	fmt.Fprintf(&sb, "%s %s%s\n", r.faint("     |"), strings.Repeat(" ", col-1), r.red(strings.Repeat("^", width)))
	if line < len(lines) {
		fmt.Fprintf(&sb, "%s %s\n", r.faint(fmt.Sprintf("%4d |", line+1)), lines[line])
	}
	return sb.String()
}
