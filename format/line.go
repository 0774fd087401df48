package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/grammarkit/syntax"
)

// LineEncoder writes one tab separated line per node, in document order:
//
//	node	ADD_EXPR	1:9	1:14
//	token	NUMBER	1:9	1:10	"1"
//	error	1:14	1:14	';' expected, got 'x'
//
// Whitespace and comment tokens are left out.
type LineEncoder struct {
	w   io.Writer
	doc *Document
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.doc == nil || e.doc.Tree == nil {
		return nil, nil
	}
	e.doc.Tree.Walk(func(n *syntax.Node) bool {
		switch {
		case n.IsError():
			fmt.Fprintf(&sb, "error\t%s\t%s\t%s\n", n.Span.Start, n.Span.End, n.Error)
		case n.IsLeaf():
			if n.Type == syntax.WhiteSpace || n.Type == syntax.Comment {
				return false
			}
			fmt.Fprintf(&sb, "token\t%s\t%s\t%s\t%s\n", n.Type, n.Span.Start, n.Span.End, strconv.Quote(n.Token.Text))
		default:
			fmt.Fprintf(&sb, "node\t%s\t%s\t%s\n", n.Type, n.Span.Start, n.Span.End)
		}
		return true
	})
	return []byte(sb.String()), nil
}
