package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/grammarkit/genparse"
	"github.com/dhamidi/grammarkit/syntax"
)

type JSONEncoder struct {
	w   io.Writer
	doc *Document
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(documentToJSON(e.doc), "", "  ")
}

type jsonDocument struct {
	Name        string           `json:"name"`
	Tree        *jsonNode        `json:"tree,omitempty"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	Stats       *genparse.Stats  `json:"stats,omitempty"`
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Span     jsonSpan    `json:"span"`
	Token    string      `json:"token,omitempty"`
	Error    string      `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonDiagnostic struct {
	Span    jsonSpan `json:"span"`
	Message string   `json:"message"`
}

func documentToJSON(doc *Document) *jsonDocument {
	if doc == nil {
		return &jsonDocument{Diagnostics: []jsonDiagnostic{}}
	}
	jd := &jsonDocument{
		Name:        doc.Name,
		Diagnostics: make([]jsonDiagnostic, 0, len(doc.Diagnostics)),
		Stats:       doc.Stats,
	}
	if doc.Tree != nil {
		jd.Tree = nodeToJSON(doc.Tree)
	}
	for _, d := range doc.Diagnostics {
		jd.Diagnostics = append(jd.Diagnostics, jsonDiagnostic{Span: spanToJSON(d.Span), Message: d.Message})
	}
	return jd
}

func nodeToJSON(n *syntax.Node) *jsonNode {
	jn := &jsonNode{
		Kind:  n.Type.String(),
		Span:  spanToJSON(n.Span),
		Error: n.Error,
	}
	if n.Token != nil {
		jn.Token = n.Token.Text
	}
	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = nodeToJSON(child)
		}
	}
	return jn
}

func spanToJSON(s syntax.Span) jsonSpan {
	return jsonSpan{
		Start: jsonPosition{Offset: s.Start.Offset, Line: s.Start.Line, Column: s.Start.Column},
		End:   jsonPosition{Offset: s.End.Offset, Line: s.End.Line, Column: s.End.Column},
	}
}
