// Package format encodes parsed documents for the command line.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/grammarkit/diag"
	"github.com/dhamidi/grammarkit/genparse"
	"github.com/dhamidi/grammarkit/syntax"
)

// Document is one parsed source.
type Document struct {
	Name        string
	Tree        *syntax.Node
	Diagnostics []diag.Diagnostic
	Stats       *genparse.Stats
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *Document) error
}

type Options struct {
	Positions bool
}

// Names lists the encoders New knows.
var Names = []string{"tree", "json", "lines"}

func New(name string, w io.Writer, opts Options) (Encoder, error) {
	switch name {
	case "tree":
		return NewTreeEncoder(w, opts), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "lines":
		return NewLineEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", name)
	}
}
