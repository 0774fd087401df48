package format

import (
	"io"
)

// TreeEncoder writes the indented tree dump used in tests and debugging.
type TreeEncoder struct {
	w    io.Writer
	opts Options
	doc  *Document
}

func NewTreeEncoder(w io.Writer, opts Options) *TreeEncoder {
	return &TreeEncoder{w: w, opts: opts}
}

func (e *TreeEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if e.doc == nil || e.doc.Tree == nil {
		return nil, nil
	}
	if e.opts.Positions {
		return []byte(e.doc.Tree.StringWithPositions()), nil
	}
	return []byte(e.doc.Tree.String()), nil
}
