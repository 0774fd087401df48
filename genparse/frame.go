package genparse

import (
	"fmt"

	"github.com/dhamidi/grammarkit/syntax"
)

// Frame is the state snapshot taken when a section is entered. Frames form
// a chain through their parents that mirrors the active rule invocations.
// They are pooled: a frame must not be used after its section has exited.
type Frame struct {
	parent      *Frame
	elementType *syntax.ElementType
	offset      int
	position    int
	level       int
	modifiers   Modifiers
	name        string

	variantCount    int
	errorReportedAt int
	lastVariantAt   int
	marker          Marker
	leftMarker      Marker

	// gen changes every time the frame goes back to the pool, which lets
	// a Section detect that its frame was recycled.
	gen uint32
}

func (f *Frame) init(parent *Frame, offset, position, level int, modifiers Modifiers, elementType *syntax.ElementType, name string, variantCount int) *Frame {
	*f = Frame{
		parent:          parent,
		elementType:     elementType,
		offset:          offset,
		position:        position,
		level:           level,
		modifiers:       modifiers,
		name:            name,
		variantCount:    variantCount,
		errorReportedAt: -1,
		lastVariantAt:   -1,
		gen:             f.gen,
	}
	return f
}

func (f *Frame) Parent() *Frame                   { return f.parent }
func (f *Frame) ElementType() *syntax.ElementType { return f.elementType }
func (f *Frame) Offset() int                      { return f.offset }
func (f *Frame) Position() int                    { return f.position }
func (f *Frame) Level() int                       { return f.level }
func (f *Frame) Modifiers() Modifiers             { return f.modifiers }
func (f *Frame) Name() string                     { return f.name }
func (f *Frame) VariantCount() int                { return f.variantCount }
func (f *Frame) ErrorReportedAt() int             { return f.errorReportedAt }
func (f *Frame) LastVariantAt() int               { return f.lastVariantAt }

func (f *Frame) String() string {
	name := f.name
	if name == "" && f.elementType != nil {
		name = f.elementType.String()
	}
	return fmt.Sprintf("<%d, %d, %d, %s>", f.offset, f.level, f.errorReportedAt, name)
}

func newFrame() *Frame {
	return &Frame{}
}

// Section is the handle returned by EnterSection. It is a small value so
// entering a section does not allocate.
type Section struct {
	marker Marker
	frame  *Frame
	gen    uint32
}

// Marker returns the builder marker opened by the section.
func (s Section) Marker() Marker {
	return s.marker
}

// Frame returns the section's frame, or nil once the section has exited.
func (s Section) Frame() *Frame {
	if s.frame == nil || s.frame.gen != s.gen {
		return nil
	}
	return s.frame
}
