package genparse

import "github.com/dhamidi/grammarkit/syntax"

// Hook adjusts the marker produced by a section after the section has
// been closed. It sees the builder, the marker (nil when the section
// failed) and its parameter, and returns the marker later hooks see.
type Hook[T any] func(b Builder, m Marker, param T) Marker

// HookBatch is a hook bound to its parameter and to the recursion level it
// was registered at.
type HookBatch struct {
	hook  func(b Builder, m Marker, param any) Marker
	param any
	level int
}

func (h HookBatch) Level() int { return h.level }
func (h HookBatch) Param() any { return h.param }

func (h HookBatch) process(b Builder, m Marker) Marker {
	return h.hook(b, m, h.param)
}

// RegisterHook schedules hook to run when the section currently being
// parsed exits. It always returns true so it can be chained into a
// generated sequence.
func RegisterHook[T any](rt *Runtime, hook Hook[T], param T) bool {
	rt.state.registerHook(HookBatch{
		hook: func(b Builder, m Marker, p any) Marker {
			return hook(b, m, p.(T))
		},
		param: param,
		level: rt.state.level,
	})
	return true
}

// LeftBinderHook sets the left edge binder of the produced node.
func LeftBinderHook(b Builder, m Marker, binder syntax.EdgeBinder) Marker {
	if m != nil {
		m.SetEdgeBinders(binder, nil)
	}
	return m
}

// RightBinderHook sets the right edge binder of the produced node.
func RightBinderHook(b Builder, m Marker, binder syntax.EdgeBinder) Marker {
	if m != nil {
		m.SetEdgeBinders(nil, binder)
	}
	return m
}

// WSBindersHook sets both edge binders of the produced node.
func WSBindersHook(b Builder, m Marker, binders [2]syntax.EdgeBinder) Marker {
	if m != nil {
		m.SetEdgeBinders(binders[0], binders[1])
	}
	return m
}

// WrapHook wraps the produced node into a new node of type t.
func WrapHook(b Builder, m Marker, t *syntax.ElementType) Marker {
	if m == nil {
		return nil
	}
	outer := m.Precede()
	outer.Done(t)
	return outer
}
