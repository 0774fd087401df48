package genparse

import (
	"github.com/dhamidi/grammarkit/syntax"
	"github.com/tliron/commonlog"
)

// EnterSection marks the builder and pushes a frame for a rule invocation.
// Every section must be closed exactly once, on every path, by ExitSection,
// ExitSectionAs or Backtrack with the same level.
func (rt *Runtime) EnterSection(level int, modifiers Modifiers, elementType *syntax.ElementType, name string) Section {
	m := rt.b.Mark()
	f := rt.state.enterFrame(rt.b.CurrentOffset(), rt.b.RawTokenIndex(), level, modifiers, elementType, name)
	f.marker = m
	if modifiers.Has(Left) || modifiers.Has(LeftInner) {
		if left := rt.b.LatestDoneMarker(); left != nil {
			f.leftMarker = left
		} else {
			rt.b.Error("invalid left marker in '" + f.String() + "'")
		}
	}
	if rt.trace && rt.log.AllowLevel(commonlog.Debug) {
		rt.log.Debugf("enter %s at %d", f, f.position)
	}
	return Section{marker: m, frame: f, gen: f.gen}
}

// ExitSection closes s using the element type it was entered with (or
// the one an inner Upper section passed up). A failed, unpinned section is
// rolled back. eatMore, when non-nil, is the recovery predicate: tokens
// are skipped while it holds.
func (rt *Runtime) ExitSection(level int, s Section, result, pinned bool, eatMore Parser) {
	rt.exitSection(level, s, nil, result, pinned, eatMore)
}

// ExitSectionAs is ExitSection with an explicit element type. Left
// recursive expression parsers use it to choose the node type after the
// operator is known.
func (rt *Runtime) ExitSectionAs(level int, s Section, elementType *syntax.ElementType, result, pinned bool, eatMore Parser) {
	rt.exitSection(level, s, elementType, result, pinned, eatMore)
}

// Backtrack abandons a speculative section: the builder returns to the
// section start and the variants and hooks recorded inside it are
// discarded.
func (rt *Runtime) Backtrack(level int, s Section) {
	st := rt.state
	frame := st.current
	if !rt.isCurrent(level, s) {
		rt.unbalanced(level, s, false)
		return
	}
	st.current = frame.parent
	s.marker.RollbackTo()
	st.leavePredicate(frame)
	st.ClearVariants(frame)
	st.dropHooks(st.level)
	st.stats.Backtracks++
	if rt.trace && rt.log.AllowLevel(commonlog.Debug) {
		rt.log.Debugf("backtrack %s", frame)
	}
	st.recycleFrame(frame)
}

// Mark opens a section without a frame. Close it with ExitMarker.
func (rt *Runtime) Mark() Marker {
	return rt.b.Mark()
}

func (rt *Runtime) ExitMarker(m Marker, elementType *syntax.ElementType, result bool) {
	rt.closeMarker(rt.state.current, m, elementType, result)
	var produced Marker
	if result && elementType != nil {
		produced = rt.b.LatestDoneMarker()
	}
	rt.state.runHooks(rt.b, rt.state.level, produced)
}

func (rt *Runtime) isCurrent(level int, s Section) bool {
	f := rt.state.current
	return f != nil && f == s.frame && f.gen == s.gen && f.level == level
}

func (rt *Runtime) exitSection(level int, s Section, elementType *syntax.ElementType, result, pinned bool, eatMore Parser) {
	st := rt.state
	frame := st.current
	if !rt.isCurrent(level, s) {
		rt.unbalanced(level, s, result)
		return
	}
	st.current = frame.parent
	if elementType == nil {
		elementType = frame.elementType
	}
	if rt.trace && rt.log.AllowLevel(commonlog.Debug) {
		rt.log.Debugf("exit %s result=%t pinned=%t at %d", frame, result, pinned, rt.b.RawTokenIndex())
	}

	marker := s.marker
	if frame.modifiers.Has(And) || frame.modifiers.Has(Not) {
		// Predicates never consume input.
		rt.closeMarker(frame, marker, nil, false)
		st.leavePredicate(frame)
		marker = nil
	}
	rt.closeFrame(frame, marker, elementType, result, pinned)
	rt.exitSectionImpl(frame, elementType, result, pinned, eatMore)

	var produced Marker
	if (pinned || result) && elementType != nil {
		produced = rt.b.LatestDoneMarker()
	}
	st.runHooks(rt.b, st.level, produced)

	if parent := frame.parent; parent != nil && parent.lastVariantAt < frame.lastVariantAt {
		parent.lastVariantAt = frame.lastVariantAt
	}
	st.recycleFrame(frame)
}

func (rt *Runtime) closeFrame(frame *Frame, marker Marker, elementType *syntax.ElementType, result, pinned bool) {
	b := rt.b
	switch {
	case elementType != nil && marker != nil:
		if !result && !pinned {
			rt.closeMarker(frame, marker, nil, false)
			return
		}
		if frame.modifiers.Has(Collapse) {
			last := b.LatestDoneMarker()
			if last != nil && last.StartIndex() == frame.position &&
				rt.state.TypeExtends(last.Type(), elementType) &&
				rt.wasAutoSkipped(b.RawTokenIndex()-last.EndIndex()) {
				elementType = last.Type()
				last.Drop()
			}
		}
		switch {
		case frame.modifiers.Has(Upper):
			marker.Drop()
			for f := frame.parent; f != nil; f = f.parent {
				if f.elementType == nil {
					continue
				}
				f.elementType = elementType
				break
			}
		case frame.modifiers.Has(LeftInner) && frame.leftMarker != nil:
			marker.Done(elementType)
			outer := frame.leftMarker.Precede()
			outer.Done(frame.leftMarker.Type())
			frame.leftMarker.Drop()
		case frame.modifiers.Has(Left) && frame.leftMarker != nil:
			marker.Drop()
			frame.leftMarker.Precede().Done(elementType)
		default:
			if frame.level == 0 {
				b.EOF()
			}
			marker.Done(elementType)
		}
	case result || pinned:
		if marker != nil {
			marker.Drop()
		}
		if frame.modifiers.Has(LeftInner) && frame.leftMarker != nil {
			outer := frame.leftMarker.Precede()
			outer.Done(frame.leftMarker.Type())
			frame.leftMarker.Drop()
		}
	default:
		rt.closeMarker(frame, marker, nil, false)
	}
}

func (rt *Runtime) closeMarker(frame *Frame, marker Marker, elementType *syntax.ElementType, result bool) {
	if marker == nil {
		return
	}
	if result {
		if elementType != nil {
			marker.Done(elementType)
		} else {
			marker.Drop()
		}
		return
	}
	if frame != nil && frame.errorReportedAt > marker.StartIndex() {
		frame.errorReportedAt = -1
		if frame.parent != nil {
			frame.errorReportedAt = frame.parent.errorReportedAt
		}
	}
	marker.RollbackTo()
}

// wasAutoSkipped reports whether the last steps raw tokens are all
// whitespace or comments.
func (rt *Runtime) wasAutoSkipped(steps int) bool {
	for i := -1; i >= -steps; i-- {
		if !rt.b.IsWhitespaceOrComment(rt.b.RawLookup(i)) {
			return false
		}
	}
	return true
}

// replaceVariantsWithName makes a failed named section that did not move
// report itself ("<expression> expected") instead of its alternatives.
func (rt *Runtime) replaceVariantsWithName(frame *Frame, elementType *syntax.ElementType, result, pinned bool) {
	st := rt.state
	initialPos := rt.b.RawTokenIndex()
	willFail := !result && !pinned
	need := 0
	if elementType != nil {
		need = 2
	}
	if willFail && initialPos == frame.position && frame.lastVariantAt == frame.position &&
		frame.name != "" && st.variants.Len() >= frame.variantCount+need {
		st.clearVariantsFrom(true, frame.variantCount)
		st.AddVariant(initialPos, frame.name)
		if frame.lastVariantAt < initialPos {
			frame.lastVariantAt = initialPos
		}
	}
}

func (rt *Runtime) unbalanced(level int, s Section, result bool) {
	st := rt.state
	rt.log.Errorf("%s", &unbalancedSectionError{got: st.current, level: level})
	if target := s.Frame(); target != nil && onChain(st.current, target) {
		// Sections left open inside target lose their nodes but keep
		// their tokens.
		for {
			f := st.current
			if f == target {
				st.current = f.parent
				st.leavePredicate(f)
				st.recycleFrame(f)
				break
			}
			if f.marker != nil {
				f.marker.Drop()
			}
			st.current = f.parent
			st.leavePredicate(f)
			st.dropHooks(st.level)
			st.recycleFrame(f)
		}
	}
	rt.closeMarker(nil, s.marker, nil, result)
}

func onChain(top, f *Frame) bool {
	for c := top; c != nil; c = c.parent {
		if c == f {
			return true
		}
	}
	return false
}
