package genparse

import (
	"fmt"
	"unicode/utf8"

	"github.com/dhamidi/grammarkit/syntax"
)

const maxActualTextLength = 20

// exitSectionImpl reports errors for a section that has just been closed
// and runs its recovery predicate.
func (rt *Runtime) exitSectionImpl(frame *Frame, elementType *syntax.ElementType, result, pinned bool, eatMore Parser) {
	st := rt.state
	b := rt.b
	rt.replaceVariantsWithName(frame, elementType, result, pinned)
	initialPos := b.RawTokenIndex()
	lastErrorPos := frame.lastVariantAt
	if lastErrorPos < 0 {
		lastErrorPos = initialPos
	}
	willFail := !result && !pinned

	switch {
	case eatMore != nil && !st.suppressErrors:
		st.suppressErrors = true
		eat := !b.EOF() && eatMore(rt, frame.level+1)

		// When nothing is eaten, an error reported below lands inside the
		// node that ends here instead of after it.
		var extension Marker
		var extensionType *syntax.ElementType
		if !eat && (pinned || result) && elementType != nil && lastErrorPos > frame.position {
			if last := b.LatestDoneMarker(); last != nil &&
				frame.position >= last.StartIndex() && frame.position <= last.EndIndex() {
				extensionType = last.Type()
				extension = last.Precede()
				last.Drop()
			}
		}

		errorReported := frame.errorReportedAt == initialPos ||
			(!result && frame.errorReportedAt >= frame.position)
		switch {
		case eat && errorReported:
			m := b.Mark()
			rt.eatTokens(frame, eatMore)
			m.Done(syntax.DummyBlock)
		case eat:
			errorReported = rt.reportError(frame, nil, true, eatMore)
		case !errorReported && !result && frame.position != b.RawTokenIndex():
			errorReported = rt.reportError(frame, nil, true, nil)
		case !errorReported && !result && pinned && frame.errorReportedAt < 0:
			errorReported = rt.reportError(frame, elementType, false, nil)
		}
		if extension != nil {
			extension.Done(extensionType)
		}
		st.suppressErrors = false
		if errorReported || result {
			st.clearVariantsFrom(true, 0)
			st.clearVariantsFrom(false, 0)
			frame.lastVariantAt = -1
		}

	case !result && pinned && frame.errorReportedAt < 0:
		if lastErrorPos == initialPos {
			rt.reportError(frame, elementType, false, nil)
		} else if lastErrorPos > initialPos {
			// A deeper failure was recorded. Remember it so the
			// enclosing recovery does not report this position again.
			frame.errorReportedAt = lastErrorPos
		}
	}

	if !willFail || eatMore != nil {
		if parent := frame.parent; parent != nil && parent.errorReportedAt < frame.errorReportedAt {
			parent.errorReportedAt = frame.errorReportedAt
		}
	}
}

// eatTokens skips tokens while eatMore holds. Brace pairs are skipped as a
// whole; an unmatched structural right brace stops nested recovery so the
// enclosing block can close.
func (rt *Runtime) eatTokens(frame *Frame, eatMore Parser) {
	b := rt.b
	depth := 0
	for !b.EOF() {
		t := b.TokenType()
		if depth == 0 {
			if frame.level > 0 && rt.isRightBrace(t, true) {
				break
			}
			if !eatMore(rt, frame.level+1) {
				break
			}
		}
		switch {
		case rt.isLeftBrace(t):
			depth++
		case depth > 0 && rt.isRightBrace(t, false):
			depth--
		}
		b.AdvanceLexer()
	}
}

func (rt *Runtime) isLeftBrace(t *syntax.ElementType) bool {
	for _, p := range rt.state.braces {
		if p.Left == t {
			return true
		}
	}
	return false
}

func (rt *Runtime) isRightBrace(t *syntax.ElementType, structuralOnly bool) bool {
	for _, p := range rt.state.braces {
		if p.Right == t && (p.Structural || !structuralOnly) {
			return true
		}
	}
	return false
}

// reportError inserts an error at the current position built from the
// variants recorded there. With eatMore the skipped tokens become the
// error element. Without force nothing is reported when nothing is known
// about what was expected.
func (rt *Runtime) reportError(frame *Frame, elementType *syntax.ElementType, force bool, eatMore Parser) bool {
	st := rt.state
	b := rt.b
	b.EOF()
	position := b.RawTokenIndex()
	expected := st.Expected(position, true)
	if expected == "" && !force {
		switch {
		case frame.name != "":
			expected = frame.name
		case elementType != nil:
			expected = elementType.String()
		default:
			return false
		}
	}
	msg := rt.errorMessage(expected, position)
	if eatMore != nil {
		m := b.Mark()
		rt.eatTokens(frame, eatMore)
		m.Error(msg)
	} else {
		b.Error(msg)
	}
	b.EOF()
	frame.errorReportedAt = b.RawTokenIndex()
	st.stats.ErrorsReported++
	return true
}

func (rt *Runtime) errorMessage(expected string, position int) string {
	m := rt.state.messages
	actual := rt.actualText()
	switch {
	case expected != "" && actual != "":
		return fmt.Sprintf(m.ExpectedGot, expected, actual)
	case expected != "":
		return fmt.Sprintf(m.ExpectedEOF, expected)
	}
	if unexpected := rt.state.Expected(position, false); unexpected != "" {
		return fmt.Sprintf(m.UnexpectedList, unexpected)
	}
	if actual != "" {
		return fmt.Sprintf(m.Unexpected, actual)
	}
	return m.UnexpectedEOF
}

// actualText returns the current token text shortened for messages, or
// "" at the end of input.
func (rt *Runtime) actualText() string {
	if rt.b.TokenType() == nil {
		return ""
	}
	text := rt.b.TokenText()
	if utf8.RuneCountInString(text) <= maxActualTextLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxActualTextLength]) + "..."
}
