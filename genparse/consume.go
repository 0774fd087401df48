package genparse

import (
	"fmt"
	"strings"

	"github.com/dhamidi/grammarkit/syntax"
)

// ConsumeToken records t as expected at the current position and consumes
// the current token if it is of type t.
func (rt *Runtime) ConsumeToken(t *syntax.ElementType) bool {
	rt.addVariant(t)
	return rt.ConsumeTokenFast(t)
}

// ConsumeTokenFast consumes the current token if it is of type t without
// recording anything.
func (rt *Runtime) ConsumeTokenFast(t *syntax.ElementType) bool {
	if rt.b.TokenType() != t || t == nil {
		return false
	}
	rt.b.AdvanceLexer()
	return true
}

// ConsumeTokenText consumes the current token if its text is text. The
// comparison ignores case when the grammar is case insensitive. Soft
// keywords are matched this way.
func (rt *Runtime) ConsumeTokenText(text string) bool {
	rt.addVariant(text)
	if !rt.textMatches(text) {
		return false
	}
	rt.b.AdvanceLexer()
	return true
}

// NextTokenIsText is ConsumeTokenText without consuming.
func (rt *Runtime) NextTokenIsText(text string) bool {
	rt.addVariant(text)
	return rt.textMatches(text)
}

func (rt *Runtime) textMatches(text string) bool {
	if rt.b.EOF() {
		return false
	}
	actual := rt.b.TokenText()
	if rt.state.caseSensitive {
		return actual == text
	}
	return strings.EqualFold(actual, text)
}

// ConsumeTokens consumes a fixed token sequence. Once pin tokens matched
// (pin > 0), the sequence counts as parsed and every later mismatch is
// reported instead of failing. A negative pin reports every mismatch.
func (rt *Runtime) ConsumeTokens(pin int, types ...*syntax.ElementType) bool {
	result, pinned := true, false
	for i, t := range types {
		if pin > 0 && i == pin {
			pinned = result
		}
		if !result && !pinned {
			break
		}
		if !rt.ConsumeToken(t) {
			result = false
			if pin < 0 || pinned {
				rt.ReportError(false)
			}
		}
	}
	return pinned || result
}

// NextTokenIs records t as expected and reports whether the current token
// is of type t.
func (rt *Runtime) NextTokenIs(t *syntax.ElementType) bool {
	rt.addVariant(t)
	return rt.NextTokenIsFast(t)
}

func (rt *Runtime) NextTokenIsFast(types ...*syntax.ElementType) bool {
	actual := rt.b.TokenType()
	if actual == nil {
		return false
	}
	for _, t := range types {
		if t == actual {
			return true
		}
	}
	return false
}

// NextTokenIsFrame is the first-set check generated at the start of a
// named rule: it records name instead of every token when a name is
// given.
func (rt *Runtime) NextTokenIsFrame(name string, types ...*syntax.ElementType) bool {
	if name != "" {
		rt.addVariant(name)
	} else {
		for _, t := range types {
			rt.addVariant(t)
		}
	}
	return rt.NextTokenIsFast(types...)
}

// EOF reports whether all significant tokens have been consumed.
func (rt *Runtime) EOF() bool {
	return rt.b.EOF()
}

// CurrentPosition returns the byte offset of the current token. Loops
// pass it to EmptyElementParsedGuard.
func (rt *Runtime) CurrentPosition() int {
	return rt.b.CurrentOffset()
}

// EmptyElementParsedGuard stops a repetition whose element succeeded
// without consuming anything. pos is the CurrentPosition taken before the
// element was parsed.
func (rt *Runtime) EmptyElementParsedGuard(rule string, pos int) bool {
	if pos == rt.b.CurrentOffset() {
		rt.b.Error(fmt.Sprintf(rt.state.messages.EmptyElement, rule, pos))
		return false
	}
	return true
}

// ReportError reports an error at the current position for a failed
// element of a pinned sequence, unless one was already reported there or
// a deeper failure will be reported instead. It always returns true so
// generated code can chain it.
func (rt *Runtime) ReportError(result bool) bool {
	if result {
		return true
	}
	frame := rt.state.current
	if frame == nil {
		rt.log.Errorf("report error outside of any section at %d", rt.b.CurrentOffset())
		return true
	}
	rt.b.EOF()
	position := rt.b.RawTokenIndex()
	last := frame.lastVariantAt
	if last < 0 {
		last = position + 1
	}
	if frame.errorReportedAt < position && last <= position {
		rt.reportError(frame, nil, true, nil)
	}
	return true
}

func (rt *Runtime) addVariant(payload any) {
	st := rt.state
	if st.suppressErrors || st.predicateCount > 1 {
		return
	}
	rt.b.EOF()
	st.AddVariant(rt.b.RawTokenIndex(), payload)
}
