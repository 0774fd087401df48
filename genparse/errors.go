package genparse

import "fmt"

// RecursionError aborts a parse whose rule nesting exceeds the configured
// limit. It signals a cyclic or pathologically deep grammar, not malformed
// input, and is never retried.
type RecursionError struct {
	Rule  string
	Level int
	Max   int
}

var _ error = (*RecursionError)(nil)

func (err *RecursionError) Error() string {
	return fmt.Sprintf("maximum recursion level (%d) reached in '%s'", err.Max, err.Rule)
}

type unbalancedSectionError struct {
	got   *Frame
	level int
}

func (err *unbalancedSectionError) Error() string {
	if err.got == nil {
		return fmt.Sprintf("unbalanced section: no active frame, expected level %d", err.level)
	}
	return fmt.Sprintf("unbalanced section: got %s, expected level %d", err.got, err.level)
}
