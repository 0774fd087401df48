package genparse

import (
	"github.com/dhamidi/grammarkit/syntax"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("grammarkit.genparse")

type Option func(*Runtime)

// WithMaxRecursionDepth overrides the grammar's recursion limit.
func WithMaxRecursionDepth(depth int) Option {
	return func(rt *Runtime) {
		rt.maxRecursionDepth = depth
	}
}

func WithMessages(m Messages) Option {
	return func(rt *Runtime) {
		rt.state.messages = m
	}
}

func WithLogger(logger commonlog.Logger) Option {
	return func(rt *Runtime) {
		rt.log = logger
	}
}

// WithTrace logs every section enter and exit at debug level.
func WithTrace() Option {
	return func(rt *Runtime) {
		rt.trace = true
	}
}

// Runtime is the facade generated parser code calls into. It ties a
// builder, the grammar metadata and the session's ErrorState together.
type Runtime struct {
	b       Builder
	grammar *Grammar
	state   *ErrorState

	maxRecursionDepth int
	log               commonlog.Logger
	trace             bool
}

func New(b Builder, g *Grammar, opts ...Option) *Runtime {
	rt := &Runtime{
		b:                 b,
		grammar:           g,
		state:             NewErrorState(),
		maxRecursionDepth: MaxRecursionLevel,
		log:               log,
	}
	if g != nil && g.MaxRecursionDepth > 0 {
		rt.maxRecursionDepth = g.MaxRecursionDepth
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.state.Init(g)
	return rt
}

func (rt *Runtime) Builder() Builder       { return rt.b }
func (rt *Runtime) Grammar() *Grammar      { return rt.grammar }
func (rt *Runtime) State() *ErrorState     { return rt.state }
func (rt *Runtime) Level() int             { return rt.state.level }
func (rt *Runtime) MaxRecursionDepth() int { return rt.maxRecursionDepth }
func (rt *Runtime) Stats() Stats           { return rt.state.Stats() }

func (rt *Runtime) TypeExtends(child, parent *syntax.ElementType) bool {
	return rt.state.TypeExtends(child, parent)
}

func (rt *Runtime) Expected(position int, expected bool) string {
	return rt.state.Expected(position, expected)
}

// Parse runs the rule registered for root over the whole input. The root
// node always covers every token: whatever the rule leaves unconsumed is
// wrapped in an error element. The only error returned is a
// *RecursionError, in which case the builder holds an incomplete
// production list and must be discarded.
func (rt *Runtime) Parse(root *syntax.ElementType) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		rerr, ok := r.(*RecursionError)
		if !ok {
			panic(r)
		}
		rt.log.Errorf("%s", rerr)
		rt.state.Reset()
		err = rerr
	}()

	s := rt.EnterSection(0, Collapse, nil, "")
	r := rt.parseRoot(root, 1)
	rt.ExitSectionAs(0, s, root, r, true, trueCondition)
	return nil
}

func (rt *Runtime) parseRoot(root *syntax.ElementType, level int) bool {
	if rt.grammar == nil {
		return false
	}
	if p, ok := rt.grammar.Rules[root]; ok {
		return p(rt, level)
	}
	if rt.grammar.Root != nil {
		return rt.grammar.Root(rt, level)
	}
	return false
}

func trueCondition(rt *Runtime, level int) bool {
	return true
}

// RecursionGuard aborts the parse when level exceeds the recursion limit.
// Generated rules call it on entry.
func (rt *Runtime) RecursionGuard(level int, rule string) bool {
	if level > rt.maxRecursionDepth {
		panic(&RecursionError{Rule: rule, Level: level, Max: rt.maxRecursionDepth})
	}
	return true
}
