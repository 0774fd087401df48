package genparse

import "github.com/dhamidi/grammarkit/syntax"

const (
	MaxVariantsSize      = 10000
	MaxVariantsToDisplay = 50
	InitialVariantsSize  = 1000
	VariantsPoolSize     = 10000
	FramesPoolSize       = 500
	MaxRecursionLevel    = 1000
)

// ErrorState is the bookkeeping of one parse session: the frame chain,
// expected and unexpected variants, predicate and recursion counters,
// pending hooks and the grammar metadata. It belongs to exactly one
// Runtime and is not safe for concurrent use; concurrent parses each use
// their own ErrorState and share only the read-only Grammar.
type ErrorState struct {
	current *Frame

	variants   *BoundedList[*Variant]
	unexpected *BoundedList[*Variant]

	predicateCount int
	predicateSign  bool
	level          int
	suppressErrors bool

	hooks       []HookBatch
	hookScratch []HookBatch

	extendsSets   []syntax.TokenSet
	braces        []BracePair
	caseSensitive bool
	altExtends    func(child, parent *syntax.ElementType) bool
	initialized   bool

	variantPool *Pool[Variant]
	framePool   *Pool[Frame]
	recycle     func(*Variant)

	messages Messages
	stats    Stats
}

func NewErrorState() *ErrorState {
	s := &ErrorState{
		predicateSign: true,
		caseSensitive: true,
		variantPool:   NewPool[Variant](VariantsPoolSize),
		framePool:     NewPool[Frame](FramesPoolSize),
		messages:      DefaultMessages,
	}
	s.recycle = s.recycleVariant
	s.variants = NewBoundedList(InitialVariantsSize, MaxVariantsSize, s.evictVariant)
	s.unexpected = NewBoundedList(InitialVariantsSize/10, MaxVariantsSize, s.evictVariant)
	return s
}

// Init wires the static grammar metadata. Only the first call has an
// effect.
func (s *ErrorState) Init(g *Grammar) {
	if s.initialized || g == nil {
		return
	}
	s.initialized = true
	s.extendsSets = g.ExtendsSets
	s.braces = g.Braces
	s.caseSensitive = g.CaseSensitive
	s.altExtends = g.AltExtends
}

// TypeExtends reports whether a node of type child may stand where parent
// is expected. It is linear in the number of extends sets.
func (s *ErrorState) TypeExtends(child, parent *syntax.ElementType) bool {
	if child == parent {
		return true
	}
	for _, set := range s.extendsSets {
		if set.Contains(child) && set.Contains(parent) {
			return true
		}
	}
	return s.altExtends != nil && s.altExtends(child, parent)
}

func (s *ErrorState) Current() *Frame         { return s.current }
func (s *ErrorState) Level() int              { return s.level }
func (s *ErrorState) PredicateCount() int     { return s.predicateCount }
func (s *ErrorState) PredicateSign() bool     { return s.predicateSign }
func (s *ErrorState) SuppressErrors() bool    { return s.suppressErrors }
func (s *ErrorState) Braces() []BracePair     { return s.braces }
func (s *ErrorState) VariantCount() int       { return s.variants.Len() }
func (s *ErrorState) UnexpectedCount() int    { return s.unexpected.Len() }
func (s *ErrorState) PendingHooks() int       { return len(s.hooks) }
func (s *ErrorState) FramePool() *Pool[Frame] { return s.framePool }

// AddVariant records payload at position. Inside an odd number of
// negative predicates the observation is recorded as unexpected.
func (s *ErrorState) AddVariant(position int, payload any) {
	v := s.variantPool.Acquire(newVariant).init(position, payload)
	s.stats.VariantsRecorded++
	if s.predicateSign {
		s.variants.Add(v)
		if f := s.current; f != nil && f.lastVariantAt < position {
			f.lastVariantAt = position
		}
	} else {
		s.unexpected.Add(v)
	}
}

// ClearVariants discards the variants recorded since frame was entered and
// every unexpected variant. A nil frame clears everything.
func (s *ErrorState) ClearVariants(frame *Frame) {
	start := 0
	if frame != nil {
		start = frame.variantCount
		frame.lastVariantAt = -1
	}
	s.clearVariantsFrom(true, start)
	s.clearVariantsFrom(false, 0)
}

func (s *ErrorState) clearVariantsFrom(expected bool, start int) {
	list := s.unexpected
	if expected {
		list = s.variants
	}
	list.Truncate(start, s.recycle)
}

func (s *ErrorState) recycleVariant(v *Variant) {
	v.payload = nil
	s.variantPool.Recycle(v)
}

func (s *ErrorState) evictVariant(v *Variant) {
	s.stats.VariantsEvicted++
	s.recycleVariant(v)
}

// enterFrame pushes a frame for a section starting at the given builder
// position and applies the predicate bookkeeping of its modifiers.
func (s *ErrorState) enterFrame(offset, position, level int, modifiers Modifiers, elementType *syntax.ElementType, name string) *Frame {
	f := s.framePool.Acquire(newFrame).init(s.current, offset, position, level, modifiers, elementType, name, s.variants.Len())
	s.current = f
	switch {
	case modifiers.Has(And):
		s.predicateCount++
	case modifiers.Has(Not):
		s.predicateSign = !s.predicateSign
		s.predicateCount++
	}
	s.level++
	s.stats.Sections++
	if s.level > s.stats.MaxLevel {
		s.stats.MaxLevel = s.level
	}
	return f
}

// leavePredicate undoes the predicate bookkeeping of enterFrame.
func (s *ErrorState) leavePredicate(f *Frame) {
	switch {
	case f.modifiers.Has(And):
		s.predicateCount--
	case f.modifiers.Has(Not):
		s.predicateCount--
		s.predicateSign = !s.predicateSign
	}
}

func (s *ErrorState) recycleFrame(f *Frame) {
	f.gen++
	f.parent = nil
	f.marker = nil
	f.leftMarker = nil
	s.framePool.Recycle(f)
	s.level--
}

func (s *ErrorState) registerHook(batch HookBatch) {
	s.hooks = append(s.hooks, batch)
}

// runHooks processes, in the order they were registered, the pending
// batches registered at level or deeper. Each hook receives the marker
// returned by the previous one.
func (s *ErrorState) runHooks(b Builder, level int, marker Marker) Marker {
	if len(s.hooks) == 0 {
		return marker
	}
	run := s.hookScratch[:0]
	kept := 0
	for _, h := range s.hooks {
		if h.level >= level {
			run = append(run, h)
		} else {
			s.hooks[kept] = h
			kept++
		}
	}
	clear(s.hooks[kept:])
	s.hooks = s.hooks[:kept]
	for i, h := range run {
		marker = h.process(b, marker)
		run[i] = HookBatch{}
		s.stats.HooksRun++
	}
	s.hookScratch = run[:0]
	return marker
}

// dropHooks forgets the pending batches registered at level or deeper.
func (s *ErrorState) dropHooks(level int) {
	kept := 0
	for _, h := range s.hooks {
		if h.level < level {
			s.hooks[kept] = h
			kept++
		}
	}
	clear(s.hooks[kept:])
	s.hooks = s.hooks[:kept]
}

// Reset unwinds the whole session: frames and variants go back to their
// pools and pending hooks are dropped. Grammar metadata is kept.
func (s *ErrorState) Reset() {
	for f := s.current; f != nil; {
		parent := f.parent
		s.recycleFrame(f)
		f = parent
	}
	s.current = nil
	s.level = 0
	s.predicateCount = 0
	s.predicateSign = true
	s.suppressErrors = false
	s.clearVariantsFrom(true, 0)
	s.clearVariantsFrom(false, 0)
	clear(s.hooks)
	s.hooks = s.hooks[:0]
}

// Stats returns the session counters.
func (s *ErrorState) Stats() Stats {
	st := s.stats
	st.VariantsAllocated = s.variantPool.Allocated()
	st.FramesAllocated = s.framePool.Allocated()
	return st
}
