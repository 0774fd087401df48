package genparse

import "iter"

// BoundedList is an append-only sequence with a hard size limit. When an
// addition would push it past the limit, only the most recent quarter of
// the items survive.
type BoundedList[T any] struct {
	items []T
	max   int
	evict func(T)
}

// NewBoundedList returns a list with the given initial capacity and limit.
// evict, when non-nil, receives every item discarded by overflow.
func NewBoundedList[T any](initial, max int, evict func(T)) *BoundedList[T] {
	return &BoundedList[T]{
		items: make([]T, 0, min(initial, max)),
		max:   max,
		evict: evict,
	}
}

func (l *BoundedList[T]) Add(item T) bool {
	if len(l.items) >= l.max {
		keep := l.max / 4
		drop := len(l.items) - keep
		if l.evict != nil {
			for _, it := range l.items[:drop] {
				l.evict(it)
			}
		}
		n := copy(l.items, l.items[drop:])
		clear(l.items[n:])
		l.items = l.items[:n]
	}
	l.items = append(l.items, item)
	return true
}

func (l *BoundedList[T]) Get(i int) T {
	return l.items[i]
}

func (l *BoundedList[T]) Len() int {
	return len(l.items)
}

// Truncate removes every item at or after index from, hands each one to
// fn when it is non-nil, and returns how many were removed. An index
// outside [0, Len()) leaves the list untouched.
func (l *BoundedList[T]) Truncate(from int, fn func(T)) int {
	if from < 0 || from >= len(l.items) {
		return 0
	}
	if fn != nil {
		for _, it := range l.items[from:] {
			fn(it)
		}
	}
	n := len(l.items) - from
	clear(l.items[from:])
	l.items = l.items[:from]
	return n
}

// All iterates over the items in insertion order.
func (l *BoundedList[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, it := range l.items {
			if !yield(i, it) {
				return
			}
		}
	}
}
