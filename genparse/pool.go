package genparse

// Pool is a fixed-capacity free list. It is owned by a single parse session
// and is not safe for concurrent use.
//
// Acquired instances are handed back exactly as they were recycled; callers
// must initialise every field themselves.
type Pool[T any] struct {
	free      []*T
	capacity  int
	allocated int
}

func NewPool[T any](capacity int) *Pool[T] {
	return &Pool[T]{capacity: capacity}
}

// Acquire returns a recycled instance, or the result of factory when the
// pool is empty.
func (p *Pool[T]) Acquire(factory func() *T) *T {
	if n := len(p.free); n > 0 {
		item := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return item
	}
	p.allocated++
	return factory()
}

// Recycle returns item to the pool. Items beyond capacity are dropped.
func (p *Pool[T]) Recycle(item *T) {
	if item == nil || len(p.free) >= p.capacity {
		return
	}
	p.free = append(p.free, item)
}

// Len reports how many instances are waiting to be reused.
func (p *Pool[T]) Len() int {
	return len(p.free)
}

// Allocated reports how many instances the factory has produced.
func (p *Pool[T]) Allocated() int {
	return p.allocated
}
