package genparse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBoundedListKeepsMostRecentQuarter(t *testing.T) {
	var evicted []int
	l := NewBoundedList(2, 8, func(i int) { evicted = append(evicted, i) })
	for i := range 9 {
		l.Add(i)
	}

	var got []int
	for _, v := range l.All() {
		got = append(got, v)
	}
	if diff := cmp.Diff([]int{6, 7, 8}, got); diff != "" {
		t.Errorf("items (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5}, evicted); diff != "" {
		t.Errorf("evicted (-want +got):\n%s", diff)
	}
}

func TestBoundedListNeverExceedsLimit(t *testing.T) {
	l := NewBoundedList[int](InitialVariantsSize, MaxVariantsSize, nil)
	for i := range MaxVariantsSize + 1 {
		l.Add(i)
		if l.Len() > MaxVariantsSize {
			t.Fatalf("len = %d after %d additions, limit %d", l.Len(), i+1, MaxVariantsSize)
		}
	}
	if got, want := l.Len(), MaxVariantsSize/4+1; got != want {
		t.Errorf("len after overflow = %d, want %d", got, want)
	}
	if got, want := l.Get(l.Len()-1), MaxVariantsSize; got != want {
		t.Errorf("last item = %d, want %d", got, want)
	}
}

func TestBoundedListTruncate(t *testing.T) {
	tests := []struct {
		name    string
		from    int
		removed []int
		left    int
	}{
		{"middle", 2, []int{2, 3}, 2},
		{"start", 0, []int{0, 1, 2, 3}, 0},
		{"at end", 4, nil, 4},
		{"past end", 10, nil, 4},
		{"negative", -1, nil, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewBoundedList[int](4, 100, nil)
			for i := range 4 {
				l.Add(i)
			}
			var removed []int
			n := l.Truncate(tt.from, func(i int) { removed = append(removed, i) })
			if n != len(tt.removed) {
				t.Errorf("Truncate returned %d, want %d", n, len(tt.removed))
			}
			if diff := cmp.Diff(tt.removed, removed); diff != "" {
				t.Errorf("removed (-want +got):\n%s", diff)
			}
			if l.Len() != tt.left {
				t.Errorf("len = %d, want %d", l.Len(), tt.left)
			}
		})
	}
}

func TestBoundedListTruncateWithoutCallback(t *testing.T) {
	l := NewBoundedList[int](4, 100, nil)
	l.Add(1)
	l.Add(2)
	if n := l.Truncate(1, nil); n != 1 || l.Len() != 1 {
		t.Errorf("Truncate = %d, len = %d, want 1 and 1", n, l.Len())
	}
}

func TestPool(t *testing.T) {
	p := NewPool[Variant](2)
	a := p.Acquire(newVariant)
	b := p.Acquire(newVariant).init(7, "stale")
	c := p.Acquire(newVariant)
	if p.Allocated() != 3 {
		t.Fatalf("allocated = %d, want 3", p.Allocated())
	}

	p.Recycle(a)
	p.Recycle(b)
	p.Recycle(c)
	p.Recycle(nil)
	if p.Len() != 2 {
		t.Errorf("len = %d, want 2 (capacity)", p.Len())
	}

	got := p.Acquire(newVariant)
	if got != b {
		t.Fatalf("acquire returned %p, want most recently recycled %p", got, b)
	}
	if got.Position() != 7 || got.Payload() != "stale" {
		t.Errorf("recycled variant = %s, want it untouched", got)
	}
	if p.Allocated() != 3 {
		t.Errorf("allocated = %d after reuse, want 3", p.Allocated())
	}
}
