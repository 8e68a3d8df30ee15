// Package arena provides the per-worker scratch allocator used on the render
// path.
//
// An Arena is a typed bump allocator over one preallocated slice. Allocation
// never falls back to the Go heap: when the arena is exhausted, Alloc returns
// ErrOutOfMemory and the caller abandons the current unit of work and asks
// for a larger arena next frame.
//
// Child arenas come in two flavours:
//
//   - Push carves a child from the parent's free space. The parent is locked
//     until the child is popped, and children must be popped in strict LIFO
//     order. Pop returns the child's memory to the parent.
//   - Spawn carves a fixed budget permanently, without LIFO tracking. It is
//     used to split one large allocation into per-worker regions.
//
// Violating the push/pop discipline is a programming error and panics.
//
// Arenas are not safe for concurrent use; each worker owns its own.
package arena

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned when an allocation does not fit in the arena.
var ErrOutOfMemory = errors.New("arena: out of memory")

// Arena is a bump allocator for values of type T.
//
// T should not contain pointers that the arena is the only owner of;
// memory is reused without being returned to the garbage collector.
type Arena[T any] struct {
	mem    []T
	used   int
	peak   int
	parent *Arena[T]
	child  *Arena[T] // active pushed child, if any
	popped bool
}

// New creates an arena holding up to capacity values.
// It panics if capacity is negative.
func New[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		panic(fmt.Sprintf("arena: negative capacity %d", capacity))
	}
	return &Arena[T]{mem: make([]T, capacity)}
}

// Alloc returns n zeroed values. The returned slice has capacity n, so
// appending to it never writes into neighbouring allocations.
func (a *Arena[T]) Alloc(n int) ([]T, error) {
	a.checkUsable()
	if n < 0 {
		panic(fmt.Sprintf("arena: negative allocation %d", n))
	}
	if n > len(a.mem)-a.used {
		return nil, fmt.Errorf("%w: want %d, have %d of %d", ErrOutOfMemory, n, len(a.mem)-a.used, len(a.mem))
	}
	s := a.mem[a.used : a.used+n : a.used+n]
	clear(s)
	a.used += n
	a.peak = max(a.peak, a.used)
	return s, nil
}

// Push carves a child arena of the given capacity from the free space of a.
// While the child is alive a may not allocate, push or reset.
func (a *Arena[T]) Push(capacity int) (*Arena[T], error) {
	a.checkUsable()
	if capacity < 0 {
		panic(fmt.Sprintf("arena: negative capacity %d", capacity))
	}
	if capacity > len(a.mem)-a.used {
		return nil, fmt.Errorf("%w: push %d, have %d", ErrOutOfMemory, capacity, len(a.mem)-a.used)
	}
	child := &Arena[T]{
		mem:    a.mem[a.used : a.used+capacity : a.used+capacity],
		parent: a,
	}
	a.child = child
	return child, nil
}

// PushRest pushes a child that owns all of the parent's free space.
func (a *Arena[T]) PushRest() *Arena[T] {
	child, err := a.Push(a.Available())
	if err != nil {
		// Available always fits.
		panic(err)
	}
	return child
}

// Pop releases a pushed child back to its parent. Memory allocated from
// the child becomes free again. Pop panics if a is not the parent's active
// child or if a still has an active child of its own.
func (a *Arena[T]) Pop() {
	if a.parent == nil {
		panic("arena: pop of an arena that was not pushed")
	}
	if a.popped {
		panic("arena: double pop")
	}
	if a.parent.child != a {
		panic("arena: pop out of LIFO order")
	}
	if a.child != nil {
		panic("arena: pop with an active child")
	}
	peak := a.parent.used + a.peak
	a.parent.peak = max(a.parent.peak, peak)
	a.parent.child = nil
	a.popped = true
}

// Spawn permanently carves a sub-arena of the given capacity from a.
// The spawned arena is independent: it is never popped and a may continue
// to allocate after spawning.
func (a *Arena[T]) Spawn(capacity int) (*Arena[T], error) {
	buf, err := a.Alloc(capacity)
	if err != nil {
		return nil, err
	}
	return &Arena[T]{mem: buf}, nil
}

// Reset frees every allocation in a. It panics while a child is active.
func (a *Arena[T]) Reset() {
	a.checkUsable()
	a.used = 0
}

// Cap returns the total capacity of a.
func (a *Arena[T]) Cap() int { return len(a.mem) }

// Used returns the number of values currently allocated.
func (a *Arena[T]) Used() int { return a.used }

// Available returns the number of values that can still be allocated.
func (a *Arena[T]) Available() int { return len(a.mem) - a.used }

// Peak returns the high-water mark of a, including pushed children.
func (a *Arena[T]) Peak() int { return a.peak }

func (a *Arena[T]) checkUsable() {
	if a.popped {
		panic("arena: use after pop")
	}
	if a.child != nil {
		panic("arena: parent used while a child is pushed")
	}
}
