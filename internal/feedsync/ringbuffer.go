package feedsync

import "sync"

// RingBuffer keeps the last N pushed items and hands them back newest first.
type RingBuffer[T any] struct {
	mu    sync.RWMutex
	items []T
	next  int // slot the next Push writes
	full  bool
}

// NewRingBuffer creates a buffer holding at most capacity items (minimum 1).
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	return &RingBuffer[T]{items: make([]T, max(capacity, 1))}
}

// Push stores item, evicting the oldest one when the buffer is full.
func (r *RingBuffer[T]) Push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.next] = item
	r.next++
	if r.next == len(r.items) {
		r.next = 0
		r.full = true
	}
}

// Newest returns a copy of the stored items, most recently pushed first.
func (r *RingBuffer[T]) Newest() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := r.len()
	out := make([]T, n)
	for i := 0; i < n; i++ {
		idx := r.next - 1 - i
		if idx < 0 {
			idx += len(r.items)
		}
		out[i] = r.items[idx]
	}
	return out
}

// Len returns the number of stored items.
func (r *RingBuffer[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.len()
}

func (r *RingBuffer[T]) len() int {
	if r.full {
		return len(r.items)
	}
	return r.next
}
