package console

import "sync"

// DefaultCapacity is the number of diagnostic lines retained for crash reports.
const DefaultCapacity = 100

// RingBuffer is a fixed-capacity FIFO buffer. Once full, each Push evicts the
// oldest entry. Insertion order is preserved.
type RingBuffer[T any] struct {
	mu    sync.Mutex
	items []T
	start int
	size  int
}

// NewRingBuffer creates a buffer holding at most capacity entries.
// A non-positive capacity falls back to DefaultCapacity.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RingBuffer[T]{items: make([]T, capacity)}
}

// Push appends v, evicting the oldest entry when the buffer is full.
func (b *RingBuffer[T]) Push(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := (b.start + b.size) % len(b.items)
	b.items[idx] = v
	if b.size < len(b.items) {
		b.size++
		return
	}
	b.start = (b.start + 1) % len(b.items)
}

// Snapshot returns a copy of the current contents, oldest first.
func (b *RingBuffer[T]) Snapshot() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.start+i)%len(b.items)]
	}
	return out
}

func (b *RingBuffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

func (b *RingBuffer[T]) Cap() int {
	return len(b.items)
}

// Reset drops every entry.
func (b *RingBuffer[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.start, b.size = 0, 0
}
