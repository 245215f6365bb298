// ring_buffer.go — Generic fixed-capacity FIFO buffer.
// Holds the most recent N captured items; the oldest entry is overwritten
// when a push arrives at capacity.
// Thread-safe: all access guarded by RWMutex.
package buffers

import "sync"

// RingBuffer is a generic fixed-capacity circular buffer.
// Entries are evicted in FIFO order when capacity is reached.
type RingBuffer[T any] struct {
	mu sync.RWMutex

	entries  []T
	capacity int
	head     int // index where the next write goes once full
}

// NewRingBuffer creates a new ring buffer with the given capacity.
// A capacity below 1 is treated as 1.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{
		entries:  make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Push appends one entry and reports whether an older entry was evicted.
func (rb *RingBuffer[T]) Push(entry T) (evicted bool) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.pushLocked(entry)
}

func (rb *RingBuffer[T]) pushLocked(entry T) bool {
	if len(rb.entries) < rb.capacity {
		rb.entries = append(rb.entries, entry)
		rb.head = len(rb.entries) % rb.capacity
		return false
	}
	rb.entries[rb.head] = entry
	rb.head = (rb.head + 1) % rb.capacity
	return true
}

// ReadAll returns all entries currently in the buffer, oldest first.
func (rb *RingBuffer[T]) ReadAll() []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.orderedLocked()
}

func (rb *RingBuffer[T]) orderedLocked() []T {
	if len(rb.entries) == 0 {
		return nil
	}
	result := make([]T, len(rb.entries))
	if len(rb.entries) < rb.capacity {
		copy(result, rb.entries)
		return result
	}
	n := copy(result, rb.entries[rb.head:])
	copy(result[n:], rb.entries[:rb.head])
	return result
}

// Newest returns up to n entries, newest first. n <= 0 means all entries.
func (rb *RingBuffer[T]) Newest(n int) []T {
	all := rb.ReadAll()
	if n <= 0 || n > len(all) {
		n = len(all)
	}
	result := make([]T, 0, n)
	for i := len(all) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, all[i])
	}
	return result
}

// Len returns the number of entries currently in the buffer.
func (rb *RingBuffer[T]) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return len(rb.entries)
}

// Cap returns the buffer capacity.
func (rb *RingBuffer[T]) Cap() int {
	return rb.capacity // immutable
}

// Clear removes all entries from the buffer.
func (rb *RingBuffer[T]) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.entries = make([]T, 0, rb.capacity)
	rb.head = 0
}
