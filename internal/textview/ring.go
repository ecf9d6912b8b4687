package textview

// RingBuffer is a generic FIFO buffer with fixed capacity
type RingBuffer[T any] struct {
	data     []T
	capacity int
	head     int
	size     int
}

// NewRingBuffer creates a new ring buffer with the given capacity
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	return &RingBuffer[T]{
		data:     make([]T, capacity),
		capacity: capacity,
	}
}

// Push adds an item, overwriting the oldest one if the buffer is full.
// It reports whether an item was evicted.
func (rb *RingBuffer[T]) Push(item T) bool {
	rb.data[rb.head] = item
	rb.head = (rb.head + 1) % rb.capacity
	if rb.size < rb.capacity {
		rb.size++
		return false
	}
	return true
}

// At returns the i-th item counting from the oldest.
func (rb *RingBuffer[T]) At(i int) T {
	start := (rb.head - rb.size + rb.capacity) % rb.capacity
	return rb.data[(start+i)%rb.capacity]
}

// Slice returns items [from, to) counting from the oldest. Bounds are clamped.
func (rb *RingBuffer[T]) Slice(from, to int) []T {
	from = max(from, 0)
	to = min(to, rb.size)
	if from >= to {
		return nil
	}
	out := make([]T, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, rb.At(i))
	}
	return out
}

// GetAll returns all items in the ring buffer (oldest to newest)
func (rb *RingBuffer[T]) GetAll() []T {
	return rb.Slice(0, rb.size)
}

// Size returns the current number of items in the buffer
func (rb *RingBuffer[T]) Size() int {
	return rb.size
}

// Capacity returns the maximum number of items the buffer holds.
func (rb *RingBuffer[T]) Capacity() int {
	return rb.capacity
}

// Reset drops every item.
func (rb *RingBuffer[T]) Reset() {
	var zero T
	for i := range rb.data {
		rb.data[i] = zero
	}
	rb.head = 0
	rb.size = 0
}
