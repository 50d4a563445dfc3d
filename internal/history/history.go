// Package history provides a fixed-capacity FIFO of float64 samples.
package history

// Bounded keeps the most recent Cap() samples in insertion order.
// Appending to a full buffer evicts the oldest sample. Not safe for concurrent use.
type Bounded struct {
	buf   []float64
	start int
	size  int
}

// New creates an empty buffer. A capacity below one is raised to one.
func New(capacity int) *Bounded {
	if capacity < 1 {
		capacity = 1
	}

	return &Bounded{
		buf:   make([]float64, capacity),
		start: 0,
		size:  0,
	}
}

// FromValues creates a buffer holding values in order. When values exceed the
// capacity only the newest ones are kept.
func FromValues(capacity int, values []float64) *Bounded {
	b := New(capacity)
	for _, v := range values {
		b.Append(v)
	}

	return b
}

// Append adds v as the newest sample.
func (b *Bounded) Append(v float64) {
	capacity := len(b.buf)
	if b.size < capacity {
		b.buf[(b.start+b.size)%capacity] = v
		b.size++

		return
	}

	b.buf[b.start] = v
	b.start = (b.start + 1) % capacity
}

// Len returns the number of samples held.
func (b *Bounded) Len() int {
	return b.size
}

// Cap returns the maximum number of samples held.
func (b *Bounded) Cap() int {
	return len(b.buf)
}

// Values returns a copy of the samples, oldest first.
func (b *Bounded) Values() []float64 {
	out := make([]float64, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.buf[(b.start+i)%len(b.buf)]
	}

	return out
}

// Last returns the newest sample.
func (b *Bounded) Last() (float64, bool) {
	if b.size == 0 {
		return 0, false
	}

	return b.buf[(b.start+b.size-1)%len(b.buf)], true
}
