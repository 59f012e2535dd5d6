package immix

import "sync/atomic"

// Histogram accumulates, per hole count observed during a sweep, the
// number of still-marked lines across all swept blocks. The defragmenter
// (out of scope for this toolkit) consumes it to pick block budgets; the
// sweeper treats it as an opaque accumulator it only ever adds to.
//
// Many block sweeps can run concurrently across GC worker threads against
// the same Histogram for one cycle, so every bucket is an atomic counter
// rather than a plain slice element.
type Histogram struct {
	buckets []atomic.Uint64
}

// NewHistogram allocates a Histogram with one bucket per possible hole
// count in a block of linesPerBlock lines (indices 0..linesPerBlock
// inclusive).
func NewHistogram(linesPerBlock int) *Histogram {
	return &Histogram{buckets: make([]atomic.Uint64, linesPerBlock+1)}
}

// Add records that a block with the given number of holes contributed
// markedLines still-live lines.
func (h *Histogram) Add(holes int, markedLines int) {
	h.buckets[holes].Add(uint64(markedLines))
}

// Get returns the accumulated marked-line count for the given hole count.
func (h *Histogram) Get(holes int) uint64 {
	return h.buckets[holes].Load()
}

// Len returns the number of buckets (linesPerBlock + 1).
func (h *Histogram) Len() int {
	return len(h.buckets)
}

// Reset zeroes every bucket, for reuse across collection cycles.
func (h *Histogram) Reset() {
	for i := range h.buckets {
		h.buckets[i].Store(0)
	}
}
