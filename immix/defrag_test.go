package immix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistogramAddAndGet(t *testing.T) {
	h := NewHistogram(LinesPerBlock)
	h.Add(2, 7)
	h.Add(2, 3)
	assert.Equal(t, uint64(10), h.Get(2))
	assert.Equal(t, uint64(0), h.Get(3))
}

func TestHistogramReset(t *testing.T) {
	h := NewHistogram(LinesPerBlock)
	h.Add(1, 5)
	h.Reset()
	assert.Equal(t, uint64(0), h.Get(1))
}

func TestHistogramLen(t *testing.T) {
	h := NewHistogram(LinesPerBlock)
	assert.Equal(t, LinesPerBlock+1, h.Len())
}
