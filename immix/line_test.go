package immix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elise-palethorpe/gcplan/address"
)

func lineAddr(n uintptr) address.HeapAddress {
	return address.HeapAddress(n << LineLogBytes)
}

func TestLineMarkRoundTrip(t *testing.T) {
	l := LineFrom(lineAddr(200))
	assert.False(t, l.IsMarked(1))
	l.Mark(1)
	assert.True(t, l.IsMarked(1))
	assert.False(t, l.IsMarked(2))
}

func TestLineClearMark(t *testing.T) {
	l := LineFrom(lineAddr(201))
	l.Mark(1)
	l.ClearMark()
	assert.False(t, l.IsMarked(1))
	assert.False(t, l.IsMarked(0))
}

func TestLineAlign(t *testing.T) {
	a := lineAddr(202).Add(37)
	assert.Equal(t, lineAddr(202), LineAlign(a))
}
