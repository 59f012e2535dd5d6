package address

import "testing"

import "github.com/stretchr/testify/assert"

func TestAlignDown(t *testing.T) {
	assert.Equal(t, HeapAddress(0x1000), HeapAddress(0x1abc).AlignDown(0x1000))
	assert.Equal(t, HeapAddress(0x1000), HeapAddress(0x1000).AlignDown(0x1000))
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, HeapAddress(0x2000), HeapAddress(0x1abc).AlignUp(0x1000))
	assert.Equal(t, HeapAddress(0x1000), HeapAddress(0x1000).AlignUp(0x1000))
}

func TestIsAlignedTo(t *testing.T) {
	assert.True(t, HeapAddress(0x4000).IsAlignedTo(0x1000))
	assert.False(t, HeapAddress(0x4001).IsAlignedTo(0x1000))
}

func TestAddSub(t *testing.T) {
	a := HeapAddress(0x1000)
	b := a.Add(0x500)
	assert.Equal(t, HeapAddress(0x1500), b)
	assert.Equal(t, uintptr(0x500), b.Sub(a))
}

func TestBytesToPagesUp(t *testing.T) {
	assert.Equal(t, uintptr(1), BytesToPagesUp(1, 4096))
	assert.Equal(t, uintptr(1), BytesToPagesUp(4096, 4096))
	assert.Equal(t, uintptr(2), BytesToPagesUp(4097, 4096))
	assert.Equal(t, uintptr(0), BytesToPagesUp(0, 4096))
}
