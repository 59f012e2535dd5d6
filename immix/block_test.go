package immix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elise-palethorpe/gcplan/address"
	"github.com/elise-palethorpe/gcplan/gcerr"
	"github.com/elise-palethorpe/gcplan/vm"
	"github.com/elise-palethorpe/gcplan/vm/vmtest"
)

func blockAddr(n uintptr) address.HeapAddress {
	return address.HeapAddress(n << LogBytes)
}

func TestBlockStateByteRoundTrip(t *testing.T) {
	cases := []BlockState{Unallocated, Unmarked, Marked, Reusable(1), Reusable(253)}
	for _, s := range cases {
		assert.True(t, s.Equal(blockStateFromByte(s.byte())))
	}
}

func TestBlockStateBoundaryBytes(t *testing.T) {
	assert.True(t, blockStateFromByte(0).Equal(Unallocated))
	assert.True(t, blockStateFromByte(254).Equal(Marked))
	assert.True(t, blockStateFromByte(255).Equal(Unmarked))
	assert.True(t, blockStateFromByte(1).Equal(Reusable(1)))
	assert.True(t, blockStateFromByte(253).Equal(Reusable(253)))
}

func TestFromRejectsMisalignedAddress(t *testing.T) {
	assert.Panics(t, func() {
		From(blockAddr(1).Add(1))
	})
}

func TestGetSetState(t *testing.T) {
	b := From(blockAddr(10))
	b.SetState(Marked)
	assert.True(t, b.GetState().Equal(Marked))
	b.SetState(Reusable(5))
	assert.True(t, b.GetState().Equal(Reusable(5)))
}

func TestInitDeinit(t *testing.T) {
	b := From(blockAddr(11))
	b.Init(false)
	assert.True(t, b.GetState().Equal(Unmarked))
	b.Init(true)
	assert.True(t, b.GetState().Equal(Marked))
	b.Deinit()
	assert.True(t, b.GetState().Equal(Unallocated))
}

func TestHolesRoundTrip(t *testing.T) {
	b := From(blockAddr(12))
	b.Init(false)
	for n := uint8(0); n < 254; n++ {
		b.SetHoles(n)
		require.Equal(t, n, b.GetHoles())
	}
}

func TestDefragSourceRoundTrip(t *testing.T) {
	b := From(blockAddr(13))
	b.Init(false)
	b.SetAsDefragSource(true)
	assert.True(t, b.IsDefragSource())
	b.SetAsDefragSource(false)
	assert.False(t, b.IsDefragSource())
}

func TestGetHolesPanicsWhenDefragSource(t *testing.T) {
	b := From(blockAddr(14))
	b.Init(false)
	b.SetAsDefragSource(true)
	assert.Panics(t, func() { b.GetHoles() })
}

func TestSetHolesPanicsWhenDefragSource(t *testing.T) {
	b := From(blockAddr(15))
	b.Init(false)
	b.SetAsDefragSource(true)
	assert.Panics(t, func() { b.SetHoles(3) })
}

func TestSetAsDefragSourcePanicsWhenReusable(t *testing.T) {
	b := From(blockAddr(16))
	b.SetState(Reusable(10))
	assert.Panics(t, func() { b.SetAsDefragSource(true) })
}

func TestContainingFindsEnclosingBlock(t *testing.T) {
	base := blockAddr(20)
	om := vmtest.ObjectModel{}
	obj := vm.ObjectReference(base.Add(100))
	b := Containing(obj, om)
	assert.Equal(t, base, b.Start())
}

func TestStartEndChunk(t *testing.T) {
	b := From(blockAddr(30))
	assert.Equal(t, blockAddr(30), b.Start())
	assert.Equal(t, blockAddr(30).Add(Bytes), b.End())
	assert.Equal(t, ChunkFrom(blockAddr(30)), b.Chunk())
}

func TestLinesCoversWholeBlock(t *testing.T) {
	b := From(blockAddr(40))
	lines := b.Lines()
	require.Len(t, lines, LinesPerBlock)
	assert.Equal(t, b.Start(), lines[0].Start())
	assert.Equal(t, b.Start().Add(uintptr(LinesPerBlock-1)*LineBytes), lines[LinesPerBlock-1].Start())
}

func TestRange(t *testing.T) {
	start := From(blockAddr(50))
	end := From(blockAddr(53))
	r := NewRange(start, end)
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.At(0).Equal(start))
	assert.True(t, r.At(2).Equal(From(blockAddr(52))))

	var visited []Block
	r.ForEach(func(b Block) { visited = append(visited, b) })
	assert.Len(t, visited, 3)
}

func TestEmptyRange(t *testing.T) {
	b := From(blockAddr(60))
	r := NewRange(b, b)
	assert.Equal(t, 0, r.Len())
}

func TestFromPanicCarriesInvalidObjectReferenceKind(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, gcerr.Is(err, gcerr.InvalidObjectReference))
	}()
	From(blockAddr(1).Add(1))
}
