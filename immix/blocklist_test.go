package immix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockListPushPopIsLIFO(t *testing.T) {
	var l BlockList
	a := From(blockAddr(1))
	b := From(blockAddr(2))
	l.Push(a)
	l.Push(b)
	require.Equal(t, 2, l.Len())

	got, ok := l.Pop()
	require.True(t, ok)
	assert.True(t, got.Equal(b))

	got, ok = l.Pop()
	require.True(t, ok)
	assert.True(t, got.Equal(a))

	_, ok = l.Pop()
	assert.False(t, ok)
}

func TestBlockListSnapshotIsACopy(t *testing.T) {
	var l BlockList
	l.Push(From(blockAddr(1)))
	snap := l.Snapshot()
	l.Push(From(blockAddr(2)))
	assert.Len(t, snap, 1)
	assert.Equal(t, 2, l.Len())
}

func TestBlockListReset(t *testing.T) {
	var l BlockList
	l.Push(From(blockAddr(1)))
	l.Reset()
	assert.Equal(t, 0, l.Len())
}
