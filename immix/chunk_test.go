package immix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elise-palethorpe/gcplan/address"
)

func TestChunkAlign(t *testing.T) {
	a := address.HeapAddress(3 * ChunkBytes).Add(123)
	assert.Equal(t, address.HeapAddress(3*ChunkBytes), ChunkAlign(a))
}

func TestBlockChunkMembership(t *testing.T) {
	chunkStart := address.HeapAddress(5 * ChunkBytes)
	b := From(chunkStart.Add(2 * Bytes))
	assert.Equal(t, ChunkFrom(chunkStart), b.Chunk())
}
