package immix

import "github.com/elise-palethorpe/gcplan/address"

const (
	// ChunkLogBytes is log2 of the chunk size: 4 MiB, a coarser grouping
	// of blocks used only for addressing.
	ChunkLogBytes = 22
	// ChunkBytes is the number of bytes in one chunk.
	ChunkBytes = 1 << ChunkLogBytes
)

// Chunk is a coarser address-aligned grouping of blocks, used only as an
// addressing parent.
type Chunk struct {
	addr address.HeapAddress
}

// ChunkAlign rounds a down to the nearest chunk boundary.
func ChunkAlign(a address.HeapAddress) address.HeapAddress {
	return a.AlignDown(ChunkBytes)
}

// ChunkFrom returns the Chunk at the given chunk-aligned address.
func ChunkFrom(a address.HeapAddress) Chunk {
	return Chunk{addr: ChunkAlign(a)}
}

// Start returns the chunk's first address.
func (c Chunk) Start() address.HeapAddress { return c.addr }
