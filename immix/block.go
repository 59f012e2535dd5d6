package immix

import (
	"github.com/elise-palethorpe/gcplan/address"
	"github.com/elise-palethorpe/gcplan/gcerr"
	"github.com/elise-palethorpe/gcplan/sidemetadata"
	"github.com/elise-palethorpe/gcplan/vm"
)

const (
	// LogBytes is log2 of the block size: 32 KiB, 8 pages.
	LogBytes = 15
	// Bytes is the number of bytes in one block.
	Bytes = 1 << LogBytes
	// PageLogBytes is log2 of the page size this toolkit assumes (4 KiB);
	// only used to express LogPages/Pages in terms of it.
	PageLogBytes = 12
	// LogPages is log2 of the number of pages in one block.
	LogPages = LogBytes - PageLogBytes
	// Pages is the number of pages in one block.
	Pages = 1 << LogPages
	// LogLines is log2 of the number of lines in one block.
	LogLines = LogBytes - LineLogBytes
	// LinesPerBlock is the number of lines in one block: 128 by
	// convention (block size / line size).
	LinesPerBlock = 1 << LogLines
)

// blockStateTable is the one-byte side table encoding BlockState, using
// the mapping 0 -> Unallocated, 255 -> Unmarked, 254 -> Marked, any other
// value k -> Reusable{unavailable_lines: k}.
var blockStateTable = sidemetadata.NewTable(sidemetadata.SideMetadataSpec{
	Name:          "immix.block.state",
	IsGlobal:      false,
	LogNumOfBits:  3,
	LogMinObjSize: LogBytes,
})

// blockDefragTable is the one-byte side table shared between two
// purposes: the defrag-source sentinel (255) and the hole count (0..253)
// recorded by the last sweep. A block must never be read through the
// wrong accessor for the value currently stored there; Block's exported
// methods are the only allowed access path, and enforce the "never
// simultaneously a defrag source and Reusable" invariant at the call
// sites that could violate it.
var blockDefragTable = sidemetadata.NewTable(sidemetadata.SideMetadataSpec{
	Name:          "immix.block.defrag",
	IsGlobal:      false,
	LogNumOfBits:  3,
	LogMinObjSize: LogBytes,
})

const (
	stateByteUnallocated uint8 = 0
	stateByteMarked      uint8 = 254
	stateByteUnmarked    uint8 = 255
)

const defragSourceByte uint8 = 255

// stateKind discriminates the four logical block states; it never
// escapes this package's API, which instead exposes constructors and
// predicates on BlockState itself.
type stateKind uint8

const (
	kindUnallocated stateKind = iota
	kindUnmarked
	kindMarked
	kindReusable
)

// BlockState is one of Unallocated, Unmarked, Marked, or
// Reusable{UnavailableLines}, encoded bijectively into a single byte.
type BlockState struct {
	kind             stateKind
	unavailableLines uint8 // valid only when kind == kindReusable
}

// Unallocated is the state of a block that has not been allocated.
var Unallocated = BlockState{kind: kindUnallocated}

// Unmarked is the state of a block that is allocated but was not marked
// by the current collection.
var Unmarked = BlockState{kind: kindUnmarked}

// Marked is the state of a block that is allocated and was marked by the
// current collection.
var Marked = BlockState{kind: kindMarked}

// Reusable returns the state of a block with unavailableLines lines
// still live, available for line-granularity reuse by the allocator. The
// legal range the sweeper ever produces is 1..LinesPerBlock-1; the codec
// itself accepts any byte in 1..253 so that the byte<->state mapping
// stays bijective over its whole domain.
func Reusable(unavailableLines uint8) BlockState {
	return BlockState{kind: kindReusable, unavailableLines: unavailableLines}
}

// IsReusable reports whether s is a Reusable state.
func (s BlockState) IsReusable() bool { return s.kind == kindReusable }

// UnavailableLines returns the number of unavailable lines for a Reusable
// state; it is only meaningful when IsReusable() is true.
func (s BlockState) UnavailableLines() uint8 { return s.unavailableLines }

// Equal reports whether two states are the same.
func (s BlockState) Equal(other BlockState) bool {
	return s.kind == other.kind && (s.kind != kindReusable || s.unavailableLines == other.unavailableLines)
}

func (s BlockState) String() string {
	switch s.kind {
	case kindUnallocated:
		return "Unallocated"
	case kindUnmarked:
		return "Unmarked"
	case kindMarked:
		return "Marked"
	default:
		return "Reusable"
	}
}

// byte encodes s into its one-byte representation.
func (s BlockState) byte() uint8 {
	switch s.kind {
	case kindUnallocated:
		return stateByteUnallocated
	case kindUnmarked:
		return stateByteUnmarked
	case kindMarked:
		return stateByteMarked
	default:
		return s.unavailableLines
	}
}

// blockStateFromByte decodes a raw byte into a BlockState. It is the
// inverse of BlockState.byte and the pair round-trips for every legal
// byte value.
func blockStateFromByte(b uint8) BlockState {
	switch b {
	case stateByteUnallocated:
		return Unallocated
	case stateByteUnmarked:
		return Unmarked
	case stateByteMarked:
		return Marked
	default:
		return Reusable(b)
	}
}

// Block is a handle wrapping a HeapAddress aligned to 32 KiB (2^15
// bytes, 8 pages). All of its mutable state lives out-of-line in side
// metadata; the Block value itself is just the address.
type Block struct {
	addr address.HeapAddress
}

// Align rounds a down to the nearest block boundary.
func Align(a address.HeapAddress) address.HeapAddress {
	return a.AlignDown(Bytes)
}

// From returns the Block starting at the given address, which must
// already be block-aligned. A misaligned address is a host-binding bug.
func From(a address.HeapAddress) Block {
	if !a.IsAlignedTo(Bytes) {
		panic(gcerr.Newf(gcerr.InvalidObjectReference, "block address %#x is not block-aligned", uintptr(a)))
	}
	return Block{addr: a}
}

// Containing returns the Block containing obj's address.
func Containing(obj vm.ObjectReference, om vm.ObjectModel) Block {
	return Block{addr: Align(om.RefToAddress(obj))}
}

// Start returns the block's first address.
func (b Block) Start() address.HeapAddress { return b.addr }

// End returns the address one past the block's last byte.
func (b Block) End() address.HeapAddress { return b.addr.Add(Bytes) }

// Chunk returns the chunk containing the block.
func (b Block) Chunk() Chunk { return ChunkFrom(b.addr) }

// Equal reports whether two blocks are the same.
func (b Block) Equal(other Block) bool { return b.addr == other.addr }

// GetState loads the block's mark-table byte and decodes it.
func (b Block) GetState() BlockState {
	return blockStateFromByte(blockStateTable.LoadAtomic(uintptr(b.addr)))
}

// SetState encodes and stores s into the block's mark-table byte.
func (b Block) SetState(s BlockState) {
	blockStateTable.StoreAtomic(uintptr(b.addr), s.byte())
}

// IsDefragSource reports whether the block is marked as a
// defragmentation source.
func (b Block) IsDefragSource() bool {
	return blockDefragTable.LoadAtomic(uintptr(b.addr)) == defragSourceByte
}

// SetAsDefragSource marks or unmarks the block as a defragmentation
// source. Marking a Reusable block as a defrag source would violate the
// invariant that the two states are never simultaneous, so that case
// panics with a wrapped MetadataInvariantViolation rather than silently
// corrupting the shared byte.
func (b Block) SetAsDefragSource(defrag bool) {
	if defrag && b.GetState().IsReusable() {
		panic(gcerr.New(gcerr.MetadataInvariantViolation, "cannot mark a Reusable block as a defrag source"))
	}
	value := uint8(0)
	if defrag {
		value = defragSourceByte
	}
	blockDefragTable.StoreAtomic(uintptr(b.addr), value)
}

// GetHoles returns the number of holes recorded during the last sweep.
// It panics if the block is currently marked as a defrag source: the
// shared byte holds the defrag sentinel, not a hole count, and reading it
// as one is always a caller bug (hole recording and defrag marking must
// never be interleaved on the same block).
func (b Block) GetHoles() uint8 {
	raw := blockDefragTable.LoadAtomic(uintptr(b.addr))
	if raw == defragSourceByte {
		panic(gcerr.New(gcerr.MetadataInvariantViolation, "GetHoles called on a block marked as a defrag source"))
	}
	return raw
}

// SetHoles records the number of holes found during the current sweep.
// It panics if the block is currently marked as a defrag source, for the
// same reason GetHoles does.
func (b Block) SetHoles(holes uint8) {
	if b.IsDefragSource() {
		panic(gcerr.New(gcerr.MetadataInvariantViolation, "SetHoles called on a block marked as a defrag source"))
	}
	blockDefragTable.StoreAtomic(uintptr(b.addr), holes)
}

// Init initializes a clean block just acquired from the page resource.
// copy selects whether the block was acquired for a mutator allocation
// (Unmarked) or a copy allocation (Marked); the defrag/holes byte is
// always zeroed.
func (b Block) Init(copy bool) {
	if copy {
		b.SetState(Marked)
	} else {
		b.SetState(Unmarked)
	}
	blockDefragTable.StoreAtomic(uintptr(b.addr), 0)
}

// Deinit marks the block Unallocated before its pages are returned to
// the page resource.
func (b Block) Deinit() {
	b.SetState(Unallocated)
}

// Lines returns the block's lines in address order.
func (b Block) Lines() []Line {
	lines := make([]Line, LinesPerBlock)
	addr := b.addr
	for i := range lines {
		lines[i] = LineFrom(addr)
		addr = addr.Add(LineBytes)
	}
	return lines
}

// Range is an explicit, iterable span of consecutive blocks, used in
// place of operator-overloaded arithmetic between Block values.
type Range struct {
	start, end Block // [start, end)
}

// NewRange returns the range of blocks [start, end).
func NewRange(start, end Block) Range {
	return Range{start: start, end: end}
}

// Len returns the number of blocks in the range.
func (r Range) Len() int {
	if r.end.addr <= r.start.addr {
		return 0
	}
	return int(r.end.addr.Sub(r.start.addr)) >> LogBytes
}

// At returns the i-th block in the range.
func (r Range) At(i int) Block {
	return Block{addr: r.start.addr.Add(uintptr(i) << LogBytes)}
}

// ForEach calls f for every block in the range, in address order.
func (r Range) ForEach(f func(Block)) {
	n := r.Len()
	for i := 0; i < n; i++ {
		f(r.At(i))
	}
}
