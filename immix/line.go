package immix

import (
	"github.com/elise-palethorpe/gcplan/address"
	"github.com/elise-palethorpe/gcplan/sidemetadata"
)

const (
	// LineLogBytes is log2 of the line size: 256 bytes.
	LineLogBytes = 8
	// LineBytes is the number of bytes in one line.
	LineBytes = 1 << LineLogBytes
)

// lineMarkTable is the per-line, one-byte mark table: "marked" means the
// current collection's mark epoch value equals the stored byte.
var lineMarkTable = sidemetadata.NewTable(sidemetadata.SideMetadataSpec{
	Name:          "immix.line.mark",
	IsGlobal:      false,
	LogNumOfBits:  3,
	LogMinObjSize: LineLogBytes,
})

// Line is a fixed subdivision of a Block; LinesPerBlock of them make up
// one block.
type Line struct {
	addr address.HeapAddress
}

// LineAlign rounds a down to the nearest line boundary.
func LineAlign(a address.HeapAddress) address.HeapAddress {
	return a.AlignDown(LineBytes)
}

// LineFrom returns the Line at the given line-aligned address.
func LineFrom(a address.HeapAddress) Line {
	return Line{addr: LineAlign(a)}
}

// Start returns the line's first address.
func (l Line) Start() address.HeapAddress { return l.addr }

// IsMarked reports whether the line's stored mark byte equals the
// current mark epoch value.
func (l Line) IsMarked(markState uint8) bool {
	return lineMarkTable.LoadAtomic(uintptr(l.addr)) == markState
}

// Mark stamps the line with the current mark epoch value.
func (l Line) Mark(markState uint8) {
	lineMarkTable.StoreAtomic(uintptr(l.addr), markState)
}

// ClearMark resets the line's mark byte to zero, so that it is unmarked
// with respect to every possible non-zero epoch value.
func (l Line) ClearMark() {
	lineMarkTable.StoreAtomic(uintptr(l.addr), 0)
}
