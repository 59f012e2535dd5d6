// Package sidemetadata implements the atomic accessor over per-region
// shadow tables that every other component keys off an address: the
// Immix block-state and defrag-state bytes (immix.Block), and the
// per-line mark byte (immix.Line), are each one SideMetadataSpec backed
// by one Table.
//
// A real MMTk-style implementation carves all side-metadata tables out of
// one contiguous mapped region computed from SideMetadataSpec.Offset, so
// that the shadow address for a tracked address is pure arithmetic over a
// shared base. This toolkit has no page-resource or virtual-memory layer
// of its own (that is explicitly an external collaborator), so each Table
// instead owns an independent, lazily-populated backing store keyed by
// shadow index; Offset is kept on the spec for API fidelity and so a host
// binding that does own real side-metadata memory can lay specs out the
// same way, but this package's Table does not interpret it.
package sidemetadata

import (
	"sync/atomic"

	"github.com/elise-palethorpe/gcplan/internal/lock"
)

// SideMetadataSpec describes one shadow table: how many bits each tracked
// unit occupies, and the granularity (in address bits) at which units are
// tracked.
type SideMetadataSpec struct {
	// Name identifies the spec for diagnostics only.
	Name string
	// IsGlobal is true for metadata shared across spaces (as opposed to
	// local to one space); the toolkit does not currently branch on it,
	// but it is part of the data the spec carries in the design.
	IsGlobal bool
	// Offset is this spec's position in a real contiguous side-metadata
	// layout, either absolute or computed via LayoutAfter. See the
	// package doc for why Table does not use it directly.
	Offset uintptr
	// LogNumOfBits is log2 of the number of bits stored per tracked unit.
	// Every spec in this toolkit uses a full byte (LogNumOfBits == 3).
	LogNumOfBits uint
	// LogMinObjSize is log2 of the address granularity at which the
	// table is indexed (e.g. immix.LogBytes for a per-block table).
	LogMinObjSize uint
}

// LayoutAfter returns a copy of spec whose Offset is prev's Offset plus
// the bit width of one of prev's entries. The size of prev's whole table
// is not taken into account.
func LayoutAfter(prev SideMetadataSpec, spec SideMetadataSpec) SideMetadataSpec {
	bitsPerEntry := uintptr(1) << prev.LogNumOfBits
	spec.Offset = prev.Offset + bitsPerEntry
	return spec
}

// cell holds one tracked unit's value. Only the low 8 bits are
// meaningful; every spec in this toolkit is byte-sized, and Load/Store
// mask accordingly.
type cell struct {
	v atomic.Uint32
}

// Table is the shadow table backing one SideMetadataSpec. The zero value
// of an entry that has never been stored to is 0, which is exactly the
// "Unallocated" / "not a defrag source, zero holes" default every
// component in this toolkit expects of a freshly-zeroed side-metadata
// byte.
type Table struct {
	spec SideMetadataSpec

	mu    lock.RWMutex
	cells map[uintptr]*cell
}

// NewTable allocates a Table for spec.
func NewTable(spec SideMetadataSpec) *Table {
	return &Table{spec: spec, cells: make(map[uintptr]*cell)}
}

// Spec returns the spec this table was constructed from.
func (t *Table) Spec() SideMetadataSpec { return t.spec }

func (t *Table) shadowIndex(addr uintptr) uintptr {
	return addr >> t.spec.LogMinObjSize
}

func (t *Table) cellFor(addr uintptr) *cell {
	idx := t.shadowIndex(addr)

	t.mu.RLock()
	c, ok := t.cells[idx]
	t.mu.RUnlock()
	if ok {
		return c
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if c, ok := t.cells[idx]; ok {
		return c
	}
	c = &cell{}
	t.cells[idx] = c
	return c
}

// LoadAtomic reads the byte stored for addr. All accesses use
// sequentially consistent ordering: the toolkit does not assume a weaker
// model suffices for metadata transitions observed across GC workers.
func (t *Table) LoadAtomic(addr uintptr) uint8 {
	return uint8(t.cellFor(addr).v.Load())
}

// StoreAtomic writes the byte for addr.
func (t *Table) StoreAtomic(addr uintptr, value uint8) {
	t.cellFor(addr).v.Store(uint32(value))
}

// CompareAndSwap atomically updates addr's byte from old to new, and
// reports whether it did.
func (t *Table) CompareAndSwap(addr uintptr, old, new uint8) bool {
	return t.cellFor(addr).v.CompareAndSwap(uint32(old), uint32(new))
}
