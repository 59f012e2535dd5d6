// Package address provides the machine-word address type shared by every
// component of the toolkit, along with the alignment helpers the block,
// line and chunk abstractions are built on.
package address

// HeapAddress is an unsigned machine-word address into managed memory.
// It carries no information about what, if anything, lives there; the
// host VM's object model is the only thing that may dereference it.
type HeapAddress uintptr

// Zero is the address with no valid interpretation; it is never inside a
// live block and is used as the zero-value sentinel for "no address".
const Zero HeapAddress = 0

// Add returns the address offset by n bytes.
func (a HeapAddress) Add(n uintptr) HeapAddress {
	return a + HeapAddress(n)
}

// Sub returns the byte distance from other to a (a - other).
func (a HeapAddress) Sub(other HeapAddress) uintptr {
	return uintptr(a - other)
}

// AlignDown rounds a down to the nearest multiple of align, which must be
// a power of two.
func (a HeapAddress) AlignDown(align uintptr) HeapAddress {
	mask := HeapAddress(align - 1)
	return a &^ mask
}

// AlignUp rounds a up to the nearest multiple of align, which must be a
// power of two.
func (a HeapAddress) AlignUp(align uintptr) HeapAddress {
	return a.Add(align - 1).AlignDown(align)
}

// IsAlignedTo reports whether a is a multiple of align, which must be a
// power of two.
func (a HeapAddress) IsAlignedTo(align uintptr) bool {
	return uintptr(a)&(align-1) == 0
}

// BytesToPagesUp rounds a byte count up to a whole number of pages.
func BytesToPagesUp(bytes uintptr, pageSize uintptr) uintptr {
	return (bytes + pageSize - 1) / pageSize
}
