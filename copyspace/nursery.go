// Package copyspace implements the fixed-extent, bump-evacuation region
// used as the nursery in a generational plan: prepare/release hooks that
// flip semispace copy direction, reserved-page accounting, and an
// atomic forward-or-copy trace_object entry point that copies each
// source object at most once even under concurrent tracing.
package copyspace

import (
	"sync"
	"sync/atomic"

	"github.com/elise-palethorpe/gcplan/address"
	"github.com/elise-palethorpe/gcplan/vm"
)

// forwardStatus tracks where one object is in the forward-or-copy
// protocol: the first worker to reach an object claims it, copies it,
// then publishes the result; every subsequent worker blocks until the
// result is published and then returns it. This mirrors the forwarding
// pointer CAS a real object header would carry, simulated out-of-line
// since the host object model (and its header layout) is out of scope
// for this toolkit.
type forwardStatus int32

const (
	notForwarded forwardStatus = iota
	beingForwarded
	forwarded
)

type forwardRecord struct {
	status atomic.Int32
	result vm.ObjectReference
	ready  chan struct{}
}

// Nursery is a fixed-extent evacuation space.
type Nursery struct {
	descriptor string
	start      address.HeapAddress
	extent     uintptr
	pageSize   uintptr

	reservedPages atomic.Uint64

	// fromLowHalf selects which half of the fixed extent is the current
	// fromspace; Prepare(true) flips it, mimicking semispace-style copy
	// direction without requiring two separately-mapped spaces.
	fromLowHalf atomic.Bool

	recordsMu sync.Mutex
	records   map[vm.ObjectReference]*forwardRecord
}

// New constructs a Nursery occupying [start, start+extent), the range
// InSpace checks, with the given descriptor identity, which Descriptor
// returns.
func New(descriptor string, start address.HeapAddress, extent uintptr, pageSize uintptr) *Nursery {
	return &Nursery{
		descriptor: descriptor,
		start:      start,
		extent:     extent,
		pageSize:   pageSize,
		records:    make(map[vm.ObjectReference]*forwardRecord),
	}
}

// Descriptor returns the space's identity, used by Gen.CollectionRequired
// to tell whether the space reporting "full" is the nursery itself.
func (n *Nursery) Descriptor() string { return n.descriptor }

// ReservedPages returns the pages currently reserved for the copy
// reserve plus live data.
func (n *Nursery) ReservedPages() uintptr {
	return uintptr(n.reservedPages.Load())
}

// Reserve records additional pages as reserved, e.g. as the bump
// allocator claims more of the current semispace half.
func (n *Nursery) Reserve(pages uintptr) {
	n.reservedPages.Add(uint64(pages))
}

// InSpace reports whether obj's address lies within the nursery's fixed
// extent.
func (n *Nursery) InSpace(obj vm.ObjectReference) bool {
	addr := address.HeapAddress(obj)
	return addr >= n.start && addr.Sub(n.start) < n.extent
}

// Prepare flips the tospace/fromspace direction when flip is true and
// clears per-cycle forwarding state. The nursery always flips on every
// GC per the generational coordinator's prepare sequencing.
func (n *Nursery) Prepare(flip bool) {
	if flip {
		n.fromLowHalf.Store(!n.fromLowHalf.Load())
	}
	n.recordsMu.Lock()
	n.records = make(map[vm.ObjectReference]*forwardRecord)
	n.recordsMu.Unlock()
}

// Release returns fromspace pages to the page resource by resetting the
// reserved-page count; the page resource itself is an external
// collaborator and is not modeled here.
func (n *Nursery) Release() {
	n.reservedPages.Store(0)
}

// TraceObject implements the atomic forward-or-copy protocol: on first
// visit it copies obj via cctx, installs a forwarding pointer, and
// returns the new address; on every subsequent visit (including
// concurrent ones from other GC workers) it returns the already-installed
// forwarding pointer without copying again.
func (n *Nursery) TraceObject(trace vm.Trace, obj vm.ObjectReference, semantics vm.AllocationSemantics, cctx vm.CopyContext) vm.ObjectReference {
	rec := n.recordFor(obj)

	if rec.status.CompareAndSwap(int32(notForwarded), int32(beingForwarded)) {
		dst := cctx.AllocCopy(obj)
		newRef := cctx.CopyObject(obj, dst)
		rec.result = newRef
		rec.status.Store(int32(forwarded))
		close(rec.ready)
		return newRef
	}

	<-rec.ready
	return rec.result
}

func (n *Nursery) recordFor(obj vm.ObjectReference) *forwardRecord {
	n.recordsMu.Lock()
	defer n.recordsMu.Unlock()
	if rec, ok := n.records[obj]; ok {
		return rec
	}
	rec := &forwardRecord{ready: make(chan struct{})}
	n.records[obj] = rec
	return rec
}
