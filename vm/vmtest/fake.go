// Package vmtest provides a minimal, in-memory stand-in for a host VM
// binding so the core's unit tests can exercise copyspace.Nursery and
// gen.Gen without a real VM.
package vmtest

import (
	"sync"

	"github.com/elise-palethorpe/gcplan/address"
	"github.com/elise-palethorpe/gcplan/vm"
)

// ObjectModel is a fake vm.ObjectModel where every reference's address is
// just its uintptr value; it exists purely so tests can use synthetic
// ObjectReference values without a real heap.
type ObjectModel struct{}

func (ObjectModel) RefToAddress(obj vm.ObjectReference) address.HeapAddress {
	return address.HeapAddress(obj)
}

// CopyContext is a fake vm.CopyContext that bump-allocates from an
// in-process arena and "copies" objects by recording which source
// address landed at which destination address, which is all the tests
// need to assert copy-once semantics.
type CopyContext struct {
	mu     sync.Mutex
	next   address.HeapAddress
	copies map[vm.ObjectReference]address.HeapAddress
}

// NewCopyContext returns a CopyContext that allocates starting at base.
func NewCopyContext(base address.HeapAddress) *CopyContext {
	return &CopyContext{next: base, copies: make(map[vm.ObjectReference]address.HeapAddress)}
}

// objectBytes is the fake, fixed object size used by tests; a real
// CopyContext would ask the host object model for obj's actual size.
const objectBytes = 64

func (c *CopyContext) AllocCopy(obj vm.ObjectReference) address.HeapAddress {
	c.mu.Lock()
	defer c.mu.Unlock()
	dst := c.next
	c.next = dst.Add(objectBytes)
	return dst
}

func (c *CopyContext) CopyObject(obj vm.ObjectReference, dst address.HeapAddress) vm.ObjectReference {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copies[obj] = dst
	return vm.ObjectReference(dst)
}

// CopiedTo returns the destination a given source object was copied to,
// if any.
func (c *CopyContext) CopiedTo(obj vm.ObjectReference) (address.HeapAddress, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	dst, ok := c.copies[obj]
	return dst, ok
}
