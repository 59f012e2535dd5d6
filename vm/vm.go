// Package vm declares the capability set the toolkit requires of a host
// VM binding. These are the "Toolkit → host-VM" interfaces from the
// external-interfaces design: a way to project an object reference to an
// address, a way to enumerate roots, and a copy context that can
// allocate into the mature space and copy objects there. The core never
// implements these itself; it only calls through them.
package vm

import "github.com/elise-palethorpe/gcplan/address"

// ObjectReference is the opaque handle the host object model hands the
// toolkit. Its only canonical projection is ref_to_address; the toolkit
// never interprets its bits directly.
type ObjectReference uintptr

// IsNil reports whether the reference is the null reference.
func (r ObjectReference) IsNil() bool { return r == 0 }

// AllocationSemantics distinguishes the kind of allocation a copy should
// use; the core only ever requests Default, but the type exists so a
// host binding's CopyContext can dispatch on it like a real plan would.
type AllocationSemantics int

const (
	// AllocDefault is the common case: promote into whatever space the
	// binding designates as the default mature destination.
	AllocDefault AllocationSemantics = iota
)

// ObjectModel is the minimal projection the toolkit needs from the host's
// object model.
type ObjectModel interface {
	// RefToAddress returns the canonical address of obj.
	RefToAddress(obj ObjectReference) address.HeapAddress
}

// RootEnumerator lets the host VM hand the toolkit its roots; the core
// itself never walks thread stacks or globals.
type RootEnumerator interface {
	EnumerateRoots(visit func(ObjectReference))
}

// CopyContext is supplied by the host binding per GC worker and knows how
// to allocate space for, and physically copy, an object being evacuated.
// It does not install the forwarding pointer itself; that bookkeeping is
// owned by the space doing the copying (see copyspace.Nursery), which
// guarantees each source object is copied at most once even when many
// workers trace it concurrently.
type CopyContext interface {
	// AllocCopy reserves space for a copy of obj, sized and aligned
	// according to whatever the host's object model reports for obj, and
	// returns the destination address. Object sizing is the host object
	// model's responsibility, not this toolkit's.
	AllocCopy(obj ObjectReference) address.HeapAddress
	// CopyObject physically copies obj's contents to dst and returns the
	// new reference that lives there.
	CopyObject(obj ObjectReference, dst address.HeapAddress) ObjectReference
}

// Trace represents the host's transitive closure / work-packet machinery.
// The core never inspects it; components like copyspace.Nursery accept
// it in their signatures but do not use it.
type Trace interface{}
