// Package gen implements the generational plan coordinator: the policy
// engine that decides whether a collection is needed, whether it is a
// minor (nursery-only) or full-heap collection, and how objects are
// traced during each mode. It owns the two atomic latches that record
// the current and next collection's mode and delegates everything else
// to the nursery copy-space and a host-supplied CommonPlan.
package gen

import (
	"sync/atomic"

	"github.com/elise-palethorpe/gcplan/config"
	"github.com/elise-palethorpe/gcplan/copyspace"
	"github.com/elise-palethorpe/gcplan/log"
	"github.com/elise-palethorpe/gcplan/metrics"
	"github.com/elise-palethorpe/gcplan/vm"
)

// Tls stands in for the host VM's opaque worker thread-local-storage
// handle; the coordinator never interprets it, only forwards it to
// CommonPlan.Prepare/Release.
type Tls interface{}

// LargeObjectSpace is the non-moving space for objects that exceed the
// host's size threshold; a generational plan may allocate large objects
// directly into it as nursery objects, so a minor GC still has to trace
// them.
type LargeObjectSpace interface {
	InSpace(obj vm.ObjectReference) bool
	TraceObjectNonMoving(trace vm.Trace, obj vm.ObjectReference) vm.ObjectReference
}

// CommonPlan bundles the mature space, immortal space, LOS and VM
// spaces a concrete generational plan composes on top of Gen. It is the
// "common.base"/"common" collaborator the coordinator forwards to; Gen
// itself never allocates pages or holds mature-space state.
type CommonPlan interface {
	// Prepare runs the common plan's GC-prepare sequencing; fullHeap
	// tells mature/immortal/LOS spaces whether they cycle this GC.
	Prepare(tls Tls, fullHeap bool)
	// Release runs the common plan's GC-release sequencing.
	Release(tls Tls, fullHeap bool)
	// BaseCollectionRequired reports whether the common plan's own page
	// accounting independently requires a GC for the given triggering
	// space (identified by descriptor, matching vm space/CopySpace
	// identity conventions elsewhere in this toolkit).
	BaseCollectionRequired(spaceFull bool, spaceDescriptor string) bool
	// PagesUsed returns pages used across the common plan's spaces,
	// excluding the nursery.
	PagesUsed() uintptr
	// PagesAvail returns pages still available to the whole plan.
	PagesAvail() uintptr
	// TraceObject dispatches to whichever of the mature, immortal, LOS
	// or VM spaces contains obj.
	TraceObject(trace vm.Trace, obj vm.ObjectReference, cctx vm.CopyContext) vm.ObjectReference
	// LOS returns the plan's large object space, or nil if the plan has
	// none.
	LOS() LargeObjectSpace
	// CurCollectionAttempts is the number of collection attempts made
	// for the allocation currently being serviced; a value greater than
	// one means a previous attempt failed to free enough space.
	CurCollectionAttempts() int
	// UserTriggeredCollection reports whether the collection currently
	// being requested was triggered by an explicit host call rather
	// than an allocation slow path.
	UserTriggeredCollection() bool
	// SetUserTriggeredCollection records that the host asked for a GC
	// explicitly; cleared by the common plan once serviced.
	SetUserTriggeredCollection(v bool)
}

// Gen is the common implementation shared by every generational plan.
// Concrete plans (e.g. generational copying, generational Immix) embed
// a *Gen and forward their Plan-trait methods to it, adding their own
// mature-space contribution to the accounting methods.
type Gen struct {
	// Nursery is the young-generation evacuation space.
	Nursery *copyspace.Nursery
	// Common is the composed mature/immortal/LOS/VM space collaborator.
	Common CommonPlan
	// Options is the parsed, validated configuration.
	Options *config.Options
	// PageSize is the host's page size in bytes, used to convert the
	// configured nursery byte bounds into page counts.
	PageSize uintptr

	// gcFullHeap is true iff the collection currently in progress is a
	// full-heap collection. Written once per GC by
	// RequestFullHeapCollection; read by every worker via
	// IsCurrentGCNursery.
	gcFullHeap atomic.Bool
	// nextGCFullHeap is a sticky request that the next collection be
	// promoted to full-heap.
	nextGCFullHeap atomic.Bool

	log     *log.Logger
	metrics *metrics.GCMetrics
}

// NewGen constructs a Gen over an already-initialized nursery and
// common-plan collaborator. logger and m may both be nil, in which case
// logging and metrics are no-ops.
func NewGen(nursery *copyspace.Nursery, common CommonPlan, opts *config.Options, pageSize uintptr, logger *log.Logger, m *metrics.GCMetrics) *Gen {
	if logger == nil {
		logger = log.Nop()
	}
	return &Gen{
		Nursery:  nursery,
		Common:   common,
		Options:  opts,
		PageSize: pageSize,
		log:      logger,
		metrics:  m,
	}
}

// CollectionRequired reports whether an allocation slow path should
// request a GC: either the nursery has filled to its configured bound,
// or the common plan's own accounting independently requires one. If
// spaceFull is true and the triggering space is not the nursery, a
// non-nursery space exhaustion latches nextGCFullHeap before returning,
// so that exhaustion is guaranteed to be cleared by a full-heap GC.
func (g *Gen) CollectionRequired(spaceFull bool, spaceDescriptor string) bool {
	if spaceFull && spaceDescriptor != g.Nursery.Descriptor() {
		g.nextGCFullHeap.Store(true)
	}

	nurseryFull := g.Nursery.ReservedPages() >= g.Options.MaxNurseryPages(g.PageSize)
	if nurseryFull {
		return true
	}

	return g.Common.BaseCollectionRequired(spaceFull, spaceDescriptor)
}

// RequestFullHeapCollection decides the current GC's mode and writes it
// into gcFullHeap, evaluated in priority order: a compile-time
// always-full policy, a user-triggered GC under full_heap_system_gc, a
// latched promotion request or a prior failed attempt, and finally a
// heuristic based on whether the heap is effectively exhausted.
func (g *Gen) RequestFullHeapCollection(totalPages, reservedPages uintptr) bool {
	var fullHeap bool
	var reason string

	switch {
	case g.Options.FullNurseryGC:
		fullHeap, reason = true, "full_nursery_gc"
	case g.Common.UserTriggeredCollection() && g.Options.FullHeapSystemGC:
		fullHeap, reason = true, "user_triggered_full_heap_system_gc"
	case g.nextGCFullHeap.Load() || g.Common.CurCollectionAttempts() > 1:
		fullHeap, reason = true, "next_gc_full_heap_or_retry"
	default:
		fullHeap = totalPages <= reservedPages
		reason = "heuristic"
	}

	g.gcFullHeap.Store(fullHeap)
	g.log.ModeDecision(reason, fullHeap)
	return fullHeap
}

// Prepare runs GC-prepare sequencing for a single worker: the common
// plan cycles its mature/immortal/LOS spaces only if this GC is
// full-heap, while the nursery always flips its copy direction.
func (g *Gen) Prepare(tls Tls) {
	fullHeap := !g.IsCurrentGCNursery()
	g.Common.Prepare(tls, fullHeap)
	g.Nursery.Prepare(true)
	g.log.CollectionStart(fullHeap)
}

// Release runs GC-release sequencing, clearing nextGCFullHeap once a
// full-heap collection has actually serviced the promotion it was
// latched for.
func (g *Gen) Release(tls Tls) {
	fullHeap := !g.IsCurrentGCNursery()
	g.Common.Release(tls, fullHeap)
	g.Nursery.Release()
	if fullHeap {
		g.nextGCFullHeap.Store(false)
	}
	g.log.CollectionEnd(fullHeap)
	g.metrics.ObserveCollection(fullHeap)
}

// TraceObjectFullHeap traces obj during a full-heap collection: nursery
// references are evacuated into the mature space via the nursery's own
// forward-or-copy protocol; everything else is delegated to the common
// plan, which dispatches across mature, immortal, LOS and VM spaces.
func (g *Gen) TraceObjectFullHeap(trace vm.Trace, obj vm.ObjectReference, cctx vm.CopyContext) vm.ObjectReference {
	if g.Nursery.InSpace(obj) {
		return g.Nursery.TraceObject(trace, obj, vm.AllocDefault, cctx)
	}
	return g.Common.TraceObject(trace, obj, cctx)
}

// TraceObjectNursery traces obj during a minor collection: nursery
// references are evacuated as above; large objects allocated directly
// into LOS as nursery objects are traced via their non-moving path;
// every other (mature) reference is returned unchanged, since a minor
// collection never scans mature spaces.
func (g *Gen) TraceObjectNursery(trace vm.Trace, obj vm.ObjectReference, cctx vm.CopyContext) vm.ObjectReference {
	if g.Nursery.InSpace(obj) {
		return g.Nursery.TraceObject(trace, obj, vm.AllocDefault, cctx)
	}
	if los := g.Common.LOS(); los != nil && los.InSpace(obj) {
		return los.TraceObjectNonMoving(trace, obj)
	}
	return obj
}

// IsCurrentGCNursery reports whether the collection currently in
// progress is a minor (nursery-only) collection.
func (g *Gen) IsCurrentGCNursery() bool {
	return !g.gcFullHeap.Load()
}

// ShouldNextGCBeFullHeap reports whether there is not enough free heap
// left to hold even a minimum-sized nursery next cycle, in which case
// the next collection should be promoted to full-heap.
func (g *Gen) ShouldNextGCBeFullHeap() bool {
	return g.Common.PagesAvail() < g.Options.MinNurseryPages(g.PageSize)
}

// SetNextGCFullHeap latches or clears the sticky request that the next
// collection be a full-heap collection.
func (g *Gen) SetNextGCFullHeap(v bool) {
	g.nextGCFullHeap.Store(v)
}

// NextGCFullHeap reports the current value of the sticky promotion
// latch.
func (g *Gen) NextGCFullHeap() bool {
	return g.nextGCFullHeap.Load()
}

// GetCollectionReserve returns the nursery's reserved pages, which a
// generational plan adds to its own collection-reserve accounting.
func (g *Gen) GetCollectionReserve() uintptr {
	return g.Nursery.ReservedPages()
}

// GetPagesUsed returns the pages used by the nursery plus the common
// plan; a concrete generational plan adds its own mature-space
// contribution on top.
func (g *Gen) GetPagesUsed() uintptr {
	return g.Nursery.ReservedPages() + g.Common.PagesUsed()
}

// HandleUserCollectionRequest records that the host explicitly asked
// for a collection, which RequestFullHeapCollection consults under
// full_heap_system_gc.
func (g *Gen) HandleUserCollectionRequest() {
	g.Common.SetUserTriggeredCollection(true)
}
