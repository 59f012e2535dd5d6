// Package config parses and validates the configuration options the
// toolkit recognizes, following the pattern the retrieved Mimir TSDB
// config uses for byte-size flags: human-sized strings ("32MiB") parsed
// with github.com/alecthomas/units and wrapped errors on anything
// malformed.
package config

import (
	"github.com/alecthomas/units"
	"github.com/pkg/errors"

	"github.com/elise-palethorpe/gcplan/address"
)

// RawOptions is what a host binding typically has on hand: human-written
// byte sizes rather than parsed page counts.
type RawOptions struct {
	// MaxNursery is the upper bound on nursery occupancy that forces a GC,
	// e.g. "32MiB".
	MaxNursery string
	// MinNursery is the lower bound used by ShouldNextGCBeFullHeap and for
	// sizing, e.g. "2MiB".
	MinNursery string
	// FullHeapSystemGC promotes user-requested collections to full-heap.
	FullHeapSystemGC bool
	// FullNurseryGC forces every collection to be full-heap; intended for
	// barrier-overhead benchmark harnesses, not production use.
	FullNurseryGC bool
	// BlockOnly disables line marks in the Immix space: blocks are either
	// fully live or fully released, never reusable.
	BlockOnly bool
	// Defrag enables opportunistic-copying defragmentation. Requires
	// !BlockOnly.
	Defrag bool
	// MarkLineAtScanTime marks lines when scanning objects rather than at
	// mark time.
	MarkLineAtScanTime bool
}

// Options is the validated, parsed form of RawOptions.
type Options struct {
	MaxNursery         units.Base2Bytes
	MinNursery         units.Base2Bytes
	FullHeapSystemGC   bool
	FullNurseryGC      bool
	BlockOnly          bool
	Defrag             bool
	MarkLineAtScanTime bool
}

// Parse validates raw and converts its byte-size strings into
// units.Base2Bytes. It rejects unparsable sizes, a zero or negative
// MaxNursery, MinNursery > MaxNursery, and Defrag set without BlockOnly
// cleared (Defrag requires line marks).
func Parse(raw RawOptions) (*Options, error) {
	maxNursery, err := units.ParseBase2Bytes(raw.MaxNursery)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing max_nursery %q", raw.MaxNursery)
	}
	if maxNursery <= 0 {
		return nil, errors.Errorf("max_nursery must be positive, got %q", raw.MaxNursery)
	}

	minNursery, err := units.ParseBase2Bytes(raw.MinNursery)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing min_nursery %q", raw.MinNursery)
	}
	if minNursery <= 0 {
		return nil, errors.Errorf("min_nursery must be positive, got %q", raw.MinNursery)
	}
	if minNursery > maxNursery {
		return nil, errors.Errorf("min_nursery (%s) exceeds max_nursery (%s)", minNursery, maxNursery)
	}

	if raw.Defrag && raw.BlockOnly {
		return nil, errors.New("defrag requires block_only to be disabled (defrag needs line marks)")
	}

	return &Options{
		MaxNursery:         maxNursery,
		MinNursery:         minNursery,
		FullHeapSystemGC:   raw.FullHeapSystemGC,
		FullNurseryGC:      raw.FullNurseryGC,
		BlockOnly:          raw.BlockOnly,
		Defrag:             raw.Defrag,
		MarkLineAtScanTime: raw.MarkLineAtScanTime,
	}, nil
}

// MaxNurseryPages is bytes_to_pages_up(options.max_nursery).
func (o *Options) MaxNurseryPages(pageSize uintptr) uintptr {
	return address.BytesToPagesUp(uintptr(o.MaxNursery), pageSize)
}

// MinNurseryPages is bytes_to_pages_up(options.min_nursery).
func (o *Options) MinNurseryPages(pageSize uintptr) uintptr {
	return address.BytesToPagesUp(uintptr(o.MinNursery), pageSize)
}
