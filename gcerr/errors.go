// Package gcerr implements the error taxonomy the toolkit surfaces to the
// host VM: a small, fixed set of error kinds wrapped with call-site
// context via github.com/pkg/errors so that callers can still recover the
// underlying sentinel with errors.Is while getting a useful stack-free
// message.
package gcerr

import "github.com/pkg/errors"

// Kind identifies one of the error taxonomy entries from the toolkit's
// error-handling design. It is not exhaustive of everything that can go
// wrong in a host binding, only of what the core itself detects.
type Kind int

const (
	// OutOfMemory: the page resource is exhausted after a full-heap
	// collection. Fatal unless the host can grow the heap.
	OutOfMemory Kind = iota
	// CopyReserveExhausted: a minor GC ran out of copy reserve. The
	// coordinator recovers by escalating the next collection to full-heap.
	CopyReserveExhausted
	// InvalidObjectReference: a misaligned or out-of-heap reference was
	// passed to trace_object. Always a host-binding bug.
	InvalidObjectReference
	// MetadataInvariantViolation: side metadata was observed in a state
	// the codec's invariants forbid (e.g. Reusable while also a defrag
	// source).
	MetadataInvariantViolation
)

func (k Kind) String() string {
	switch k {
	case OutOfMemory:
		return "out of memory"
	case CopyReserveExhausted:
		return "copy reserve exhausted"
	case InvalidObjectReference:
		return "invalid object reference"
	case MetadataInvariantViolation:
		return "metadata invariant violation"
	default:
		return "unknown gc error"
	}
}

// sentinel is the comparable value errors.Is matches against; New and
// Newf always produce an error whose chain contains the sentinel for the
// given kind.
type sentinel struct{ kind Kind }

func (s *sentinel) Error() string { return s.kind.String() }

var sentinels = map[Kind]*sentinel{
	OutOfMemory:                 {OutOfMemory},
	CopyReserveExhausted:        {CopyReserveExhausted},
	InvalidObjectReference:      {InvalidObjectReference},
	MetadataInvariantViolation:  {MetadataInvariantViolation},
}

// New returns an error of the given kind with the supplied message
// appended as context.
func New(kind Kind, message string) error {
	return errors.Wrap(sentinels[kind], message)
}

// Newf is New with fmt-style formatting.
func Newf(kind Kind, format string, args ...interface{}) error {
	return errors.Wrapf(sentinels[kind], format, args...)
}

// Is reports whether err's chain contains the given kind.
func Is(err error, kind Kind) bool {
	return errors.Is(err, sentinels[kind])
}
