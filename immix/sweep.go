package immix

import (
	"github.com/elise-palethorpe/gcplan/gcerr"
	"github.com/elise-palethorpe/gcplan/log"
	"github.com/elise-palethorpe/gcplan/metrics"
)

// Mode selects which of the two sweep algorithms a Sweeper runs: with
// BLOCK_ONLY set the Immix space carries no line marks and a block is
// either fully live or fully released; otherwise the sweeper walks line
// marks to find holes and reusable blocks.
type Mode int

const (
	// ModeBlockOnly sweeps by block mark state alone.
	ModeBlockOnly Mode = iota
	// ModeLine sweeps by counting marked lines and holes.
	ModeLine
)

// Sweeper classifies one block per call, updating its side-metadata
// state, pushing it onto Reusable when applicable, and feeding Histogram.
// A Sweeper is safe to share across many goroutines sweeping different
// blocks of the same space concurrently; its only shared mutable state is
// Reusable (already internally synchronized) and Histogram (atomic
// buckets).
type Sweeper struct {
	// Mode selects the block-only or line-mode algorithm.
	Mode Mode
	// MarkState is the current collection's mark epoch byte, used to
	// test each line via Line.IsMarked. Only consulted in ModeLine.
	MarkState uint8
	// Reusable receives blocks that have some but not all lines marked.
	Reusable *BlockList
	// Histogram receives the per-hole-count marked-line counts; may be
	// nil to skip histogram accounting (e.g. when DEFRAG is disabled).
	Histogram *Histogram
	// Release is called for every block the sweep decides to return to
	// the page resource, after the block has been Deinit'd. The page
	// resource itself is an external collaborator outside this
	// toolkit's scope, so it is injected rather than owned here.
	Release func(Block)

	Log     *log.Logger
	Metrics *metrics.GCMetrics
}

// SweepBlock classifies b and returns true if the block was swept
// (released), false if it is being kept live (whether Marked, Reusable,
// or reset to Unmarked for the next cycle).
func (s *Sweeper) SweepBlock(b Block) bool {
	if s.Mode == ModeBlockOnly {
		return s.sweepBlockOnly(b)
	}
	return s.sweepLineMode(b)
}

func (s *Sweeper) sweepBlockOnly(b Block) bool {
	switch b.GetState() {
	case Unallocated:
		return false
	case Unmarked:
		s.releaseBlock(b)
		return true
	case Marked:
		return false
	default:
		panic(gcerr.New(gcerr.MetadataInvariantViolation, "Reusable block state is unreachable in block-only sweep mode"))
	}
}

func (s *Sweeper) sweepLineMode(b Block) bool {
	markedLines, holes := countMarkedLinesAndHoles(b, s.MarkState)

	if markedLines == 0 {
		s.releaseBlock(b)
		return true
	}

	reused := markedLines < LinesPerBlock
	if reused {
		b.SetState(Reusable(uint8(markedLines)))
		s.Reusable.Push(b)
	} else {
		b.SetState(Unmarked)
	}

	b.SetHoles(uint8(holes))
	if s.Histogram != nil {
		s.Histogram.Add(holes, markedLines)
	}
	if reused {
		if s.Metrics != nil {
			s.Metrics.ObserveSweptBlock(false, holes)
		}
		s.Log.SweepSummary(0, 1, holes)
	} else {
		s.Log.SweepSummary(0, 0, holes)
	}
	return false
}

func (s *Sweeper) releaseBlock(b Block) {
	b.Deinit()
	if s.Release != nil {
		s.Release(b)
	}
	if s.Metrics != nil {
		s.Metrics.ObserveSweptBlock(true, -1)
	}
	s.Log.SweepSummary(1, 0, 0)
}

// countMarkedLinesAndHoles walks a block's 128 lines once, counting lines
// whose stored mark byte equals markState and the number of maximal runs
// of unmarked lines that are each preceded by a marked line or by the
// start of the block.
func countMarkedLinesAndHoles(b Block, markState uint8) (markedLines int, holes int) {
	prevLineMarked := true
	addr := b.Start()
	for i := 0; i < LinesPerBlock; i++ {
		line := LineFrom(addr)
		if line.IsMarked(markState) {
			markedLines++
			prevLineMarked = true
		} else {
			if prevLineMarked {
				holes++
			}
			prevLineMarked = false
		}
		addr = addr.Add(LineBytes)
	}
	return markedLines, holes
}
