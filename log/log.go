// Package log provides the structured-logging wrapper every component of
// the toolkit uses around go.uber.org/zap. It exposes GC-flavored helper
// methods rather than raw zap calls, mirroring how the teacher's runtime
// wraps platform primitives (sysAlloc, sysFree) instead of calling them
// ad hoc from every caller.
package log

import "go.uber.org/zap"

// Logger wraps a *zap.Logger with the small set of events the generational
// coordinator and the Immix sweeper need to report.
type Logger struct {
	z *zap.Logger
}

// New wraps an existing zap logger. Passing nil is valid and yields a
// Logger whose methods are no-ops, so callers that don't care about GC
// logging don't need a special case.
func New(z *zap.Logger) *Logger {
	return &Logger{z: z}
}

// Nop returns a Logger that discards everything, for components built
// without an explicit logger (metrics and logging are both optional per
// the ambient-stack design).
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) logger() *zap.Logger {
	if l == nil || l.z == nil {
		return zap.NewNop()
	}
	return l.z
}

// CollectionStart logs the beginning of a GC cycle and whether it is a
// full-heap collection.
func (l *Logger) CollectionStart(fullHeap bool) {
	l.logger().Info("gc cycle start", zap.Bool("full_heap", fullHeap))
}

// CollectionEnd logs the end of a GC cycle.
func (l *Logger) CollectionEnd(fullHeap bool) {
	l.logger().Info("gc cycle end", zap.Bool("full_heap", fullHeap))
}

// ModeDecision logs why request_full_heap_collection picked the mode it did.
func (l *Logger) ModeDecision(reason string, fullHeap bool) {
	l.logger().Debug("gc mode decision", zap.String("reason", reason), zap.Bool("full_heap", fullHeap))
}

// SweepSummary logs the outcome of a single block's sweep.
func (l *Logger) SweepSummary(released int, reused int, holes int) {
	l.logger().Debug("sweep summary",
		zap.Int("released", released),
		zap.Int("reused", reused),
		zap.Int("holes", holes),
	)
}

// Warnf logs a formatted warning; used for conditions the spec treats as
// recoverable but noteworthy (e.g. copy reserve exhaustion before retry).
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logger().Sugar().Warnf(format, args...)
}
