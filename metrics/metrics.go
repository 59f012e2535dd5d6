// Package metrics instruments the generational coordinator and the Immix
// sweeper with Prometheus collectors, following the gauge/counter shape
// the retrieved pack uses around hot allocation and eviction paths
// (arena-cache's shard stats, bb-storage's blobstore instrumentation).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// ModeMinor and ModeFull label the two collection modes in the
// Collections counter vector.
const (
	ModeMinor = "minor"
	ModeFull  = "full"
)

// GCMetrics holds every collector the core exports. A nil *GCMetrics is
// valid everywhere it's accepted: all of Gen's and the Immix sweeper's
// instrumentation calls are guarded with a nil check, so metrics are
// strictly opt-in.
type GCMetrics struct {
	PagesUsed      prometheus.Gauge
	PagesReserved  prometheus.Gauge
	Collections    *prometheus.CounterVec
	BlocksReleased prometheus.Counter
	BlocksReused   prometheus.Counter
	HoleHistogram  prometheus.Histogram
}

// New constructs a GCMetrics instance without registering it. Use
// Register to both construct and register against a prometheus.Registerer.
func New() *GCMetrics {
	return &GCMetrics{
		PagesUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gcplan",
			Name:      "pages_used",
			Help:      "Pages currently in use across the nursery and common plan.",
		}),
		PagesReserved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gcplan",
			Name:      "pages_reserved",
			Help:      "Pages reserved for the nursery's copy semispace.",
		}),
		Collections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gcplan",
			Name:      "collections_total",
			Help:      "Number of collections performed, labeled by mode.",
		}, []string{"mode"}),
		BlocksReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gcplan",
			Name:      "blocks_released_total",
			Help:      "Number of Immix blocks released back to the page resource during sweep.",
		}),
		BlocksReused: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gcplan",
			Name:      "blocks_reused_total",
			Help:      "Number of Immix blocks pushed onto the reusable-block list during sweep.",
		}),
		HoleHistogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gcplan",
			Name:      "block_holes",
			Help:      "Distribution of hole counts recorded per swept block.",
			Buckets:   prometheus.LinearBuckets(0, 4, 32),
		}),
	}
}

// Register constructs a GCMetrics and registers all of its collectors
// against reg. It returns an error if any collector name collides with
// one already registered.
func Register(reg prometheus.Registerer) (*GCMetrics, error) {
	m := New()
	collectors := []prometheus.Collector{
		m.PagesUsed, m.PagesReserved, m.Collections, m.BlocksReleased, m.BlocksReused, m.HoleHistogram,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveCollection records one completed collection of the given mode.
func (m *GCMetrics) ObserveCollection(fullHeap bool) {
	if m == nil {
		return
	}
	mode := ModeMinor
	if fullHeap {
		mode = ModeFull
	}
	m.Collections.WithLabelValues(mode).Inc()
}

// ObserveSweptBlock records the outcome of sweeping a single block: either
// it was released (holes == -1 signals "no holes recorded") or kept with
// the given hole count.
func (m *GCMetrics) ObserveSweptBlock(released bool, holes int) {
	if m == nil {
		return
	}
	if released {
		m.BlocksReleased.Inc()
		return
	}
	m.BlocksReused.Inc()
	if holes >= 0 {
		m.HoleHistogram.Observe(float64(holes))
	}
}
