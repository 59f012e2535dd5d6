package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	m := &dto.Metric{}
	require.NoError(t, (<-ch).Write(m))
	if m.Counter != nil {
		return m.Counter.GetValue()
	}
	return m.Gauge.GetValue()
}

func TestObserveCollectionIncrementsByMode(t *testing.T) {
	m := New()
	m.ObserveCollection(false)
	m.ObserveCollection(true)
	m.ObserveCollection(true)

	assert.Equal(t, float64(1), counterValue(t, m.Collections.WithLabelValues(ModeMinor)))
	assert.Equal(t, float64(2), counterValue(t, m.Collections.WithLabelValues(ModeFull)))
}

func TestObserveSweptBlockReleasedVsReused(t *testing.T) {
	m := New()
	m.ObserveSweptBlock(true, -1)
	m.ObserveSweptBlock(false, 2)
	m.ObserveSweptBlock(false, 3)

	assert.Equal(t, float64(1), counterValue(t, m.BlocksReleased))
	assert.Equal(t, float64(2), counterValue(t, m.BlocksReused))
}

func TestNilGCMetricsIsSafe(t *testing.T) {
	var m *GCMetrics
	assert.NotPanics(t, func() {
		m.ObserveCollection(true)
		m.ObserveSweptBlock(true, 0)
	})
}

func TestRegisterAttachesAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := Register(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
