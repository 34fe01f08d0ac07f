package dashauth

import (
	"sync/atomic"
	"time"
)

// MetricID defines a public type used by dashauth APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricTokenFromCallback is an exported constant or variable used by the session client.
	MetricTokenFromCallback MetricID = iota
	// MetricTokenFromStore is an exported constant or variable used by the session client.
	MetricTokenFromStore
	// MetricLoginRedirect is an exported constant or variable used by the session client.
	MetricLoginRedirect
	// MetricLogoutExplicit is an exported constant or variable used by the session client.
	MetricLogoutExplicit
	// MetricLogoutImplicit is an exported constant or variable used by the session client.
	MetricLogoutImplicit
	// MetricUnauthorizedResponse is an exported constant or variable used by the session client.
	MetricUnauthorizedResponse
	// MetricUserFetchSuccess is an exported constant or variable used by the session client.
	MetricUserFetchSuccess
	// MetricUserFetchTransient is an exported constant or variable used by the session client.
	MetricUserFetchTransient
	// MetricElevationGenerated is an exported constant or variable used by the session client.
	MetricElevationGenerated
	// MetricElevationValidated is an exported constant or variable used by the session client.
	MetricElevationValidated
	// MetricElevationRejected is an exported constant or variable used by the session client.
	MetricElevationRejected
	// MetricElevationCleared is an exported constant or variable used by the session client.
	MetricElevationCleared
	// MetricElevationSkippedLocal is an exported constant or variable used by the session client.
	MetricElevationSkippedLocal
	// MetricElevationValidateLatency is an exported constant or variable used by the session client.
	MetricElevationValidateLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by dashauth APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether metrics collection is active.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc atomically increments a counter. No-op when disabled.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records an elevation-validate latency sample.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricElevationValidateLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current value of a counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot returns a point-in-time deep copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricElevationValidateLatency].buckets[i])
		}
		s.Histograms[MetricElevationValidateLatency] = buckets
	}

	return s
}

// MetricsSnapshot returns the client's current metrics snapshot.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
