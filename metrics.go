package hmsauth

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected credential attempts.
	MetricLoginFailure
	// MetricLoginMaintenanceRejected counts logins blocked by maintenance mode.
	MetricLoginMaintenanceRejected
	// MetricLogout counts explicit logouts.
	MetricLogout
	// MetricGuardAllow counts access checks that passed.
	MetricGuardAllow
	// MetricGuardDeny counts access checks that were denied.
	MetricGuardDeny
	// MetricGuardPending counts access checks made before hydration settled.
	MetricGuardPending
	// MetricRouteRedirect counts navigations the route policy redirected.
	MetricRouteRedirect
	// MetricHydration counts session store hydrations.
	MetricHydration
	// MetricStoreReset counts administrative store resets.
	MetricStoreReset
	metricIDCount
)

const cacheLineSize = 64

// paddedCounter keeps adjacent counters on separate cache lines so
// concurrent increments do not false-share.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of lock-free counters. A nil or disabled
// Metrics is a no-op on every method.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, int(metricIDCount)),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
