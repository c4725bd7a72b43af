package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quotesync/internal/domain"
)

const metricsNamespace = "quotesync"

// Outcome label values.
const (
	OutcomeSuccess       = "success"
	OutcomeNetworkError  = "network_error"
	OutcomeStorageError  = "storage_error"
	OutcomeOtherError    = "error"
	OutcomeSkippedFlight = "skipped"
)

// SyncMetrics exports sync and publish outcomes as Prometheus collectors.
// It implements ports.SyncObserver.
type SyncMetrics struct {
	attempts  *prometheus.CounterVec
	duration  prometheus.Histogram
	fetched   prometheus.Histogram
	inFlight  prometheus.Gauge
	publishes *prometheus.CounterVec
	lastOK    prometheus.Gauge
	now       func() time.Time
}

// NewSyncMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewSyncMetrics(reg prometheus.Registerer) (*SyncMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &SyncMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "attempts_total",
			Help:      "Sync attempts by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Time spent fetching and merging server quotes.",
			Buckets:   prometheus.DefBuckets,
		}),
		fetched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "fetched_quotes",
			Help:      "Server quotes merged per successful sync.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 25, 50, 100},
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "in_flight",
			Help:      "1 while a sync is running.",
		}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "publish",
			Name:      "total",
			Help:      "Best-effort quote publishes by outcome.",
		}, []string{"outcome"}),
		lastOK: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "sync",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful sync.",
		}),
		now: time.Now,
	}

	collectors := []prometheus.Collector{m.attempts, m.duration, m.fetched, m.inFlight, m.publishes, m.lastOK}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// SyncStarted marks a sync as running.
func (m *SyncMetrics) SyncStarted() {
	m.inFlight.Set(1)
}

// SyncSkipped counts a sync rejected by the in-flight guard.
func (m *SyncMetrics) SyncSkipped() {
	m.attempts.WithLabelValues(OutcomeSkippedFlight).Inc()
}

// SyncFinished records the outcome of an admitted sync.
func (m *SyncMetrics) SyncFinished(err error, fetched int, elapsed time.Duration) {
	m.inFlight.Set(0)
	m.duration.Observe(elapsed.Seconds())
	m.attempts.WithLabelValues(outcome(err)).Inc()

	if err == nil {
		m.fetched.Observe(float64(fetched))
		m.lastOK.Set(float64(m.now().Unix()))
	}
}

// Published records the outcome of a publish.
func (m *SyncMetrics) Published(err error) {
	m.publishes.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrNetwork):
		return OutcomeNetworkError
	case errors.Is(err, domain.ErrStorage):
		return OutcomeStorageError
	default:
		return OutcomeOtherError
	}
}
