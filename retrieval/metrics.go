package retrieval

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports search counters and latencies. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	searches *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the retrieval collectors and registers them on reg when
// reg is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cbir",
				Name:      "searches_total",
				Help:      "Total number of completed searches",
			},
			[]string{"scheme"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cbir",
				Name:      "extraction_failures_total",
				Help:      "Total number of candidates skipped because extraction failed",
			},
			[]string{"scheme"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "cbir",
				Name:      "search_duration_seconds",
				Help:      "Search latency in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"scheme"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.searches, m.failures, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observeSearch(scheme string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(scheme).Inc()
	m.duration.WithLabelValues(scheme).Observe(elapsed.Seconds())
}

func (m *Metrics) extractionFailed(scheme string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.failures.WithLabelValues(scheme).Add(float64(n))
}
