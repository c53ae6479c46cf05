package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of requests currently being served",
		},
	)

	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_mutations_total",
			Help: "Total number of service operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(HttpRequestsTotal, HttpRequestDuration, ActiveConnections, MutationsTotal)
}

// ObserveMutation counts one call of operation. outcome is "ok" or an error kind.
func ObserveMutation(operation, outcome string) {
	MutationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RegisterSubscriberGauge exposes the number of live activity stream
// subscribers as reported by count.
func RegisterSubscriberGauge(reg prometheus.Registerer, count func() int) (prometheus.GaugeFunc, error) {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "activity_subscribers",
			Help: "Number of connected activity stream subscribers",
		},
		func() float64 { return float64(count()) },
	)
	if err := reg.Register(gauge); err != nil {
		return nil, err
	}
	return gauge, nil
}
