package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ft"

// Metrics holds the client-side counters for one process. They live on a
// private registry, so nothing is exported unless WriteTextfile is called.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Operations      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Backend HTTP requests by method and status code (0 = no response).",
		}, []string{"method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Backend HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Tracker operations by name and result.",
		}, []string{"operation", "result"}),
	}
	m.registry.MustRegister(m.Requests, m.RequestDuration, m.Operations)
	return m
}

// ObserveRequest implements api.Observer.
func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// ObserveOperation counts one finished operation; result is "success" or "error".
func (m *Metrics) ObserveOperation(operation, result string) {
	m.Operations.WithLabelValues(operation, result).Inc()
}

// Registry exposes the private registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes every metric in the text exposition format to path,
// for the node_exporter textfile collector. The write is atomic.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
