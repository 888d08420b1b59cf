// Package prometheus instruments the uframe transport with Prometheus metrics.
package prometheus

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/fwojciec/uframe"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "uframe"

// CodeError labels requests that received no response.
const CodeError = "error"

var _ uframe.Transport = (*Transport)(nil)

// Transport wraps a Transport and records request counts and latency.
type Transport struct {
	next     uframe.Transport
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewTransport registers the request collectors with reg and returns a
// Transport recording into them. Collectors already registered by an earlier
// Transport are reused.
func NewTransport(next uframe.Transport, reg prometheus.Registerer) (*Transport, error) {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "m2m_requests_total",
			Help:      "Total number of m2m requests, partitioned by status code.",
		},
		[]string{"code"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "m2m_request_seconds",
			Help:      "m2m request latency in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"code"},
	)

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &Transport{next: next, requests: requests, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Get delegates to the wrapped transport and records the request.
func (t *Transport) Get(ctx context.Context, url string) (*uframe.RequestOutcome, error) {
	begin := time.Now()
	outcome, err := t.next.Get(ctx, url)

	code := CodeError
	if err == nil {
		code = strconv.Itoa(outcome.StatusCode)
	}
	t.requests.WithLabelValues(code).Inc()
	t.duration.WithLabelValues(code).Observe(time.Since(begin).Seconds())

	return outcome, err
}

// WriteTextfile writes all metrics gathered by g to path in the text
// exposition format, for collection by the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return uframe.Errorf(uframe.EINTERNAL, "write metrics: %v", err)
	}
	return nil
}
