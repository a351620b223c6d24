package oplog

import (
	"context"
	"strconv"
	"time"

	"github.com/MarkoPoloResearchLab/innkeeper/pkg/hotel"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	operationApplyPayment  = "apply_payment"
	operationCreateBooking = "create_booking"
	operationUpdateBooking = "update_booking"
)

// Metrics exports hotel operations and HTTP traffic as Prometheus series.
type Metrics struct {
	operationsTotal     *prometheus.CounterVec
	paymentsCentsTotal  prometheus.Counter
	bookingPriceCents   *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers every collector on registerer.
func NewMetrics(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Hotel operations by name and outcome",
			},
			[]string{"operation", "status"},
		),
		paymentsCentsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_applied_cents_total",
				Help:      "Cents accepted by the payment allocator",
			},
		),
		bookingPriceCents: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "booking_price_cents",
				Help:      "Calculated price of created and updated bookings",
				Buckets:   prometheus.ExponentialBuckets(1000, 2, 10),
			},
			[]string{"price_type"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
	}
	collectors := []prometheus.Collector{
		metrics.operationsTotal,
		metrics.paymentsCentsTotal,
		metrics.bookingPriceCents,
		metrics.httpRequestsTotal,
		metrics.httpRequestDuration,
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return metrics, nil
}

func (metrics *Metrics) LogOperation(_ context.Context, entry hotel.OperationLog) {
	metrics.operationsTotal.WithLabelValues(entry.Operation, entry.Status).Inc()
	if entry.Error != nil {
		return
	}
	switch entry.Operation {
	case operationApplyPayment:
		metrics.paymentsCentsTotal.Add(float64(entry.Amount.Int64()))
	case operationCreateBooking, operationUpdateBooking:
		metrics.bookingPriceCents.WithLabelValues(entry.PriceType.String()).Observe(float64(entry.Amount.Int64()))
	}
}

// ObserveHTTPRequest records one served request.
func (metrics *Metrics) ObserveHTTPRequest(method string, route string, status int, elapsed time.Duration) {
	metrics.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	metrics.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
