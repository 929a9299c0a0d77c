package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "flightline_"

var (
	registerOnce sync.Once

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	checkinCalculations *prometheus.CounterVec
	checkinApprovals    *prometheus.CounterVec

	bookingsCreated *prometheus.CounterVec
)

// Init registers the process metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		)

		checkinCalculations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "checkin_calculations_total",
				Help: "Total check-in draft calculations by result",
			},
			[]string{"result"},
		)
		checkinApprovals = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "checkin_approvals_total",
				Help: "Total check-in approvals by result",
			},
			[]string{"result"},
		)

		bookingsCreated = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "bookings_created_total",
				Help: "Total bookings created by kind (single or recurring)",
			},
			[]string{"kind"},
		)

		prometheus.MustRegister(
			httpRequests,
			httpLatency,
			checkinCalculations,
			checkinApprovals,
			bookingsCreated,
		)
	})
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(route, method string, status int, duration time.Duration) {
	if httpRequests == nil {
		return
	}
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// CountCalculation records a check-in calculation outcome.
func CountCalculation(result string) {
	if checkinCalculations != nil {
		checkinCalculations.WithLabelValues(result).Inc()
	}
}

// CountApproval records a check-in approval outcome.
func CountApproval(result string) {
	if checkinApprovals != nil {
		checkinApprovals.WithLabelValues(result).Inc()
	}
}

// CountBookingCreated records a created booking.
func CountBookingCreated(kind string) {
	if bookingsCreated != nil {
		bookingsCreated.WithLabelValues(kind).Inc()
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware instruments a handler under a fixed route label.
func Middleware(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		ObserveRequest(route, r.Method, rec.status, time.Since(start))
	})
}
