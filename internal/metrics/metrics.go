package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)
	MessagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "nachrichten_sent_total", Help: "Messages persisted"},
		[]string{"kind"},
	)
	ThreadsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "nachrichten_swept_total", Help: "Messages removed by the expiry sweep"},
	)
)

func MustRegister() {
	prometheus.MustRegister(RequestsTotal, ReqDuration, InFlight, MessagesSent, ThreadsSwept)
}
