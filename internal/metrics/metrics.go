package metrics

import (
	"net/http"

	"github.com/Dyastin-0/relay/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Total number of proxied HTTP requests",
		},
		[]string{"route", "method", "code"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_request_duration_seconds",
			Help:    "Histogram of end-to-end request durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ActiveRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_active_requests",
			Help: "Number of in-flight proxied requests",
		},
	)

	UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_upstream_errors_total",
			Help: "Total number of failed outbound calls per route",
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(RequestCount)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(ActiveRequests)
	prometheus.MustRegister(UpstreamErrors)
}

func Start() {
	router := chi.NewRouter()
	router.Get("/metrics", promhttp.Handler().ServeHTTP)

	log.Info().Str("status", "running").Str("port", config.Misc.MetricsPort).Msg("metrics")
	err := http.ListenAndServe(":"+config.Misc.MetricsPort, router)
	if err != nil {
		log.Fatal().Err(err).Msg("metrics")
	}
}
