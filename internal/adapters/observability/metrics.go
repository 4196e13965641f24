package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "milheiro", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "milheiro", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "milheiro", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "milheiro", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"service", "endpoint"},
	)
	ScrapeOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "milheiro", Name: "scrape_outcomes_total", Help: "Scraper calls by outcome."},
		[]string{"outcome"}, // ok|empty|invalid|timeout|upstream_error|internal
	)
	ScrapeRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "milheiro", Name: "scrape_rows_total", Help: "Rows seen per pipeline stage."},
		[]string{"stage"}, // extracted|returned
	)
)

// Serve exposes /metrics on a dedicated listener. Empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency, ScrapeOutcomes, ScrapeRows)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveExternal records one outbound call; status 0 means no response was received.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveScrape(outcome string) { ScrapeOutcomes.WithLabelValues(outcome).Inc() }

func ObserveRows(stage string, n int) { ScrapeRows.WithLabelValues(stage).Add(float64(n)) }
