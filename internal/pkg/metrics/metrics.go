package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enertrack",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "enertrack",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	ForecastRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enertrack",
		Name:      "forecast_runs_total",
		Help:      "Forecast executions by horizon type and outcome.",
	}, []string{"horizon", "outcome"})

	ForecastDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "enertrack",
		Name:      "forecast_duration_seconds",
		Help:      "Wall time of a full forecast run.",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1},
	})

	ChartRendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "enertrack",
		Name:      "chart_renders_total",
		Help:      "Chart renders by kind and cache outcome.",
	}, []string{"kind", "cache"})
)
