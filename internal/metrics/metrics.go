// Package metrics exposes Prometheus collectors for the delivery pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Deliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_mailer_deliveries_total",
		Help: "Processed recipients by outcome (sent, fetch_failed, send_failed, skipped)",
	}, []string{"status"})
	Badges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weather_mailer_badges_total",
		Help: "Delivered notifications by badge",
	}, []string{"badge"})
	RenderSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "weather_mailer_render_seconds",
		Help:    "Time to render one notification document",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 10),
	})
	CycleSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "weather_mailer_cycle_seconds",
		Help: "Time to process the whole recipient list",
	})
	LastCycleFailures = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weather_mailer_last_cycle_failures",
		Help: "Failed recipients in the most recent cycle",
	})
)

func init() {
	prometheus.MustRegister(
		Deliveries,
		Badges,
		RenderSeconds,
		CycleSeconds,
		LastCycleFailures,
	)
}
