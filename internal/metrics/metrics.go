package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ScansRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "abrar", Name: "scans_recorded_total", Help: "Score records appended via QR scan",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "abrar", Name: "handler_errors_total", Help: "HTTP handler 5xx responses",
	})
	AggregationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "abrar", Name: "leaderboard_aggregation_seconds", Help: "Leaderboard aggregation latency",
		Buckets: prometheus.DefBuckets,
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "abrar", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(ScansRecorded, HandlerErrors, AggregationDuration, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveAggregation(d time.Duration) { AggregationDuration.Observe(d.Seconds()) }
