package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"blockrank/internal/db"
)

var measurementsDesc = prometheus.NewDesc(
	"blockrank_measurements_total",
	"Total persisted measurement count by outcome status",
	[]string{"status"},
	nil,
)

var (
	measurementDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blockrank_measurement_duration_seconds",
		Help:    "Wall-clock duration of one pipeline run",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 15, 30},
	}, []string{"status"})

	fetchFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "blockrank_fetch_failures_total",
		Help: "Outbound search fetch failures by reason",
	}, []string{"reason"})
)

// MeasurementCollector is a custom Prometheus collector that reads
// measurement status counts from the database on each scrape.
type MeasurementCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *MeasurementCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- measurementsDesc
}

// Collect queries the database for measurement counts and emits them as counters.
func (c *MeasurementCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.GetMeasurementStatusCounts(context.Background())
	if err != nil {
		slog.Error("failed to collect measurement metrics", "error", err)
		return
	}
	for _, sc := range counts {
		ch <- prometheus.MustNewConstMetric(
			measurementsDesc,
			prometheus.CounterValue,
			float64(sc.Count),
			sc.Status,
		)
	}
}

var initOnce sync.Once

// Init registers the collectors. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(
			&MeasurementCollector{db: database},
			measurementDuration,
			fetchFailures,
		)
	})
}

// ObserveMeasurement records one pipeline run's duration by outcome status.
func ObserveMeasurement(status string, d time.Duration) {
	measurementDuration.WithLabelValues(status).Observe(d.Seconds())
}

// RecordFetchFailure counts a failed outbound search fetch.
func RecordFetchFailure(reason string) {
	fetchFailures.WithLabelValues(reason).Inc()
}
