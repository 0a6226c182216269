package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGenerationMetrics() {
	r.RecordsGenerated = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "supplygen_records_generated_total",
			Help: "Total number of records generated per table",
		},
		[]string{"table"},
	)

	r.StageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supplygen_stage_duration_seconds",
			Help:    "Generation stage duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"stage"},
	)

	r.Fallbacks = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "supplygen_fallbacks_total",
			Help: "Number of times a generator fell back to a broader pool",
		},
		[]string{"kind"},
	)
}

func (r *Registry) initBottleneckMetrics() {
	r.BottleneckBatteryShare = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "supplygen_bottleneck_battery_share",
			Help: "Fraction of bottleneck-shipper records consigned to battery makers",
		},
	)

	r.BottleneckShipments = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "supplygen_bottleneck_shipments",
			Help: "Number of trade records shipped by the bottleneck shipper",
		},
	)
}

func (r *Registry) initOutputMetrics() {
	r.TablesWritten = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "supplygen_tables_written_total",
			Help: "Tables written to disk by status",
		},
		[]string{"status"},
	)

	r.BytesWritten = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "supplygen_bytes_written_total",
			Help: "Bytes written across all output tables",
		},
	)

	r.SinkUploads = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "supplygen_sink_uploads_total",
			Help: "Uploads to external sinks by sink and status",
		},
		[]string{"sink", "status"},
	)

	r.SinkUploadDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "supplygen_sink_upload_duration_seconds",
			Help:    "Time spent publishing a run to a sink",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"sink"},
	)

	r.RunTimestamp = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "supplygen_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		},
	)
}
