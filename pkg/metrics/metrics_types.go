package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for a generator run
type Registry struct {
	// Generation
	RecordsGenerated *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	Fallbacks        *prometheus.CounterVec

	// Bottleneck
	BottleneckBatteryShare prometheus.Gauge
	BottleneckShipments    prometheus.Gauge

	// Output
	TablesWritten      *prometheus.CounterVec
	BytesWritten       prometheus.Counter
	SinkUploads        *prometheus.CounterVec
	SinkUploadDuration *prometheus.HistogramVec

	RunTimestamp prometheus.Gauge

	registry *prometheus.Registry
}
