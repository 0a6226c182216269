// Package metrics exposes Prometheus instrumentation for generator runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status labels.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.initGenerationMetrics()
	r.initBottleneckMetrics()
	r.initOutputMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// RecordGenerated records rows produced by one generation stage.
func (r *Registry) RecordGenerated(table string, rows int, elapsed time.Duration) {
	r.RecordsGenerated.WithLabelValues(table).Add(float64(rows))
	r.StageDuration.WithLabelValues(table).Observe(elapsed.Seconds())
}

// RecordFallback counts a fallback to a broader pool.
func (r *Registry) RecordFallback(kind string) {
	r.Fallbacks.WithLabelValues(kind).Inc()
}

// SetBottleneck publishes the bottleneck shipper's observed concentration.
func (r *Registry) SetBottleneck(shipments int, batteryShare float64) {
	r.BottleneckShipments.Set(float64(shipments))
	r.BottleneckBatteryShare.Set(batteryShare)
}

// RecordTableWritten records one table write. Empty tables are skipped.
func (r *Registry) RecordTableWritten(status string, bytes int64) {
	r.TablesWritten.WithLabelValues(status).Inc()
	if bytes > 0 {
		r.BytesWritten.Add(float64(bytes))
	}
}

// RecordSinkUpload records a publish to an external sink.
func (r *Registry) RecordSinkUpload(sink string, err error, elapsed time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	r.SinkUploads.WithLabelValues(sink, status).Inc()
	r.SinkUploadDuration.WithLabelValues(sink).Observe(elapsed.Seconds())
}

// MarkRunComplete stamps the completion time.
func (r *Registry) MarkRunComplete(t time.Time) {
	r.RunTimestamp.Set(float64(t.Unix()))
}

// WriteTextfile writes the registry in the text exposition format, for
// pickup by the node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
