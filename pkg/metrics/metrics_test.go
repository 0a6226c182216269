package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Gauge.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.RecordsGenerated == nil || r.Fallbacks == nil || r.BottleneckBatteryShare == nil {
		t.Fatal("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Fatal("Prometheus registry not initialized")
	}
}

func TestRecordGenerated(t *testing.T) {
	r := NewRegistry()

	r.RecordGenerated("vendors", 50, 2*time.Millisecond)
	r.RecordGenerated("vendors", 10, time.Millisecond)

	c, err := r.RecordsGenerated.GetMetricWithLabelValues("vendors")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := counterValue(t, c); got != 60 {
		t.Errorf("records = %v, want 60", got)
	}
}

func TestRecordFallback(t *testing.T) {
	r := NewRegistry()

	r.RecordFallback("battery_pool")
	r.RecordFallback("battery_pool")
	r.RecordFallback("preferred_region")

	c, _ := r.Fallbacks.GetMetricWithLabelValues("battery_pool")
	if got := counterValue(t, c); got != 2 {
		t.Errorf("battery_pool fallbacks = %v, want 2", got)
	}
}

func TestSetBottleneck(t *testing.T) {
	r := NewRegistry()
	r.SetBottleneck(17, 0.65)

	if got := gaugeValue(t, r.BottleneckShipments); got != 17 {
		t.Errorf("shipments = %v, want 17", got)
	}
	if got := gaugeValue(t, r.BottleneckBatteryShare); got != 0.65 {
		t.Errorf("share = %v, want 0.65", got)
	}
}

func TestRecordSinkUpload(t *testing.T) {
	r := NewRegistry()
	r.RecordSinkUpload("s3", nil, time.Second)
	r.RecordSinkUpload("s3", errors.New("denied"), time.Second)

	ok, _ := r.SinkUploads.GetMetricWithLabelValues("s3", StatusSuccess)
	failed, _ := r.SinkUploads.GetMetricWithLabelValues("s3", StatusError)
	if counterValue(t, ok) != 1 || counterValue(t, failed) != 1 {
		t.Error("expected one success and one error")
	}
}

func TestRecordTableWritten(t *testing.T) {
	r := NewRegistry()
	r.RecordTableWritten(StatusSuccess, 1024)
	r.RecordTableWritten(StatusSkipped, 0)

	if got := counterValue(t, r.BytesWritten); got != 1024 {
		t.Errorf("bytes = %v, want 1024", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordGenerated("trade_data", 150, time.Millisecond)
	r.MarkRunComplete(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "supplygen.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, `supplygen_records_generated_total{table="trade_data"} 150`) {
		t.Errorf("textfile missing records counter:\n%s", text)
	}
	if !strings.Contains(text, "supplygen_last_run_timestamp_seconds 1.7e+09") {
		t.Errorf("textfile missing run timestamp:\n%s", text)
	}
}
