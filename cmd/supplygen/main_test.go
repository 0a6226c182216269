package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-supplygen/pkg/config"
	"github.com/dd0wney/cluso-supplygen/pkg/logging"
	"github.com/dd0wney/cluso-supplygen/pkg/metrics"
	"github.com/dd0wney/cluso-supplygen/pkg/synth"
	"github.com/dd0wney/cluso-supplygen/pkg/tables"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("supplygen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags(newFlagSet(), nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 50, cfg.Vendors)
	assert.Equal(t, 120, cfg.Orders)
	assert.Equal(t, 150, cfg.TradeRecords)
	assert.False(t, cfg.Compress)
	assert.False(t, cfg.S3.Enabled())
	assert.False(t, cfg.Postgres.Enabled())
}

func TestParseFlags_Shorthands(t *testing.T) {
	cfg, err := parseFlags(newFlagSet(), []string{"-o", "/tmp/x", "-s", "7", "--num-trade-records", "500", "--compress"})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x", cfg.OutputDir)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 500, cfg.TradeRecords)
	assert.True(t, cfg.Compress)
}

func TestParseFlags_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supplygen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir: from-file
seed: 9
num_vendors: 20
num_orders: 30
s3:
  bucket: supply-data
  region: eu-west-1
`), 0o644))

	cfg, err := parseFlags(newFlagSet(), []string{"--config", path, "--num-orders", "80"})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.OutputDir)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, 20, cfg.Vendors)
	assert.Equal(t, 80, cfg.Orders)
	assert.Equal(t, 150, cfg.TradeRecords, "unset keys keep the default")
	assert.True(t, cfg.S3.Enabled())
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative vendors", []string{"--num-vendors", "-1"}},
		{"orders without vendors", []string{"--num-vendors", "0"}},
		{"bucket without region", []string{"--s3-bucket", "supply-data"}},
		{"missing config file", []string{"--config", "/nonexistent/supplygen.yaml"}},
		{"unknown flag", []string{"--vendors", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(newFlagSet(), tt.args)
			assert.Error(t, err)
		})
	}
}

func TestNewLogger_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	log := newLogger(config.LoggingConfig{Level: "debug", Format: "text"}, &buf)
	log.Info("hidden")
	log.Error("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"shown"`)
	assert.Contains(t, out, `"component":"supplygen"`)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.MetricsFile = filepath.Join(t.TempDir(), "supplygen.prom")
	return cfg
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestRun_WritesDatasetAndManifest(t *testing.T) {
	cfg := testConfig(t)
	reg := metrics.NewRegistry()

	res, err := run(context.Background(), cfg, logging.NewNopLogger(), reg, fixedClock)
	require.NoError(t, err)

	for _, table := range tables.TableOrder {
		assert.FileExists(t, tables.PathFor(cfg.OutputDir, table, false))
	}
	require.Len(t, res.Files, len(tables.TableOrder))

	m, err := tables.ReadManifest(cfg.OutputDir)
	require.NoError(t, err)
	assert.Equal(t, res.Manifest.RunID, m.RunID)
	assert.Equal(t, int64(42), m.Seed)
	assert.True(t, fixedClock().Equal(m.GeneratedAt))
	assert.Equal(t, 50, m.Vendors)
	assert.Equal(t, 120, m.Orders)
	assert.Equal(t, 150, m.TradeRecords)
	require.NotNil(t, m.Bottleneck)
	assert.Equal(t, synth.BottleneckShipper, m.Bottleneck.Shipper)
	assert.Equal(t, 0.60, m.Bottleneck.Configured)
	assert.Positive(t, m.Bottleneck.Shipments)
	assert.Equal(t, res.Bottleneck.Shipments, m.Bottleneck.Shipments)

	prom, err := os.ReadFile(cfg.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "supplygen_bottleneck_shipments")
	assert.Contains(t, string(prom), "supplygen_last_run_timestamp_seconds")

	assert.Nil(t, res.S3Keys)
	assert.Nil(t, res.PGCounts)
}

func TestRun_ReadBackMatches(t *testing.T) {
	cfg := testConfig(t)
	cfg.Compress = true

	res, err := run(context.Background(), cfg, logging.NewNopLogger(), metrics.NewRegistry(), fixedClock)
	require.NoError(t, err)

	got, err := tables.ReadDataset(cfg.OutputDir, true)
	require.NoError(t, err)
	got.Seed = res.Dataset.Seed
	assert.Equal(t, res.Dataset, got)
}

func TestRun_ZeroCountsSkipTables(t *testing.T) {
	cfg := testConfig(t)
	cfg.Vendors, cfg.Orders, cfg.TradeRecords = 0, 0, 0

	res, err := run(context.Background(), cfg, logging.NewNopLogger(), metrics.NewRegistry(), fixedClock)
	require.NoError(t, err)

	skipped := map[string]bool{}
	for _, f := range res.Files {
		skipped[f.Table] = f.Skipped
	}
	assert.True(t, skipped[synth.TableVendors])
	assert.True(t, skipped[synth.TablePurchaseOrders])
	assert.True(t, skipped[synth.TableTradeData])
	assert.False(t, skipped[synth.TableMaterials])
	assert.NoFileExists(t, tables.PathFor(cfg.OutputDir, synth.TableVendors, false))
	assert.Zero(t, res.Bottleneck.Shipments)
	assert.False(t, res.DetectedOK)
}

func TestRun_UnwritableOutput(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg.OutputDir = filepath.Join(blocker, "out")

	_, err := run(context.Background(), cfg, logging.NewNopLogger(), metrics.NewRegistry(), fixedClock)
	assert.Error(t, err)
}

func TestRenderSummary(t *testing.T) {
	cfg := testConfig(t)
	res, err := run(context.Background(), cfg, logging.NewNopLogger(), metrics.NewRegistry(), fixedClock)
	require.NoError(t, err)

	out := renderSummary(cfg, res)
	assert.Contains(t, out, "Synthetic data generated")
	assert.Contains(t, out, res.Manifest.RunID)
	assert.Contains(t, out, synth.BottleneckShipper)
	assert.Contains(t, out, "configured 60%")
	for _, table := range tables.TableOrder {
		assert.True(t, strings.Contains(out, table), "summary lists %s", table)
	}
	assert.NotContains(t, out, "uploaded")
}
