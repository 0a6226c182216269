package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-supplygen/pkg/analysis"
	"github.com/dd0wney/cluso-supplygen/pkg/config"
	"github.com/dd0wney/cluso-supplygen/pkg/logging"
	"github.com/dd0wney/cluso-supplygen/pkg/metrics"
	"github.com/dd0wney/cluso-supplygen/pkg/sink"
	"github.com/dd0wney/cluso-supplygen/pkg/synth"
	"github.com/dd0wney/cluso-supplygen/pkg/tables"
)

type runResult struct {
	Dataset      *synth.Dataset
	Files        []tables.FileInfo
	Manifest     *tables.Manifest
	ManifestPath string
	Bottleneck   analysis.ShipperStat
	Detected     analysis.ShipperStat
	DetectedOK   bool
	Exposure     analysis.ExposureReport
	S3Keys       []string
	PGCounts     map[string]int64
}

// run generates, writes and publishes one dataset.
func run(ctx context.Context, cfg config.Config, log logging.Logger, reg *metrics.Registry, now func() time.Time) (*runResult, error) {
	log.Info("starting generation",
		logging.Seed(cfg.Seed),
		logging.Int("vendors", cfg.Vendors),
		logging.Int("orders", cfg.Orders),
		logging.Int("trade_records", cfg.TradeRecords),
		logging.Path(cfg.OutputDir),
	)

	ds, err := synth.Generate(cfg.Options(), synth.WithLogger(log), synth.WithRecorder(reg))
	if err != nil {
		return nil, err
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	files, err := tables.WriteDataset(cfg.OutputDir, ds, tables.Options{
		Compress: cfg.Compress,
		Logger:   log,
		Recorder: reg,
	})
	if err != nil {
		return nil, err
	}

	res := &runResult{Dataset: ds, Files: files}
	res.Bottleneck = bottleneckStat(ds)
	res.Detected, res.DetectedOK = analysis.DetectBottleneck(ds)
	res.Exposure = analysis.Exposure(ds, synth.BottleneckShipper)
	reg.SetBottleneck(res.Bottleneck.Shipments, res.Bottleneck.BatteryShare)

	m := tables.NewManifest(cfg.Seed, now())
	m.Vendors, m.Orders, m.TradeRecords = len(ds.Vendors), len(ds.PurchaseOrders), len(ds.TradeFlows)
	m.Compressed = cfg.Compress
	m.Files = files
	m.Bottleneck = &tables.BottleneckSummary{
		Shipper:       synth.BottleneckShipper,
		Configured:    synth.Bottleneck().Concentration,
		Shipments:     res.Bottleneck.Shipments,
		TradeShare:    res.Bottleneck.TradeShare,
		BatteryShare:  res.Bottleneck.BatteryShare,
		BatteryMakers: len(synth.BatteryMakers(ds.Vendors)),
	}
	if res.ManifestPath, err = m.Write(cfg.OutputDir); err != nil {
		return nil, err
	}
	res.Manifest = m

	if err := publish(ctx, cfg, log, reg, res); err != nil {
		return nil, err
	}

	reg.MarkRunComplete(now())
	if cfg.MetricsFile != "" {
		if err := reg.WriteTextfile(cfg.MetricsFile); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
		log.Info("metrics written", logging.Path(cfg.MetricsFile))
	}
	return res, nil
}

// bottleneckStat returns the configured bottleneck's statistics, zero
// valued when it shipped nothing.
func bottleneckStat(ds *synth.Dataset) analysis.ShipperStat {
	for _, st := range analysis.ShipperConcentration(ds.TradeFlows, synth.BatteryMakers(ds.Vendors)) {
		if st.Shipper == synth.BottleneckShipper {
			return st
		}
	}
	return analysis.ShipperStat{Shipper: synth.BottleneckShipper}
}

func publish(ctx context.Context, cfg config.Config, log logging.Logger, reg *metrics.Registry, res *runResult) error {
	if !cfg.S3.Enabled() && !cfg.Postgres.Enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := []sink.Option{sink.WithLogger(log), sink.WithRecorder(reg)}

	if cfg.S3.Enabled() {
		uploader, err := sink.NewS3Uploader(ctx, sink.S3Settings{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}, opts...)
		if err != nil {
			return err
		}

		paths := make([]string, 0, len(res.Files)+1)
		for _, f := range res.Files {
			if !f.Skipped {
				paths = append(paths, f.Path)
			}
		}
		paths = append(paths, res.ManifestPath)

		if res.S3Keys, err = uploader.Upload(ctx, res.Manifest.RunID, paths); err != nil {
			return err
		}
	}

	if cfg.Postgres.Enabled() {
		loader, err := sink.NewPostgresLoader(ctx, cfg.Postgres.URL, cfg.Postgres.Schema, opts...)
		if err != nil {
			return err
		}
		defer loader.Close()

		if res.PGCounts, err = loader.Load(ctx, res.Dataset); err != nil {
			return err
		}
	}
	return nil
}
