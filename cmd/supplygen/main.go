// Command supplygen writes a synthetic EV-battery supply network with a
// hidden Tier-2 bottleneck as CSV tables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-supplygen/pkg/config"
	"github.com/dd0wney/cluso-supplygen/pkg/logging"
	"github.com/dd0wney/cluso-supplygen/pkg/metrics"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "supplygen: %v\n", err)
		os.Exit(2)
	}

	logger := newLogger(cfg.Logging, os.Stderr)
	reg := metrics.NewRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, cfg, logger, reg, time.Now)
	if err != nil {
		logger.Error("generation failed", logging.Error(err))
		os.Exit(1)
	}

	fmt.Println(renderSummary(cfg, res))
}

// parseFlags layers flags over the YAML file named by --config, which is
// itself layered over config.Default. Only flags given explicitly
// override the file.
func parseFlags(fs *flag.FlagSet, args []string) (config.Config, error) {
	def := config.Default()

	var (
		configPath  string
		outputDir   string
		seed        int64
		vendors     int
		orders      int
		trade       int
		compress    bool
		metricsFile string
		logLevel    string
		s3Bucket    string
		s3Prefix    string
		s3Endpoint  string
		s3Region    string
		pgURL       string
	)

	fs.StringVar(&configPath, "config", "", "YAML configuration file")
	fs.StringVar(&outputDir, "output-dir", def.OutputDir, "Directory for generated tables")
	fs.StringVar(&outputDir, "o", def.OutputDir, "Shorthand for --output-dir")
	fs.Int64Var(&seed, "seed", def.Seed, "Random seed")
	fs.Int64Var(&seed, "s", def.Seed, "Shorthand for --seed")
	fs.IntVar(&vendors, "num-vendors", def.Vendors, "Number of Tier-1 vendors")
	fs.IntVar(&orders, "num-orders", def.Orders, "Number of purchase orders")
	fs.IntVar(&trade, "num-trade-records", def.TradeRecords, "Number of trade (bill of lading) records")
	fs.BoolVar(&compress, "compress", def.Compress, "Write snappy-framed .csv.sz files")
	fs.StringVar(&metricsFile, "metrics-file", def.MetricsFile, "Write Prometheus metrics to this textfile")
	fs.StringVar(&logLevel, "log-level", def.Logging.Level, "Log level: debug, info, warn, error")
	fs.StringVar(&s3Bucket, "s3-bucket", "", "Upload the run to this bucket")
	fs.StringVar(&s3Prefix, "s3-prefix", "", "Key prefix for uploads")
	fs.StringVar(&s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint URL")
	fs.StringVar(&s3Region, "s3-region", "", "Bucket region")
	fs.StringVar(&pgURL, "pg-url", "", "Load tables into this PostgreSQL database")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := def
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "output-dir", "o":
			cfg.OutputDir = outputDir
		case "seed", "s":
			cfg.Seed = seed
		case "num-vendors":
			cfg.Vendors = vendors
		case "num-orders":
			cfg.Orders = orders
		case "num-trade-records":
			cfg.TradeRecords = trade
		case "compress":
			cfg.Compress = compress
		case "metrics-file":
			cfg.MetricsFile = metricsFile
		case "log-level":
			cfg.Logging.Level = logLevel
		case "s3-bucket":
			cfg.S3.Bucket = s3Bucket
		case "s3-prefix":
			cfg.S3.Prefix = s3Prefix
		case "s3-endpoint":
			cfg.S3.Endpoint = s3Endpoint
		case "s3-region":
			cfg.S3.Region = s3Region
		case "pg-url":
			cfg.Postgres.URL = pgURL
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger honours LOG_LEVEL and LOG_FORMAT over the configured values.
func newLogger(c config.LoggingConfig, w io.Writer) logging.Logger {
	level, format := c.Level, c.Format
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		level = s
	}
	if s := os.Getenv("LOG_FORMAT"); s != "" {
		format = s
	}
	return logging.New(w, logging.ParseLevel(level), logging.ParseFormat(format)).
		With(logging.Component("supplygen"))
}
