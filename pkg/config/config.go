// Package config loads generator settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-supplygen/pkg/synth"
	"github.com/dd0wney/cluso-supplygen/pkg/validation"
)

// DefaultOutputDir is where tables are written when nothing else is set.
const DefaultOutputDir = "data/synthetic"

// DefaultTimeout bounds all sink uploads of one run.
const DefaultTimeout = 2 * time.Minute

// Config is the full run configuration.
type Config struct {
	OutputDir    string        `yaml:"output_dir" validate:"required"`
	Seed         int64         `yaml:"seed"`
	Vendors      int           `yaml:"num_vendors" validate:"gte=0"`
	Orders       int           `yaml:"num_orders" validate:"gte=0"`
	TradeRecords int           `yaml:"num_trade_records" validate:"gte=0"`
	Compress     bool          `yaml:"compress"`
	MetricsFile  string        `yaml:"metrics_file"`
	Timeout      time.Duration `yaml:"timeout"`

	Logging  LoggingConfig  `yaml:"logging"`
	S3       S3Config       `yaml:"s3"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// LoggingConfig selects level and line format. LOG_LEVEL and LOG_FORMAT
// still win when set.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"loglevel"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
}

// S3Config enables the object-store sink when Bucket is set.
type S3Config struct {
	Bucket   string `yaml:"bucket" validate:"omitempty,s3bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
	// Static credentials; the default AWS chain is used when empty.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// Enabled reports whether uploads are configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// PostgresConfig enables the database sink when URL is set.
type PostgresConfig struct {
	URL    string `yaml:"url" validate:"omitempty,url"`
	Schema string `yaml:"schema"`
}

// Enabled reports whether loading is configured.
func (c PostgresConfig) Enabled() bool { return c.URL != "" }

// Default returns the stock configuration: seed 42, 50 vendors, 120
// orders and 150 trade records written to data/synthetic.
func Default() Config {
	opts := synth.DefaultOptions()
	return Config{
		OutputDir:    DefaultOutputDir,
		Seed:         opts.Seed,
		Vendors:      opts.Vendors,
		Orders:       opts.Orders,
		TradeRecords: opts.TradeRecords,
		Timeout:      DefaultTimeout,
		Logging:      LoggingConfig{Level: "info", Format: "json"},
		Postgres:     PostgresConfig{Schema: "public"},
	}
}

// Load reads path over Default and validates the result. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct tags, then cross-field rules.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	return validation.NewConfigValidator("config").
		MaxInt("num_vendors", c.Vendors, validation.MaxRecords).
		MaxInt("num_orders", c.Orders, validation.MaxRecords).
		MaxInt("num_trade_records", c.TradeRecords, validation.MaxRecords).
		MinDuration("timeout", c.Timeout, time.Second).
		When(c.Orders > 0 || c.TradeRecords > 0, func(v *validation.ConfigValidator) {
			v.Custom("num_vendors", func() error {
				if c.Vendors == 0 {
					return errors.New("orders and trade records need at least one vendor")
				}
				return nil
			})
		}).
		When(c.S3.Enabled(), func(v *validation.ConfigValidator) {
			v.Required("s3.region", c.S3.Region)
		}).
		When(c.S3.AccessKeyID != "" || c.S3.SecretAccessKey != "", func(v *validation.ConfigValidator) {
			v.Required("s3.access_key_id", c.S3.AccessKeyID)
			v.Required("s3.secret_access_key", c.S3.SecretAccessKey)
		}).
		When(c.Postgres.Enabled(), func(v *validation.ConfigValidator) {
			v.Required("postgres.schema", c.Postgres.Schema)
		}).
		Validate()
}

// Options returns the generator options.
func (c *Config) Options() synth.Options {
	return synth.Options{
		Seed:         c.Seed,
		Vendors:      c.Vendors,
		Orders:       c.Orders,
		TradeRecords: c.TradeRecords,
	}
}
