// Package synth generates the synthetic EV-battery supply network: Tier-1
// vendors, the material hierarchy and its bill of materials, ERP purchase
// orders and external trade flows carrying a hidden Tier-2 bottleneck.
//
// All randomness comes from an owned Source so a run is reproducible from
// its seed.
package synth

import (
	"time"

	"github.com/dd0wney/cluso-supplygen/pkg/logging"
)

// Table names, shared with serialization and metrics labels.
const (
	TableVendors        = "vendors"
	TableMaterials      = "materials"
	TableBOM            = "bill_of_materials"
	TablePurchaseOrders = "purchase_orders"
	TableTradeData      = "trade_data"
	TableRegions        = "regions"
)

// Fallback kinds reported to the Recorder.
const (
	FallbackPreferredRegion = "preferred_region"
	FallbackBatteryRegion   = "battery_region"
	FallbackBatteryPool     = "battery_pool"
	FallbackVendorName      = "vendor_name"
)

// Recorder observes generation. *metrics.Registry satisfies it.
type Recorder interface {
	RecordGenerated(table string, rows int, elapsed time.Duration)
	RecordFallback(kind string)
}

type nopRecorder struct{}

func (nopRecorder) RecordGenerated(string, int, time.Duration) {}
func (nopRecorder) RecordFallback(string)                      {}

// Generator produces every table of a run from one Source.
type Generator struct {
	src *Source
	log logging.Logger
	rec Recorder

	// base is the first day of the one-year order/shipment window.
	base time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithRecorder sets the metrics hook.
func WithRecorder(r Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.rec = r
		}
	}
}

// WithWindowStart moves the one-year date window.
func WithWindowStart(t time.Time) Option {
	return func(g *Generator) {
		g.base = t.UTC().Truncate(24 * time.Hour)
	}
}

// DefaultWindowStart is 2023-01-01.
var DefaultWindowStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

// NewGenerator returns a generator drawing from src.
func NewGenerator(src *Source, opts ...Option) *Generator {
	g := &Generator{
		src:  src,
		log:  logging.NewNopLogger(),
		rec:  nopRecorder{},
		base: DefaultWindowStart,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Source returns the generator's random source.
func (g *Generator) Source() *Source { return g.src }

// windowDate returns a uniform day in [base, base+365].
func (g *Generator) windowDate() time.Time {
	return g.base.AddDate(0, 0, g.src.IntRange(0, 365))
}

func (g *Generator) fallback(kind string, fields ...logging.Field) {
	g.rec.RecordFallback(kind)
	g.log.Debug("pool fallback", append(fields, logging.Fallback(kind))...)
}

func (g *Generator) done(table string, rows int, start time.Time) {
	elapsed := time.Since(start)
	g.rec.RecordGenerated(table, rows, elapsed)
	g.log.Debug("table generated", logging.Table(table), logging.Rows(rows), logging.Latency(elapsed))
}
