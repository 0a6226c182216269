package synth

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-supplygen/pkg/logging"
)

// Default counts; the bottleneck proportion is tuned for these.
const (
	DefaultVendors      = 50
	DefaultOrders       = 120
	DefaultTradeRecords = 150
)

// Options selects the size and seed of a run.
type Options struct {
	Seed         int64
	Vendors      int
	Orders       int
	TradeRecords int
}

// DefaultOptions returns seed 42 with 50 vendors, 120 orders and 150
// trade records.
func DefaultOptions() Options {
	return Options{
		Seed:         DefaultSeed,
		Vendors:      DefaultVendors,
		Orders:       DefaultOrders,
		TradeRecords: DefaultTradeRecords,
	}
}

// Validate rejects negative counts.
func (o Options) Validate() error {
	switch {
	case o.Vendors < 0:
		return invalidCount("Options", "Vendors", o.Vendors)
	case o.Orders < 0:
		return invalidCount("Options", "Orders", o.Orders)
	case o.TradeRecords < 0:
		return invalidCount("Options", "TradeRecords", o.TradeRecords)
	}
	return nil
}

// Dataset is the full output of one run.
type Dataset struct {
	Seed           int64
	Vendors        []Vendor
	Materials      []Material
	BOM            []BOMEdge
	PurchaseOrders []PurchaseOrder
	TradeFlows     []TradeFlow
	Regions        []RegionRisk
}

// Generate runs every generator in dependency order: materials and
// vendors first, then purchase orders and trade flows that reference
// them, then the region table.
func Generate(opts Options, genOpts ...Option) (*Dataset, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g := NewGenerator(NewSource(opts.Seed), genOpts...)
	timer := logging.StartTimer(g.log, "dataset generated", logging.Seed(opts.Seed))

	ds := &Dataset{Seed: opts.Seed}

	var err error
	if ds.Vendors, err = g.Vendors(opts.Vendors); err != nil {
		timer.EndError(err)
		return nil, err
	}
	ds.Materials, ds.BOM = g.Materials()
	if ds.PurchaseOrders, err = g.PurchaseOrders(ds.Vendors, ds.Materials, opts.Orders); err != nil {
		timer.EndError(err)
		return nil, err
	}
	if ds.TradeFlows, err = g.TradeFlows(ds.Vendors, opts.TradeRecords); err != nil {
		timer.EndError(err)
		return nil, err
	}

	start := time.Now()
	ds.Regions = RegionRisks()
	g.done(TableRegions, len(ds.Regions), start)

	timer.End()
	return ds, nil
}

// Validate checks referential integrity across the tables.
func (ds *Dataset) Validate() error {
	vendorIDs := make(map[string]struct{}, len(ds.Vendors))
	vendorNames := make(map[string]struct{}, len(ds.Vendors))
	for _, v := range ds.Vendors {
		vendorIDs[v.ID] = struct{}{}
		vendorNames[v.Name] = struct{}{}
	}
	materialIDs := make(map[string]struct{}, len(ds.Materials))
	for _, m := range ds.Materials {
		materialIDs[m.ID] = struct{}{}
	}

	dangling := func(table, id, column, ref string) error {
		return &GenError{
			Op:    "Validate",
			Field: table + "." + column,
			Cause: fmt.Errorf("%w: %s references %q", ErrDanglingReference, id, ref),
		}
	}

	for _, e := range ds.BOM {
		if _, ok := materialIDs[e.ParentID]; !ok {
			return dangling(TableBOM, e.ID, "PARENT_MATERIAL_ID", e.ParentID)
		}
		if _, ok := materialIDs[e.ChildID]; !ok {
			return dangling(TableBOM, e.ID, "CHILD_MATERIAL_ID", e.ChildID)
		}
	}
	for _, po := range ds.PurchaseOrders {
		if _, ok := vendorIDs[po.VendorID]; !ok {
			return dangling(TablePurchaseOrders, po.ID, "VENDOR_ID", po.VendorID)
		}
		if _, ok := materialIDs[po.MaterialID]; !ok {
			return dangling(TablePurchaseOrders, po.ID, "MATERIAL_ID", po.MaterialID)
		}
	}
	for _, t := range ds.TradeFlows {
		if _, ok := vendorNames[t.ConsigneeName]; !ok {
			return dangling(TableTradeData, t.ID, "CONSIGNEE_NAME", t.ConsigneeName)
		}
	}
	return nil
}

// VendorByName indexes vendors by name.
func (ds *Dataset) VendorByName() map[string]Vendor {
	m := make(map[string]Vendor, len(ds.Vendors))
	for _, v := range ds.Vendors {
		m[v.Name] = v
	}
	return m
}
