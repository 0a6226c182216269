package analysis

import (
	"sort"

	"github.com/dd0wney/cluso-supplygen/pkg/synth"
)

// ExposureReport is the hidden reach of a Tier-2 shipper: the Tier-1
// vendors it ships to and, through their purchase orders and the bill
// of materials, the parts of the product that depend on it.
type ExposureReport struct {
	Shipper string `json:"shipper"`
	// Vendors are the generated vendors the shipper ships to, by id.
	Vendors []synth.Vendor `json:"vendors"`
	// Materials are the ids those vendors supply through purchase orders.
	Materials []string `json:"materials"`
	// Assemblies are SEMI and FIN ids that consume Materials, directly or
	// transitively.
	Assemblies    []string `json:"assemblies"`
	Orders        int      `json:"orders"`
	OpenOrders    int      `json:"open_orders"`
	OrderValueUSD float64  `json:"order_value_usd"`
	// VendorShare is len(Vendors) over all vendors in the dataset.
	VendorShare float64 `json:"vendor_share"`
}

// DependentCount is the number of Tier-1 vendors exposed to the shipper.
func (r ExposureReport) DependentCount() int { return len(r.Vendors) }

// ReachesFinishedGood reports whether the exposure climbs all the way to
// the finished product.
func (r ExposureReport) ReachesFinishedGood() bool {
	for _, id := range r.Assemblies {
		if id == synth.FinishedGoodID {
			return true
		}
	}
	return false
}

// Exposure traces shipper through trade flows, purchase orders and the
// BOM. Consignees that are not generated vendors are ignored.
func Exposure(ds *synth.Dataset, shipper string) ExposureReport {
	report := ExposureReport{Shipper: shipper}

	byName := ds.VendorByName()
	exposed := make(map[string]synth.Vendor)
	for _, t := range ds.TradeFlows {
		if t.ShipperName != shipper {
			continue
		}
		if v, ok := byName[t.ConsigneeName]; ok {
			exposed[v.ID] = v
		}
	}
	for _, v := range exposed {
		report.Vendors = append(report.Vendors, v)
	}
	sort.Slice(report.Vendors, func(i, j int) bool { return report.Vendors[i].ID < report.Vendors[j].ID })
	if len(ds.Vendors) > 0 {
		report.VendorShare = float64(len(exposed)) / float64(len(ds.Vendors))
	}

	supplied := make(map[string]struct{})
	for _, po := range ds.PurchaseOrders {
		if _, ok := exposed[po.VendorID]; !ok {
			continue
		}
		supplied[po.MaterialID] = struct{}{}
		report.Orders++
		report.OrderValueUSD += float64(po.Quantity) * po.UnitPrice
		if po.Status == synth.StatusOpen {
			report.OpenOrders++
		}
	}
	report.OrderValueUSD = synth.Round2(report.OrderValueUSD)
	report.Materials = sortedKeys(supplied)

	report.Assemblies = sortedKeys(consumers(ds.BOM, report.Materials))
	return report
}

// consumers walks BOM edges child→parent from every start id and returns
// every ancestor reached. Start ids themselves are excluded unless they
// are also an ancestor of another start id.
func consumers(bom []synth.BOMEdge, start []string) map[string]struct{} {
	parents := make(map[string][]string)
	for _, e := range bom {
		parents[e.ChildID] = append(parents[e.ChildID], e.ParentID)
	}

	reached := make(map[string]struct{})
	queue := append([]string(nil), start...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, p := range parents[id] {
			if _, seen := reached[p]; seen {
				continue
			}
			reached[p] = struct{}{}
			queue = append(queue, p)
		}
	}
	return reached
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
