// Package analysis surfaces hidden Tier-2 dependencies in a generated
// dataset: which shippers concentrate on battery manufacturers, the trade
// evidence behind them and how far their reach extends into the bill of
// materials.
package analysis

import (
	"sort"

	"github.com/dd0wney/cluso-supplygen/pkg/synth"
)

// MinShipments is the smallest sample DetectBottleneck will rank.
const MinShipments = 5

// ShipperStat summarises one shipper's trade records.
type ShipperStat struct {
	Shipper          string  `json:"shipper"`
	Country          string  `json:"country"`
	Shipments        int     `json:"shipments"`
	TradeShare       float64 `json:"trade_share"`
	BatteryShipments int     `json:"battery_shipments"`
	BatteryShare     float64 `json:"battery_share"`
	Consignees       int     `json:"consignees"`
	TotalWeightKg    int     `json:"total_weight_kg"`
	TotalValueUSD    float64 `json:"total_value_usd"`
}

// ShipperConcentration computes per-shipper statistics. BatteryShare is
// the fraction of a shipper's records whose consignee is in
// batteryMakers. Results are ordered by BatteryShare, then Shipments,
// descending.
func ShipperConcentration(trade []synth.TradeFlow, batteryMakers []synth.Vendor) []ShipperStat {
	makers := make(map[string]struct{}, len(batteryMakers))
	for _, v := range batteryMakers {
		makers[v.Name] = struct{}{}
	}

	byShipper := make(map[string]*ShipperStat)
	consignees := make(map[string]map[string]struct{})
	for _, t := range trade {
		st, ok := byShipper[t.ShipperName]
		if !ok {
			st = &ShipperStat{Shipper: t.ShipperName, Country: t.ShipperCountry}
			byShipper[t.ShipperName] = st
			consignees[t.ShipperName] = make(map[string]struct{})
		}
		st.Shipments++
		st.TotalWeightKg += t.WeightKg
		st.TotalValueUSD += t.ValueUSD
		if _, ok := makers[t.ConsigneeName]; ok {
			st.BatteryShipments++
		}
		consignees[t.ShipperName][t.ConsigneeName] = struct{}{}
	}

	stats := make([]ShipperStat, 0, len(byShipper))
	for name, st := range byShipper {
		st.Consignees = len(consignees[name])
		st.TradeShare = float64(st.Shipments) / float64(len(trade))
		st.BatteryShare = float64(st.BatteryShipments) / float64(st.Shipments)
		st.TotalValueUSD = synth.Round2(st.TotalValueUSD)
		stats = append(stats, *st)
	}

	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]
		if a.BatteryShare != b.BatteryShare {
			return a.BatteryShare > b.BatteryShare
		}
		if a.Shipments != b.Shipments {
			return a.Shipments > b.Shipments
		}
		return a.Shipper < b.Shipper
	})
	return stats
}

// DetectBottleneck returns the shipper with the highest battery-maker
// concentration among those with at least MinShipments records. The
// battery-maker subset is derived the same way the generator derives it.
func DetectBottleneck(ds *synth.Dataset) (ShipperStat, bool) {
	for _, st := range ShipperConcentration(ds.TradeFlows, synth.BatteryMakers(ds.Vendors)) {
		if st.Shipments >= MinShipments {
			return st, true
		}
	}
	return ShipperStat{}, false
}
