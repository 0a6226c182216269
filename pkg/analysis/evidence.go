package analysis

import (
	"sort"

	"github.com/dd0wney/cluso-supplygen/pkg/synth"
)

// EvidenceRow aggregates one shipper's shipments to a consignee under one
// commodity code.
type EvidenceRow struct {
	Consignee        string  `json:"consignee"`
	ConsigneeCountry string  `json:"consignee_country"`
	HSCode           string  `json:"hs_code"`
	HSDescription    string  `json:"hs_description"`
	Shipments        int     `json:"shipments"`
	TotalWeightKg    int     `json:"total_weight_kg"`
	TotalValueUSD    float64 `json:"total_value_usd"`
}

type evidenceKey struct {
	consignee, hsCode string
}

// TradeEvidence groups shipper's records by consignee and HS code,
// heaviest first.
func TradeEvidence(trade []synth.TradeFlow, shipper string) []EvidenceRow {
	groups := make(map[evidenceKey]*EvidenceRow)
	for _, t := range trade {
		if t.ShipperName != shipper {
			continue
		}
		k := evidenceKey{t.ConsigneeName, t.HSCode}
		row, ok := groups[k]
		if !ok {
			row = &EvidenceRow{
				Consignee:        t.ConsigneeName,
				ConsigneeCountry: t.ConsigneeCountry,
				HSCode:           t.HSCode,
				HSDescription:    t.HSDescription,
			}
			groups[k] = row
		}
		row.Shipments++
		row.TotalWeightKg += t.WeightKg
		row.TotalValueUSD += t.ValueUSD
	}

	rows := make([]EvidenceRow, 0, len(groups))
	for _, r := range groups {
		r.TotalValueUSD = synth.Round2(r.TotalValueUSD)
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.TotalWeightKg != b.TotalWeightKg {
			return a.TotalWeightKg > b.TotalWeightKg
		}
		if a.Consignee != b.Consignee {
			return a.Consignee < b.Consignee
		}
		return a.HSCode < b.HSCode
	})
	return rows
}
