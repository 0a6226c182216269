package synth

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-supplygen/pkg/logging"
)

const (
	orderIDBase   = 9001
	rawOrderShare = 0.85
	openShare     = 0.25
)

// PurchaseOrders generates count vendor→material orders. FIN materials
// are never ordered. Vendor choice follows the material's affinity,
// falling back to the full pool when no vendor sits in a preferred region.
func (g *Generator) PurchaseOrders(vendors []Vendor, materials []Material, count int) ([]PurchaseOrder, error) {
	const op = "PurchaseOrders"
	if count < 0 {
		return nil, invalidCount(op, "count", count)
	}
	if count == 0 {
		return []PurchaseOrder{}, nil
	}
	if len(vendors) == 0 {
		return nil, &GenError{Op: op, Field: "vendors", Cause: ErrEmptyVendorPool}
	}

	var raw, semi []Material
	for _, m := range materials {
		switch m.Group {
		case GroupRaw:
			raw = append(raw, m)
		case GroupSemi:
			semi = append(semi, m)
		}
	}
	if len(raw) == 0 && len(semi) == 0 {
		return nil, &GenError{Op: op, Field: "materials", Cause: ErrNoPurchasableMaterials}
	}

	start := time.Now()
	orders := make([]PurchaseOrder, 0, count)

	for i := 0; i < count; i++ {
		material := g.pickOrderMaterial(raw, semi)
		vendor := Pick(g.src, g.vendorPool(vendors, material.ID))

		var qty int
		var price float64
		if material.Group == GroupRaw {
			qty = g.src.IntRange(500, 10000)
			price = Round2(g.src.Uniform(5, 500))
		} else {
			qty = g.src.IntRange(50, 500)
			price = Round2(g.src.Uniform(500, 5000))
		}

		ordered := g.windowDate()
		status := StatusClosed
		if g.src.Chance(openShare) {
			status = StatusOpen
		}

		orders = append(orders, PurchaseOrder{
			ID:           fmt.Sprintf("PO-%d", orderIDBase+i),
			VendorID:     vendor.ID,
			MaterialID:   material.ID,
			Quantity:     qty,
			UnitPrice:    price,
			OrderDate:    ordered,
			DeliveryDate: ordered.AddDate(0, 0, g.src.IntRange(14, 90)),
			Status:       status,
		})
	}

	g.done(TablePurchaseOrders, len(orders), start)
	return orders, nil
}

func (g *Generator) pickOrderMaterial(raw, semi []Material) Material {
	switch {
	case len(semi) == 0:
		return Pick(g.src, raw)
	case len(raw) == 0:
		return Pick(g.src, semi)
	case g.src.Chance(rawOrderShare):
		return Pick(g.src, raw)
	default:
		return Pick(g.src, semi)
	}
}

// vendorPool filters vendors by the material's affinity.
func (g *Generator) vendorPool(vendors []Vendor, materialID string) []Vendor {
	aff := AffinityFor(materialID)
	if aff.Kind == NoAffinity {
		return vendors
	}

	preferred := make([]Vendor, 0, len(vendors))
	for _, v := range vendors {
		if aff.Allows(v.CountryCode) {
			preferred = append(preferred, v)
		}
	}
	if len(preferred) == 0 {
		g.fallback(FallbackPreferredRegion, logging.String("material_id", materialID))
		return vendors
	}
	return preferred
}
