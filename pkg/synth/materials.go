package synth

import (
	"fmt"
	"time"
)

// FinishedGoodID is the single FIN root of the hierarchy.
const FinishedGoodID = "M-1000"

type materialDef struct {
	id          string
	description string
	group       MaterialGroup
	unit        string
	criticality float64
}

var finishedGoods = []materialDef{
	{FinishedGoodID, "EV Battery Pack 85kWh", GroupFinished, "PC", 1.0},
}

var semiFinished = []materialDef{
	{"M-2001", "Battery Module 400V", GroupSemi, "PC", 0.95},
	{"M-2002", "Battery Management System", GroupSemi, "PC", 0.9},
	{"M-2003", "Thermal Management Assembly", GroupSemi, "PC", 0.85},
	{"M-2004", "Battery Enclosure Assembly", GroupSemi, "PC", 0.8},
	{"M-2005", "High-Voltage Harness", GroupSemi, "PC", 0.85},
}

var rawMaterials = []materialDef{
	// lithium compounds
	{"M-3001", "Lithium Hydroxide Grade A", GroupRaw, "KG", 0.95},
	{"M-3002", "Lithium Carbonate Battery Grade", GroupRaw, "KG", 0.95},
	// cathode
	{"M-3003", "Cobalt Oxide Powder", GroupRaw, "KG", 0.9},
	{"M-3004", "Nickel Sulfate Battery Grade", GroupRaw, "KG", 0.85},
	{"M-3005", "Manganese Dioxide", GroupRaw, "KG", 0.75},
	// anode
	{"M-3006", "Synthetic Graphite Anode", GroupRaw, "KG", 0.85},
	{"M-3007", "Silicon Anode Additive", GroupRaw, "KG", 0.7},
	// copper
	{"M-3008", "Copper Foil 8 Micron", GroupRaw, "KG", 0.85},
	{"M-3009", "Copper Busbar 5mm", GroupRaw, "KG", 0.8},
	// aluminum
	{"M-3010", "Aluminum Foil 15 Micron", GroupRaw, "KG", 0.8},
	{"M-3011", "Aluminum Housing Profile", GroupRaw, "KG", 0.7},
	{"M-3012", "Electrolyte LiPF6 Solution", GroupRaw, "L", 0.9},
	{"M-3013", "Ceramic Coated Separator", GroupRaw, "M2", 0.9},
	// electronics
	{"M-3014", "BMS Controller IC", GroupRaw, "PC", 0.85},
	{"M-3015", "Cell Monitoring ASIC", GroupRaw, "PC", 0.85},
	{"M-3016", "Power MOSFET Module", GroupRaw, "PC", 0.8},
	// thermal
	{"M-3017", "Thermal Interface Material", GroupRaw, "KG", 0.75},
	{"M-3018", "Cooling Plate Aluminum", GroupRaw, "PC", 0.7},
	// wiring
	{"M-3019", "High-Voltage Cable 35mm2", GroupRaw, "M", 0.8},
	{"M-3020", "Connector Assembly HV", GroupRaw, "PC", 0.75},
}

// assemblyGroup lists the RAW inputs of one SEMI assembly.
type assemblyGroup struct {
	parent   string
	children []string
}

// semiToRaw is ordered so BOM ids are stable across runs. M-3005 and
// M-3007 are purchased but consumed by no assembly.
var semiToRaw = []assemblyGroup{
	{"M-2001", []string{"M-3001", "M-3002", "M-3003", "M-3004", "M-3006", "M-3008", "M-3010", "M-3012", "M-3013"}},
	{"M-2002", []string{"M-3014", "M-3015", "M-3016"}},
	{"M-2003", []string{"M-3017", "M-3018"}},
	{"M-2004", []string{"M-3011"}},
	{"M-2005", []string{"M-3009", "M-3019", "M-3020"}},
}

// Hierarchy cardinalities.
const (
	FinishedCount = 1
	SemiCount     = 5
	RawCount      = 20
	MaterialCount = FinishedCount + SemiCount + RawCount
)

// BOMEdgeCount is the fixed number of BOM edges: one per SEMI plus the
// sum of the assembly group sizes.
func BOMEdgeCount() int {
	n := len(semiFinished)
	for _, grp := range semiToRaw {
		n += len(grp.children)
	}
	return n
}

// Materials returns the fixed 26-node hierarchy and its BOM. Only
// inventory days and quantities per unit are random.
func (g *Generator) Materials() ([]Material, []BOMEdge) {
	start := time.Now()

	defs := make([]materialDef, 0, MaterialCount)
	defs = append(defs, finishedGoods...)
	defs = append(defs, semiFinished...)
	defs = append(defs, rawMaterials...)

	materials := make([]Material, 0, len(defs))
	for _, d := range defs {
		materials = append(materials, Material{
			ID:            d.id,
			Description:   d.description,
			Group:         d.group,
			Unit:          d.unit,
			Criticality:   d.criticality,
			InventoryDays: g.src.IntRange(15, 60),
		})
	}

	bom := make([]BOMEdge, 0, BOMEdgeCount())
	nextID := func() string { return fmt.Sprintf("BOM-%04d", len(bom)+1) }

	for _, semi := range semiFinished {
		bom = append(bom, BOMEdge{
			ID:              nextID(),
			ParentID:        FinishedGoodID,
			ChildID:         semi.id,
			QuantityPerUnit: float64(g.src.IntRange(1, 4)),
		})
	}
	for _, grp := range semiToRaw {
		for _, child := range grp.children {
			bom = append(bom, BOMEdge{
				ID:              nextID(),
				ParentID:        grp.parent,
				ChildID:         child,
				QuantityPerUnit: Round2(g.src.Uniform(0.5, 10)),
			})
		}
	}

	g.done(TableMaterials, len(materials), start)
	g.done(TableBOM, len(bom), start)
	return materials, bom
}
