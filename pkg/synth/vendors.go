package synth

import (
	"fmt"
	"strings"
	"time"

	"github.com/dd0wney/cluso-supplygen/pkg/catalog"
	"github.com/dd0wney/cluso-supplygen/pkg/logging"
)

// Category selects the name pool a vendor is drawn from.
type Category string

const (
	CategoryBattery     Category = "battery"
	CategoryLithium     Category = "lithium"
	CategoryCobalt      Category = "cobalt"
	CategoryCopper      Category = "copper"
	CategoryElectronics Category = "electronics"
	CategoryMaterials   Category = "materials"
	CategoryGeneric     Category = "generic"
)

// Title is the capitalised category used in synthesized names.
func (c Category) Title() string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var namePools = map[Category][]string{
	CategoryBattery: {
		"Samsung SDI Co.", "LG Energy Solution", "CATL", "BYD Battery",
		"Panasonic Energy", "SK On", "AESC", "CALB", "EVE Energy",
		"Gotion High-Tech", "Farasis Energy", "Svolt Energy",
	},
	CategoryLithium: {
		"Albemarle Corp", "SQM Mining", "Livent Corp", "Ganfeng Lithium",
		"Tianqi Lithium", "Pilbara Minerals", "Allkem Ltd", "Sigma Lithium",
	},
	CategoryCobalt: {
		"Glencore Cobalt", "Umicore SA", "Freeport Cobalt", "Chemaf SPRL",
		"ERG Africa", "Katanga Mining",
	},
	CategoryCopper: {
		"Codelco", "Freeport-McMoRan", "BHP Copper", "Southern Copper",
		"Antofagasta PLC", "First Quantum",
	},
	CategoryElectronics: {
		"Texas Instruments", "Infineon Technologies", "NXP Semiconductors",
		"STMicroelectronics", "Renesas Electronics", "ON Semiconductor",
	},
	CategoryMaterials: {
		"BASF Materials", "Umicore Materials", "Sumitomo Chemical",
		"Mitsubishi Chemical", "3M Advanced Materials", "DuPont Electronics",
	},
	CategoryGeneric: {
		"Alpha Industries", "Beta Components", "Gamma Manufacturing",
		"Delta Materials", "Epsilon Tech", "Zeta Precision", "Theta Systems",
	},
}

// NamePool returns a copy of the names available for a category.
func NamePool(c Category) []string {
	return append([]string(nil), namePools[c]...)
}

// categoryRule biases vendors in a region toward a specialty.
type categoryRule struct {
	category    Category
	probability float64
}

// regionCategoryRules is keyed by region code. A region absent from the
// table has no declared specialty and always uses fallbackCategories.
var regionCategoryRules = map[string]categoryRule{
	catalog.Chile:        {CategoryLithium, 0.6},
	catalog.Australia:    {CategoryLithium, 0.6},
	catalog.DRCongo:      {CategoryCobalt, 0.7},
	catalog.SouthKorea:   {CategoryBattery, 0.4},
	catalog.China:        {CategoryBattery, 0.4},
	catalog.Japan:        {CategoryBattery, 0.4},
	catalog.UnitedStates: {CategoryElectronics, 0.3},
	catalog.Germany:      {CategoryElectronics, 0.3},
}

var fallbackCategories = []Category{CategoryMaterials, CategoryGeneric, CategoryCopper}

// vendorIDBase is the numeric part of the first vendor id.
const vendorIDBase = 10001

// Vendors generates count Tier-1 vendors with run-unique names.
func (g *Generator) Vendors(count int) ([]Vendor, error) {
	if count < 0 {
		return nil, invalidCount("Vendors", "count", count)
	}
	start := time.Now()

	regions := catalog.Regions()
	weights := catalog.Weights()
	used := make(map[string]struct{}, count)
	vendors := make([]Vendor, 0, count)

	for i := 0; i < count; i++ {
		region := regions[g.src.WeightedIndex(weights)]
		city := Pick(g.src, region.Cities)
		category := g.pickCategory(region.Code)
		name := g.uniqueName(category, i, used)

		vendors = append(vendors, Vendor{
			ID:              fmt.Sprintf("V%d", vendorIDBase+i),
			Name:            name,
			CountryCode:     region.Code,
			City:            city,
			Phone:           g.phone(region.PhonePrefix),
			Tier:            1,
			FinancialHealth: Round2(g.src.Uniform(0.3, 0.95)),
		})
	}

	g.done(TableVendors, len(vendors), start)
	return vendors, nil
}

func (g *Generator) pickCategory(region string) Category {
	if rule, ok := regionCategoryRules[region]; ok && g.src.Chance(rule.probability) {
		return rule.category
	}
	return Pick(g.src, fallbackCategories)
}

// uniqueName picks an unused pool name, or synthesizes one once the pool
// is exhausted. Synthesized names carry a counter so they never collide.
func (g *Generator) uniqueName(category Category, i int, used map[string]struct{}) string {
	pool := namePools[category]
	available := make([]string, 0, len(pool))
	for _, n := range pool {
		if _, taken := used[n]; !taken {
			available = append(available, n)
		}
	}

	var name string
	if len(available) > 0 {
		name = Pick(g.src, available)
	} else {
		g.fallback(FallbackVendorName, logging.String("category", string(category)))
		for n := i + 1; ; n++ {
			name = fmt.Sprintf("%s Corp %d", category.Title(), n)
			if _, taken := used[name]; !taken {
				break
			}
		}
	}
	used[name] = struct{}{}
	return name
}

func (g *Generator) phone(prefix string) string {
	return fmt.Sprintf("%s-%d-%d-%d",
		prefix,
		g.src.IntRange(100, 999),
		g.src.IntRange(100, 999),
		g.src.IntRange(1000, 9999),
	)
}
