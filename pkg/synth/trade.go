package synth

import (
	"fmt"
	"strings"
	"time"

	"github.com/dd0wney/cluso-supplygen/pkg/catalog"
	"github.com/dd0wney/cluso-supplygen/pkg/logging"
)

// Specialty is the commodity a Tier-2 shipper trades in.
type Specialty string

const (
	SpecialtyLithium     Specialty = "lithium"
	SpecialtyCopper      Specialty = "copper"
	SpecialtyCobalt      Specialty = "cobalt"
	SpecialtyGraphite    Specialty = "graphite"
	SpecialtyElectrolyte Specialty = "electrolyte"
	SpecialtyNickel      Specialty = "nickel"
	SpecialtyCathode     Specialty = "cathode"
	SpecialtySeparator   Specialty = "separator"
)

// BatteryGrade reports whether shippers of this specialty route their
// concentrated share to battery makers. Only lithium does.
func (s Specialty) BatteryGrade() bool {
	return s == SpecialtyLithium
}

// ShipperProfile is a fictitious Tier-2 shipper. Shippers are never
// materialized as vendors; they appear only in trade records.
type ShipperProfile struct {
	Name          string
	Country       string
	Specialty     Specialty
	Concentration float64
	// Bottleneck marks the injected hidden concentration point. Its
	// battery-maker bias ignores specialty.
	Bottleneck bool
}

// BottleneckShipper is the injected hidden Tier-2 supplier.
const BottleneckShipper = "Vulcan Materials Refiner"

var shippers = []ShipperProfile{
	{BottleneckShipper, catalog.Chile, SpecialtyLithium, 0.60, true},
	{"Pacific Copper Mining", catalog.Chile, SpecialtyCopper, 0.25, false},
	{"Congo Cobalt Mines", catalog.DRCongo, SpecialtyCobalt, 0.40, false},
	{"Jiangxi Graphite Ltd", catalog.China, SpecialtyGraphite, 0.30, false},
	{"Tokyo Chemical Works", catalog.Japan, SpecialtyElectrolyte, 0.35, false},
	{"Bavaria Specialty Metals", catalog.Germany, SpecialtyNickel, 0.20, false},
	{"Queensland Minerals", catalog.Australia, SpecialtyLithium, 0.15, false},
	{"Atacama Mining Corp", catalog.Chile, SpecialtyLithium, 0.10, false},
	{"Shanghai Battery Materials", catalog.China, SpecialtyCathode, 0.25, false},
	{"Korean Precision Chemicals", catalog.SouthKorea, SpecialtySeparator, 0.30, false},
}

// Shippers returns the Tier-2 shipper profiles.
func Shippers() []ShipperProfile {
	return append([]ShipperProfile(nil), shippers...)
}

// Bottleneck returns the injected bottleneck profile.
func Bottleneck() ShipperProfile {
	for _, s := range shippers {
		if s.Bottleneck {
			return s
		}
	}
	panic("synth: no bottleneck shipper configured")
}

// DefaultHSCode is used for specialties with no mapped codes.
const DefaultHSCode = "8507.60"

// DefaultHSDescription is used for codes with no mapped description.
const DefaultHSDescription = "Industrial Materials"

var specialtyHSCodes = map[Specialty][]string{
	SpecialtyLithium:     {"2836.91", "2825.20"},
	SpecialtyCopper:      {"7408.11", "7409.11"},
	SpecialtyCobalt:      {"8106.00"},
	SpecialtyGraphite:    {"3801.10"},
	SpecialtyElectrolyte: {"2826.19"},
	SpecialtyNickel:      {"7502.10"},
	SpecialtyCathode:     {"8507.90"},
	SpecialtySeparator:   {"3920.10"},
}

var hsDescriptions = map[string]string{
	"2836.91": "Lithium Carbonate",
	"2825.20": "Lithium Hydroxide",
	"8106.00": "Cobalt and Cobalt Products",
	"7408.11": "Copper Wire",
	"7409.11": "Copper Plates",
	"8507.60": "Lithium-ion Batteries",
	"8541.40": "Semiconductor Devices",
	"3904.10": "PVC Compounds",
	"7601.10": "Aluminum Unwrought",
}

// HSCodesFor returns the commodity codes of a specialty, or the default
// battery-parts code when the specialty is unmapped.
func HSCodesFor(s Specialty) []string {
	if codes, ok := specialtyHSCodes[s]; ok {
		return append([]string(nil), codes...)
	}
	return []string{DefaultHSCode}
}

// HSDescription returns the description of a commodity code.
func HSDescription(code string) string {
	if d, ok := hsDescriptions[code]; ok {
		return d
	}
	return DefaultHSDescription
}

// batteryKeywords are matched against lower-cased vendor names.
var batteryKeywords = []string{"battery", "energy", "sdi", "lg", "catl", "byd", "panasonic", "sk", "aesc"}

// batteryFallbackRegions is used when no vendor name looks like a battery maker.
var batteryFallbackRegions = []string{catalog.SouthKorea, catalog.Japan, catalog.China}

const batteryFallbackCap = 10

// IsBatteryMakerName reports whether a vendor name suggests an end-product
// battery manufacturer.
func IsBatteryMakerName(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range batteryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// BatteryMakers returns the vendors treated as battery manufacturers: a
// name match, or failing that up to ten vendors in East-Asian regions.
// The result may be empty.
func BatteryMakers(vendors []Vendor) []Vendor {
	subset, _ := batteryMakers(vendors)
	return subset
}

func batteryMakers(vendors []Vendor) (subset []Vendor, byRegion bool) {
	for _, v := range vendors {
		if IsBatteryMakerName(v.Name) {
			subset = append(subset, v)
		}
	}
	if len(subset) > 0 {
		return subset, false
	}

	for _, v := range vendors {
		for _, code := range batteryFallbackRegions {
			if v.CountryCode == code {
				subset = append(subset, v)
				break
			}
		}
		if len(subset) == batteryFallbackCap {
			break
		}
	}
	return subset, true
}

const tradeIDBase = 88001

// TradeFlows generates count external shipment records. The bottleneck
// shipper sends its concentrated share to battery makers regardless of
// specialty; other shippers do so only for battery-grade specialties.
// An empty battery-maker subset degrades to the full vendor pool.
func (g *Generator) TradeFlows(vendors []Vendor, count int) ([]TradeFlow, error) {
	const op = "TradeFlows"
	if count < 0 {
		return nil, invalidCount(op, "count", count)
	}
	if count == 0 {
		return []TradeFlow{}, nil
	}
	if len(vendors) == 0 {
		return nil, &GenError{Op: op, Field: "vendors", Cause: ErrEmptyVendorPool}
	}

	start := time.Now()
	makers, byRegion := batteryMakers(vendors)
	if byRegion {
		g.fallback(FallbackBatteryRegion, logging.Count(len(makers)))
	}
	if len(makers) == 0 {
		g.fallback(FallbackBatteryPool)
	}

	records := make([]TradeFlow, 0, count)
	for i := 0; i < count; i++ {
		shipper := Pick(g.src, shippers)
		consignee := g.pickConsignee(shipper, vendors, makers)

		hsCode := Pick(g.src, HSCodesFor(shipper.Specialty))
		shipped := g.windowDate()
		weight := g.src.IntRange(5000, 50000)
		value := float64(weight) * g.src.Uniform(10, 100)

		records = append(records, TradeFlow{
			ID:                fmt.Sprintf("BL-%d", tradeIDBase+i),
			ShipperName:       shipper.Name,
			ShipperCountry:    shipper.Country,
			ConsigneeName:     consignee.Name,
			ConsigneeCountry:  consignee.CountryCode,
			HSCode:            hsCode,
			HSDescription:     HSDescription(hsCode),
			ShipDate:          shipped,
			WeightKg:          weight,
			ValueUSD:          Round2(value),
			PortOfOrigin:      catalog.PortFor(shipper.Country),
			PortOfDestination: catalog.PortFor(consignee.CountryCode),
		})
	}

	g.done(TableTradeData, len(records), start)
	return records, nil
}

func (g *Generator) pickConsignee(s ShipperProfile, vendors, makers []Vendor) Vendor {
	if !g.src.Chance(s.Concentration) {
		return Pick(g.src, vendors)
	}
	biased := s.Bottleneck || s.Specialty.BatteryGrade()
	if biased && len(makers) > 0 {
		return Pick(g.src, makers)
	}
	return Pick(g.src, vendors)
}
