package synth

import "github.com/dd0wney/cluso-supplygen/pkg/catalog"

// AffinityKind distinguishes materials with a declared sourcing region
// set from those sourced anywhere.
type AffinityKind int

const (
	// NoAffinity means vendors are drawn from the full pool.
	NoAffinity AffinityKind = iota
	// RegionAffinity means vendors are drawn from Regions when possible.
	RegionAffinity
)

// Affinity is the sourcing preference of one material.
type Affinity struct {
	Kind    AffinityKind
	Regions []string
}

// Allows reports whether a vendor in region satisfies the affinity.
// Every region satisfies NoAffinity.
func (a Affinity) Allows(region string) bool {
	if a.Kind == NoAffinity {
		return true
	}
	for _, r := range a.Regions {
		if r == region {
			return true
		}
	}
	return false
}

var (
	lithiumRegions     = []string{catalog.Chile, catalog.Australia, catalog.China}
	cobaltRegions      = []string{catalog.DRCongo, catalog.China}
	refiningRegions    = []string{catalog.China, catalog.Japan}
	copperRegions      = []string{catalog.Chile, catalog.UnitedStates}
	semiconductorHubs  = []string{catalog.UnitedStates, catalog.Japan, catalog.SouthKorea, catalog.Germany}
	powerDeviceRegions = []string{catalog.Germany, catalog.Japan, catalog.UnitedStates}
)

var materialAffinities = map[string][]string{
	"M-3001": lithiumRegions,     // lithium hydroxide
	"M-3002": lithiumRegions,     // lithium carbonate
	"M-3003": cobaltRegions,      // cobalt oxide
	"M-3004": refiningRegions,    // nickel sulfate
	"M-3006": refiningRegions,    // graphite
	"M-3008": copperRegions,      // copper foil
	"M-3009": copperRegions,      // copper busbar
	"M-3014": semiconductorHubs,  // BMS IC
	"M-3015": semiconductorHubs,  // ASIC
	"M-3016": powerDeviceRegions, // MOSFET
}

// AffinityFor returns the sourcing preference of a material.
func AffinityFor(materialID string) Affinity {
	regions, ok := materialAffinities[materialID]
	if !ok {
		return Affinity{Kind: NoAffinity}
	}
	return Affinity{Kind: RegionAffinity, Regions: append([]string(nil), regions...)}
}
