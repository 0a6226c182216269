// Package catalog holds the static region reference data shared by the
// generators and the serialized REGIONS table.
package catalog

// UnknownPort is used when a region has no mapped port.
const UnknownPort = "Unknown Port"

// Region is a geographic/economic entity. All per-region attributes live
// on one value so the tables cannot drift apart.
type Region struct {
	Code   string
	Name   string
	Cities []string
	Weight float64

	BaseRisk       float64
	Geopolitical   float64
	NaturalHazard  float64
	Infrastructure float64 // higher is better

	PhonePrefix string
	Port        string
}

// ISO 3166-1 alpha-3 codes, in catalog order.
const (
	China        = "CHN"
	SouthKorea   = "KOR"
	Japan        = "JPN"
	UnitedStates = "USA"
	Mexico       = "MEX"
	Germany      = "DEU"
	Chile        = "CHL"
	Australia    = "AUS"
	DRCongo      = "COD"
)

var regions = []Region{
	{
		Code: China, Name: "China", Weight: 0.15,
		Cities:   []string{"Shanghai", "Shenzhen", "Beijing", "Guangzhou"},
		BaseRisk: 0.3, Geopolitical: 0.5, NaturalHazard: 0.2, Infrastructure: 0.7,
		PhonePrefix: "+86", Port: "Port of Shanghai",
	},
	{
		Code: SouthKorea, Name: "South Korea", Weight: 0.15,
		Cities:   []string{"Seoul", "Busan", "Ulsan", "Daegu"},
		BaseRisk: 0.2, Geopolitical: 0.3, NaturalHazard: 0.3, Infrastructure: 0.9,
		PhonePrefix: "+82", Port: "Port of Busan",
	},
	{
		Code: Japan, Name: "Japan", Weight: 0.10,
		Cities:   []string{"Tokyo", "Osaka", "Nagoya", "Yokohama"},
		BaseRisk: 0.2, Geopolitical: 0.1, NaturalHazard: 0.5, Infrastructure: 0.95,
		PhonePrefix: "+81", Port: "Port of Yokohama",
	},
	{
		Code: UnitedStates, Name: "United States", Weight: 0.20,
		Cities:   []string{"Charlotte", "Detroit", "Houston", "Phoenix"},
		BaseRisk: 0.1, Geopolitical: 0.1, NaturalHazard: 0.2, Infrastructure: 0.9,
		PhonePrefix: "+1", Port: "Port of Los Angeles",
	},
	{
		Code: Mexico, Name: "Mexico", Weight: 0.10,
		Cities:   []string{"Monterrey", "Mexico City", "Guadalajara", "Tijuana"},
		BaseRisk: 0.3, Geopolitical: 0.2, NaturalHazard: 0.3, Infrastructure: 0.6,
		PhonePrefix: "+52", Port: "Port of Manzanillo",
	},
	{
		Code: Germany, Name: "Germany", Weight: 0.10,
		Cities:   []string{"Munich", "Stuttgart", "Frankfurt", "Berlin"},
		BaseRisk: 0.1, Geopolitical: 0.1, NaturalHazard: 0.1, Infrastructure: 0.95,
		PhonePrefix: "+49", Port: "Port of Hamburg",
	},
	{
		// High earthquake exposure.
		Code: Chile, Name: "Chile", Weight: 0.10,
		Cities:   []string{"Santiago", "Antofagasta", "Valparaiso", "Concepcion"},
		BaseRisk: 0.4, Geopolitical: 0.2, NaturalHazard: 0.6, Infrastructure: 0.7,
		PhonePrefix: "+56", Port: "Port of Antofagasta",
	},
	{
		Code: Australia, Name: "Australia", Weight: 0.05,
		Cities:   []string{"Perth", "Sydney", "Melbourne", "Brisbane"},
		BaseRisk: 0.2, Geopolitical: 0.1, NaturalHazard: 0.3, Infrastructure: 0.85,
		PhonePrefix: "+61", Port: "Port of Fremantle",
	},
	{
		Code: DRCongo, Name: "DR Congo", Weight: 0.05,
		Cities:   []string{"Lubumbashi", "Kolwezi", "Kinshasa", "Likasi"},
		BaseRisk: 0.7, Geopolitical: 0.8, NaturalHazard: 0.3, Infrastructure: 0.3,
		PhonePrefix: "+243", Port: "Port of Dar es Salaam",
	},
}

var byCode = func() map[string]int {
	m := make(map[string]int, len(regions))
	for i, r := range regions {
		m[r.Code] = i
	}
	return m
}()

// Regions returns the catalog in its fixed order. The result is a deep
// copy; mutating it does not affect the catalog.
func Regions() []Region {
	out := make([]Region, len(regions))
	for i, r := range regions {
		out[i] = r.clone()
	}
	return out
}

// Codes returns the region codes in catalog order.
func Codes() []string {
	codes := make([]string, len(regions))
	for i, r := range regions {
		codes[i] = r.Code
	}
	return codes
}

// Weights returns the sampling weights aligned with Codes.
func Weights() []float64 {
	w := make([]float64, len(regions))
	for i, r := range regions {
		w[i] = r.Weight
	}
	return w
}

// Lookup returns the region with the given code.
func Lookup(code string) (Region, bool) {
	i, ok := byCode[code]
	if !ok {
		return Region{}, false
	}
	return regions[i].clone(), true
}

// PortFor returns the main port of a region, or UnknownPort.
func PortFor(code string) string {
	if i, ok := byCode[code]; ok && regions[i].Port != "" {
		return regions[i].Port
	}
	return UnknownPort
}

func (r Region) clone() Region {
	r.Cities = append([]string(nil), r.Cities...)
	return r
}
