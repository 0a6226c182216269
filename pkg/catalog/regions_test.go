package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegions_FixedOrder(t *testing.T) {
	want := []string{"CHN", "KOR", "JPN", "USA", "MEX", "DEU", "CHL", "AUS", "COD"}
	assert.Equal(t, want, Codes())
	assert.Len(t, Regions(), len(want))
}

func TestRegions_AttributesInRange(t *testing.T) {
	for _, r := range Regions() {
		t.Run(r.Code, func(t *testing.T) {
			assert.NotEmpty(t, r.Name)
			assert.NotEmpty(t, r.Cities)
			assert.Greater(t, r.Weight, 0.0)
			for _, score := range []float64{r.BaseRisk, r.Geopolitical, r.NaturalHazard, r.Infrastructure} {
				assert.GreaterOrEqual(t, score, 0.0)
				assert.LessOrEqual(t, score, 1.0)
			}
			assert.Regexp(t, `^\+\d+$`, r.PhonePrefix)
			assert.NotEqual(t, UnknownPort, r.Port)
		})
	}
}

func TestRegions_ReturnsCopies(t *testing.T) {
	rs := Regions()
	rs[0].Cities[0] = "Atlantis"
	rs[0].Weight = 99

	again, ok := Lookup(rs[0].Code)
	require.True(t, ok)
	assert.Equal(t, "Shanghai", again.Cities[0])
	assert.Equal(t, 0.15, again.Weight)
}

func TestLookup(t *testing.T) {
	r, ok := Lookup(Chile)
	require.True(t, ok)
	assert.Equal(t, "Chile", r.Name)
	assert.Equal(t, 0.6, r.NaturalHazard)

	_, ok = Lookup("XXX")
	assert.False(t, ok)
}

func TestPortFor(t *testing.T) {
	assert.Equal(t, "Port of Busan", PortFor(SouthKorea))
	assert.Equal(t, "Port of Dar es Salaam", PortFor(DRCongo))
	assert.Equal(t, UnknownPort, PortFor("ATL"))
}

func TestWeights_AlignedWithCodes(t *testing.T) {
	codes, weights := Codes(), Weights()
	require.Len(t, weights, len(codes))
	total := 0.0
	for i, code := range codes {
		r, _ := Lookup(code)
		assert.Equal(t, r.Weight, weights[i])
		total += weights[i]
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}
