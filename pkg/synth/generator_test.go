package synth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-supplygen/pkg/catalog"
)

type fakeRecorder struct {
	generated map[string]int
	fallbacks map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{generated: map[string]int{}, fallbacks: map[string]int{}}
}

func (f *fakeRecorder) RecordGenerated(table string, rows int, _ time.Duration) {
	f.generated[table] += rows
}

func (f *fakeRecorder) RecordFallback(kind string) {
	f.fallbacks[kind]++
}

// plainVendors builds vendors with no battery-maker names, all in region.
func plainVendors(n int, region string) []Vendor {
	out := make([]Vendor, n)
	for i := range out {
		out[i] = Vendor{
			ID:          fmt.Sprintf("V%d", vendorIDBase+i),
			Name:        fmt.Sprintf("Generic Parts %d", i),
			CountryCode: region,
			Tier:        1,
		}
	}
	return out
}

func TestVendors_Attributes(t *testing.T) {
	g := NewGenerator(NewSource(42))
	vendors, err := g.Vendors(200)
	require.NoError(t, err)
	require.Len(t, vendors, 200)

	phone := regexp.MustCompile(`^\+\d+-\d{3}-\d{3}-\d{4}$`)
	for i, v := range vendors {
		assert.Equal(t, fmt.Sprintf("V%d", 10001+i), v.ID)
		assert.Equal(t, 1, v.Tier)
		assert.GreaterOrEqual(t, v.FinancialHealth, 0.3)
		assert.LessOrEqual(t, v.FinancialHealth, 0.95)
		assert.Equal(t, Round2(v.FinancialHealth), v.FinancialHealth)

		region, ok := catalog.Lookup(v.CountryCode)
		require.True(t, ok, "unknown region %s", v.CountryCode)
		assert.Contains(t, region.Cities, v.City)
		assert.Regexp(t, phone, v.Phone)
		assert.True(t, strings.HasPrefix(v.Phone, region.PhonePrefix+"-"))
	}
}

func TestVendors_NamesUniqueBeyondPools(t *testing.T) {
	rec := newFakeRecorder()
	g := NewGenerator(NewSource(5), WithRecorder(rec))

	vendors, err := g.Vendors(1000)
	require.NoError(t, err)
	require.Len(t, vendors, 1000)

	names := make(map[string]struct{}, len(vendors))
	for _, v := range vendors {
		_, dup := names[v.Name]
		assert.False(t, dup, "duplicate name %q", v.Name)
		names[v.Name] = struct{}{}
	}
	assert.Positive(t, rec.fallbacks[FallbackVendorName])
	assert.Equal(t, 1000, rec.generated[TableVendors])
}

func TestVendors_ZeroAndNegative(t *testing.T) {
	g := NewGenerator(NewSource(1))

	vendors, err := g.Vendors(0)
	require.NoError(t, err)
	assert.Empty(t, vendors)

	_, err = g.Vendors(-1)
	assert.ErrorIs(t, err, ErrInvalidCount)
	var genErr *GenError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, "Vendors", genErr.Op)
}

func TestVendors_RegionDistribution(t *testing.T) {
	g := NewGenerator(NewSource(11))
	vendors, err := g.Vendors(5000)
	require.NoError(t, err)

	counts := map[string]int{}
	for _, v := range vendors {
		counts[v.CountryCode]++
	}
	for _, r := range catalog.Regions() {
		assert.InDelta(t, r.Weight, float64(counts[r.Code])/5000, 0.03, r.Code)
	}
}

func TestMaterials_Hierarchy(t *testing.T) {
	g := NewGenerator(NewSource(42))
	materials, bom := g.Materials()

	require.Len(t, materials, MaterialCount)
	assert.Equal(t, 26, MaterialCount)
	require.Len(t, bom, BOMEdgeCount())
	assert.Equal(t, 23, BOMEdgeCount())

	groups := map[string]MaterialGroup{}
	perGroup := map[MaterialGroup]int{}
	for _, m := range materials {
		groups[m.ID] = m.Group
		perGroup[m.Group]++
		assert.GreaterOrEqual(t, m.InventoryDays, 15)
		assert.LessOrEqual(t, m.InventoryDays, 60)
		assert.GreaterOrEqual(t, m.Criticality, 0.0)
		assert.LessOrEqual(t, m.Criticality, 1.0)
	}
	assert.Equal(t, 1, perGroup[GroupFinished])
	assert.Equal(t, 5, perGroup[GroupSemi])
	assert.Equal(t, 20, perGroup[GroupRaw])

	children := map[string]int{}
	for i, e := range bom {
		assert.Equal(t, fmt.Sprintf("BOM-%04d", i+1), e.ID)
		parent, child := groups[e.ParentID], groups[e.ChildID]
		switch parent {
		case GroupFinished:
			assert.Equal(t, GroupSemi, child, e.ID)
			assert.Contains(t, []float64{1, 2, 3, 4}, e.QuantityPerUnit)
		case GroupSemi:
			assert.Equal(t, GroupRaw, child, e.ID)
			assert.GreaterOrEqual(t, e.QuantityPerUnit, 0.5)
			assert.LessOrEqual(t, e.QuantityPerUnit, 10.0)
		default:
			t.Errorf("%s: %s material %s has outgoing edge", e.ID, parent, e.ParentID)
		}
		children[e.ParentID]++
	}
	assert.Equal(t, 5, children[FinishedGoodID])
	assert.Equal(t, 9, children["M-2001"])
	assert.Equal(t, 3, children["M-2002"])
}

func TestPurchaseOrders_AffinityBias(t *testing.T) {
	g := NewGenerator(NewSource(42))
	vendors, err := g.Vendors(50)
	require.NoError(t, err)
	materials, _ := g.Materials()

	var lithium []Material
	for _, m := range materials {
		if m.ID == "M-3001" {
			lithium = append(lithium, m)
		}
	}
	require.Len(t, lithium, 1)

	orders, err := g.PurchaseOrders(vendors, lithium, 1000)
	require.NoError(t, err)

	byID := map[string]Vendor{}
	for _, v := range vendors {
		byID[v.ID] = v
	}
	aff := AffinityFor("M-3001")
	require.Equal(t, RegionAffinity, aff.Kind)

	inSet := 0
	for _, po := range orders {
		if aff.Allows(byID[po.VendorID].CountryCode) {
			inSet++
		}
	}
	assert.Greater(t, float64(inSet)/float64(len(orders)), 0.8)
}

func TestPurchaseOrders_PreferredRegionFallback(t *testing.T) {
	rec := newFakeRecorder()
	g := NewGenerator(NewSource(3), WithRecorder(rec))
	vendors := plainVendors(5, catalog.Mexico)
	materials, _ := g.Materials()

	orders, err := g.PurchaseOrders(vendors, materials, 300)
	require.NoError(t, err)
	require.Len(t, orders, 300)
	for _, po := range orders {
		assert.True(t, strings.HasPrefix(po.VendorID, "V"))
	}
	assert.Positive(t, rec.fallbacks[FallbackPreferredRegion])
}

func TestPurchaseOrders_Attributes(t *testing.T) {
	g := NewGenerator(NewSource(8))
	vendors, err := g.Vendors(30)
	require.NoError(t, err)
	materials, _ := g.Materials()

	orders, err := g.PurchaseOrders(vendors, materials, 2000)
	require.NoError(t, err)

	groups := map[string]MaterialGroup{}
	for _, m := range materials {
		groups[m.ID] = m.Group
	}
	end := DefaultWindowStart.AddDate(0, 0, 365)
	raw, open := 0, 0
	for i, po := range orders {
		assert.Equal(t, fmt.Sprintf("PO-%d", 9001+i), po.ID)
		group := groups[po.MaterialID]
		require.NotEqual(t, GroupFinished, group, "finished goods are never ordered")
		if group == GroupRaw {
			raw++
			assert.GreaterOrEqual(t, po.Quantity, 500)
			assert.LessOrEqual(t, po.Quantity, 10000)
			assert.LessOrEqual(t, po.UnitPrice, 500.0)
		} else {
			assert.GreaterOrEqual(t, po.Quantity, 50)
			assert.LessOrEqual(t, po.Quantity, 500)
			assert.GreaterOrEqual(t, po.UnitPrice, 500.0)
		}
		assert.False(t, po.OrderDate.Before(DefaultWindowStart))
		assert.False(t, po.OrderDate.After(end))
		lead := po.DeliveryDate.Sub(po.OrderDate).Hours() / 24
		assert.GreaterOrEqual(t, lead, 14.0)
		assert.LessOrEqual(t, lead, 90.0)
		if po.Status == StatusOpen {
			open++
		}
	}
	assert.InDelta(t, 0.85, float64(raw)/2000, 0.04)
	assert.InDelta(t, 0.25, float64(open)/2000, 0.04)
}

func TestPurchaseOrders_Errors(t *testing.T) {
	g := NewGenerator(NewSource(1))
	materials, _ := g.Materials()
	vendors := plainVendors(3, catalog.China)

	_, err := g.PurchaseOrders(vendors, materials, -5)
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = g.PurchaseOrders(nil, materials, 5)
	assert.ErrorIs(t, err, ErrEmptyVendorPool)

	_, err = g.PurchaseOrders(vendors, materials[:1], 5)
	assert.ErrorIs(t, err, ErrNoPurchasableMaterials)

	orders, err := g.PurchaseOrders(nil, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestShippers_SingleBottleneck(t *testing.T) {
	profiles := Shippers()
	require.Len(t, profiles, 10)

	bottlenecks := 0
	for _, s := range profiles {
		if s.Bottleneck {
			bottlenecks++
			assert.Equal(t, 0.60, s.Concentration)
			continue
		}
		assert.GreaterOrEqual(t, s.Concentration, 0.10)
		assert.LessOrEqual(t, s.Concentration, 0.40)
	}
	assert.Equal(t, 1, bottlenecks)
	assert.Equal(t, BottleneckShipper, Bottleneck().Name)
	assert.Equal(t, catalog.Chile, Bottleneck().Country)
}

func TestHSLookups(t *testing.T) {
	assert.Equal(t, []string{"2836.91", "2825.20"}, HSCodesFor(SpecialtyLithium))
	assert.Equal(t, []string{DefaultHSCode}, HSCodesFor(Specialty("tungsten")))
	assert.Equal(t, "Lithium Carbonate", HSDescription("2836.91"))
	assert.Equal(t, DefaultHSDescription, HSDescription("3801.10"))
}

func TestBatteryMakers(t *testing.T) {
	vendors := []Vendor{
		{Name: "LG Energy Solution", CountryCode: catalog.SouthKorea},
		{Name: "Codelco", CountryCode: catalog.Chile},
		{Name: "CATL", CountryCode: catalog.China},
	}
	makers := BatteryMakers(vendors)
	require.Len(t, makers, 2)
	assert.Equal(t, "CATL", makers[1].Name)

	// No name matches: fall back to East-Asian vendors, capped.
	asian := plainVendors(15, catalog.Japan)
	assert.Len(t, BatteryMakers(asian), 10)

	assert.Empty(t, BatteryMakers(plainVendors(4, catalog.Germany)))
}

func TestTradeFlows_BottleneckConcentration(t *testing.T) {
	// Few battery makers in a large pool, so unbiased draws rarely hit them.
	vendors := plainVendors(100, catalog.UnitedStates)
	vendors[10].Name = "CATL"
	vendors[40].Name = "BYD Battery"
	vendors[70].Name = "SK On"
	makers := map[string]bool{"CATL": true, "BYD Battery": true, "SK On": true}

	g := NewGenerator(NewSource(42))
	records, err := g.TradeFlows(vendors, 15000)
	require.NoError(t, err)
	require.Len(t, records, 15000)

	total, toMakers := 0, 0
	for _, r := range records {
		if r.ShipperName != BottleneckShipper {
			continue
		}
		total++
		if makers[r.ConsigneeName] {
			toMakers++
		}
	}
	require.Greater(t, total, 1000)
	assert.InDelta(t, Bottleneck().Concentration, float64(toMakers)/float64(total), 0.1)
}

func TestTradeFlows_GracefulFallback(t *testing.T) {
	rec := newFakeRecorder()
	g := NewGenerator(NewSource(4), WithRecorder(rec))
	vendors := plainVendors(8, catalog.Germany)

	records, err := g.TradeFlows(vendors, 500)
	require.NoError(t, err)
	require.Len(t, records, 500)

	names := map[string]bool{}
	for _, v := range vendors {
		names[v.Name] = true
	}
	for _, r := range records {
		assert.True(t, names[r.ConsigneeName])
		assert.Equal(t, catalog.Germany, r.ConsigneeCountry)
	}
	assert.Equal(t, 1, rec.fallbacks[FallbackBatteryRegion])
	assert.Equal(t, 1, rec.fallbacks[FallbackBatteryPool])
}

func TestTradeFlows_Attributes(t *testing.T) {
	g := NewGenerator(NewSource(42))
	vendors, err := g.Vendors(50)
	require.NoError(t, err)

	records, err := g.TradeFlows(vendors, 400)
	require.NoError(t, err)

	profiles := map[string]ShipperProfile{}
	for _, s := range Shippers() {
		profiles[s.Name] = s
	}
	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("BL-%d", 88001+i), r.ID)
		p, ok := profiles[r.ShipperName]
		require.True(t, ok, r.ShipperName)
		assert.Equal(t, p.Country, r.ShipperCountry)
		assert.Contains(t, HSCodesFor(p.Specialty), r.HSCode)
		assert.Equal(t, HSDescription(r.HSCode), r.HSDescription)
		assert.GreaterOrEqual(t, r.WeightKg, 5000)
		assert.LessOrEqual(t, r.WeightKg, 50000)
		assert.GreaterOrEqual(t, r.ValueUSD, float64(r.WeightKg)*10-0.01)
		assert.LessOrEqual(t, r.ValueUSD, float64(r.WeightKg)*100+0.01)
		assert.Equal(t, catalog.PortFor(r.ShipperCountry), r.PortOfOrigin)
		assert.Equal(t, catalog.PortFor(r.ConsigneeCountry), r.PortOfDestination)
	}
}

func TestTradeFlows_Errors(t *testing.T) {
	g := NewGenerator(NewSource(1))

	_, err := g.TradeFlows(plainVendors(2, catalog.China), -1)
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = g.TradeFlows(nil, 3)
	assert.ErrorIs(t, err, ErrEmptyVendorPool)

	records, err := g.TradeFlows(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWithWindowStart(t *testing.T) {
	start := time.Date(2030, time.March, 1, 15, 4, 0, 0, time.UTC)
	g := NewGenerator(NewSource(2), WithWindowStart(start))
	vendors := plainVendors(3, catalog.China)

	records, err := g.TradeFlows(vendors, 50)
	require.NoError(t, err)
	day := time.Date(2030, time.March, 1, 0, 0, 0, 0, time.UTC)
	for _, r := range records {
		assert.False(t, r.ShipDate.Before(day))
		assert.False(t, r.ShipDate.After(day.AddDate(0, 0, 365)))
	}
}
