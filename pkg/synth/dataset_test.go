package synth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_DefaultScenario(t *testing.T) {
	rec := newFakeRecorder()
	ds, err := Generate(DefaultOptions(), WithRecorder(rec))
	require.NoError(t, err)

	assert.Equal(t, DefaultSeed, ds.Seed)
	assert.Len(t, ds.Vendors, 50)
	assert.Len(t, ds.Materials, 26)
	assert.Len(t, ds.BOM, 23)
	assert.Len(t, ds.PurchaseOrders, 120)
	assert.Len(t, ds.TradeFlows, 150)
	assert.Len(t, ds.Regions, 9)
	require.NoError(t, ds.Validate())

	names := map[string]bool{}
	for _, v := range ds.Vendors {
		assert.False(t, names[v.Name], "duplicate vendor %q", v.Name)
		names[v.Name] = true
	}

	shipments := 0
	for _, tf := range ds.TradeFlows {
		if tf.ShipperName == BottleneckShipper {
			shipments++
		}
	}
	assert.Positive(t, shipments)

	for table, want := range map[string]int{
		TableVendors: 50, TableMaterials: 26, TableBOM: 23,
		TablePurchaseOrders: 120, TableTradeData: 150, TableRegions: 9,
	} {
		assert.Equal(t, want, rec.generated[table], table)
	}
}

func TestGenerate_SameSeedSameDataset(t *testing.T) {
	opts := Options{Seed: 1234, Vendors: 40, Orders: 80, TradeRecords: 90}
	a, err := Generate(opts)
	require.NoError(t, err)
	b, err := Generate(opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	opts.Seed = 4321
	c, err := Generate(opts)
	require.NoError(t, err)
	assert.NotEqual(t, a.Vendors, c.Vendors)
}

func TestGenerate_RejectsNegativeCounts(t *testing.T) {
	for _, opts := range []Options{
		{Vendors: -1},
		{Orders: -1},
		{TradeRecords: -3},
	} {
		_, err := Generate(opts)
		assert.ErrorIs(t, err, ErrInvalidCount)
	}
}

func TestGenerate_OrdersWithoutVendors(t *testing.T) {
	_, err := Generate(Options{Seed: 1, Vendors: 0, Orders: 10})
	assert.ErrorIs(t, err, ErrEmptyVendorPool)
}

func TestDatasetValidate_DanglingReferences(t *testing.T) {
	fresh := func() *Dataset {
		ds, err := Generate(Options{Seed: 9, Vendors: 10, Orders: 20, TradeRecords: 20})
		require.NoError(t, err)
		return ds
	}

	cases := map[string]func(ds *Dataset){
		"po vendor":       func(ds *Dataset) { ds.PurchaseOrders[0].VendorID = "V99999" },
		"po material":     func(ds *Dataset) { ds.PurchaseOrders[1].MaterialID = "M-9999" },
		"bom child":       func(ds *Dataset) { ds.BOM[4].ChildID = "M-0000" },
		"trade consignee": func(ds *Dataset) { ds.TradeFlows[2].ConsigneeName = "Nobody Ltd" },
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			ds := fresh()
			corrupt(ds)
			err := ds.Validate()
			require.ErrorIs(t, err, ErrDanglingReference)
			var genErr *GenError
			require.True(t, errors.As(err, &genErr))
			assert.Equal(t, "Validate", genErr.Op)
		})
	}
}

func TestAffinityFor(t *testing.T) {
	none := AffinityFor("M-3005")
	assert.Equal(t, NoAffinity, none.Kind)
	assert.True(t, none.Allows("MEX"))

	li := AffinityFor("M-3002")
	assert.Equal(t, RegionAffinity, li.Kind)
	assert.True(t, li.Allows("CHL"))
	assert.False(t, li.Allows("MEX"))

	li.Regions[0] = "MEX"
	assert.False(t, AffinityFor("M-3002").Allows("MEX"), "affinity table must not be mutable through results")
}
