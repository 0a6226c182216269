package tables

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dd0wney/cluso-supplygen/pkg/synth"
)

// rowReader accumulates the first conversion error so parsers read like
// plain field assignments.
type rowReader struct {
	row map[string]string
	err error
}

func (r *rowReader) str(col string) string {
	return r.row[col]
}

func (r *rowReader) int(col string) int {
	if r.err != nil {
		return 0
	}
	v, err := strconv.Atoi(r.row[col])
	if err != nil {
		r.err = fmt.Errorf("%s: %w", col, err)
	}
	return v
}

func (r *rowReader) float(col string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(r.row[col], 64)
	if err != nil {
		r.err = fmt.Errorf("%s: %w", col, err)
	}
	return v
}

func (r *rowReader) date(col string) time.Time {
	if r.err != nil {
		return time.Time{}
	}
	v, err := time.Parse(synth.DateLayout, r.row[col])
	if err != nil {
		r.err = fmt.Errorf("%s: %w", col, err)
	}
	return v
}

// ParseVendor converts a vendors row.
func ParseVendor(row map[string]string) (synth.Vendor, error) {
	r := &rowReader{row: row}
	v := synth.Vendor{
		ID:              r.str("VENDOR_ID"),
		Name:            r.str("NAME"),
		CountryCode:     r.str("COUNTRY_CODE"),
		City:            r.str("CITY"),
		Phone:           r.str("PHONE"),
		Tier:            r.int("TIER"),
		FinancialHealth: r.float("FINANCIAL_HEALTH_SCORE"),
	}
	return v, r.err
}

// ParseMaterial converts a materials row.
func ParseMaterial(row map[string]string) (synth.Material, error) {
	r := &rowReader{row: row}
	m := synth.Material{
		ID:            r.str("MATERIAL_ID"),
		Description:   r.str("DESCRIPTION"),
		Group:         synth.MaterialGroup(r.str("MATERIAL_GROUP")),
		Unit:          r.str("UNIT_OF_MEASURE"),
		Criticality:   r.float("CRITICALITY_SCORE"),
		InventoryDays: r.int("INVENTORY_DAYS"),
	}
	return m, r.err
}

// ParseBOMEdge converts a bill_of_materials row.
func ParseBOMEdge(row map[string]string) (synth.BOMEdge, error) {
	r := &rowReader{row: row}
	e := synth.BOMEdge{
		ID:              r.str("BOM_ID"),
		ParentID:        r.str("PARENT_MATERIAL_ID"),
		ChildID:         r.str("CHILD_MATERIAL_ID"),
		QuantityPerUnit: r.float("QUANTITY_PER_UNIT"),
	}
	return e, r.err
}

// ParsePurchaseOrder converts a purchase_orders row.
func ParsePurchaseOrder(row map[string]string) (synth.PurchaseOrder, error) {
	r := &rowReader{row: row}
	po := synth.PurchaseOrder{
		ID:           r.str("PO_ID"),
		VendorID:     r.str("VENDOR_ID"),
		MaterialID:   r.str("MATERIAL_ID"),
		Quantity:     r.int("QUANTITY"),
		UnitPrice:    r.float("UNIT_PRICE"),
		OrderDate:    r.date("ORDER_DATE"),
		DeliveryDate: r.date("DELIVERY_DATE"),
		Status:       synth.OrderStatus(r.str("STATUS")),
	}
	return po, r.err
}

// ParseTradeFlow converts a trade_data row.
func ParseTradeFlow(row map[string]string) (synth.TradeFlow, error) {
	r := &rowReader{row: row}
	t := synth.TradeFlow{
		ID:                r.str("BOL_ID"),
		ShipperName:       r.str("SHIPPER_NAME"),
		ShipperCountry:    r.str("SHIPPER_COUNTRY"),
		ConsigneeName:     r.str("CONSIGNEE_NAME"),
		ConsigneeCountry:  r.str("CONSIGNEE_COUNTRY"),
		HSCode:            r.str("HS_CODE"),
		HSDescription:     r.str("HS_DESCRIPTION"),
		ShipDate:          r.date("SHIP_DATE"),
		WeightKg:          r.int("WEIGHT_KG"),
		ValueUSD:          r.float("VALUE_USD"),
		PortOfOrigin:      r.str("PORT_OF_ORIGIN"),
		PortOfDestination: r.str("PORT_OF_DESTINATION"),
	}
	return t, r.err
}

// ParseRegionRisk converts a regions row.
func ParseRegionRisk(row map[string]string) (synth.RegionRisk, error) {
	r := &rowReader{row: row}
	rr := synth.RegionRisk{
		Code:           r.str("REGION_CODE"),
		Name:           r.str("REGION_NAME"),
		BaseRisk:       r.float("BASE_RISK_SCORE"),
		Geopolitical:   r.float("GEOPOLITICAL_RISK"),
		NaturalHazard:  r.float("NATURAL_DISASTER_RISK"),
		Infrastructure: r.float("INFRASTRUCTURE_SCORE"),
	}
	return rr, r.err
}

func ReadVendors(path string) ([]synth.Vendor, error) {
	return readTyped(path, synth.VendorColumns, ParseVendor)
}

func ReadMaterials(path string) ([]synth.Material, error) {
	return readTyped(path, synth.MaterialColumns, ParseMaterial)
}

func ReadBOM(path string) ([]synth.BOMEdge, error) {
	return readTyped(path, synth.BOMColumns, ParseBOMEdge)
}

func ReadPurchaseOrders(path string) ([]synth.PurchaseOrder, error) {
	return readTyped(path, synth.OrderColumns, ParsePurchaseOrder)
}

func ReadTradeFlows(path string) ([]synth.TradeFlow, error) {
	return readTyped(path, synth.TradeColumns, ParseTradeFlow)
}

func ReadRegions(path string) ([]synth.RegionRisk, error) {
	return readTyped(path, synth.RegionColumns, ParseRegionRisk)
}
