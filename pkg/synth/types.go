package synth

import (
	"strconv"
	"time"

	"github.com/dd0wney/cluso-supplygen/pkg/catalog"
)

// DateLayout is the serialized date format.
const DateLayout = "2006-01-02"

// MaterialGroup is the level of a material in the product hierarchy.
type MaterialGroup string

const (
	GroupFinished MaterialGroup = "FIN"
	GroupSemi     MaterialGroup = "SEMI"
	GroupRaw      MaterialGroup = "RAW"
)

// OrderStatus is the lifecycle state of a purchase order.
type OrderStatus string

const (
	StatusOpen   OrderStatus = "OPEN"
	StatusClosed OrderStatus = "CLOSED"
)

// Vendor is a Tier-1 supplier.
type Vendor struct {
	ID              string
	Name            string
	CountryCode     string
	City            string
	Phone           string
	Tier            int
	FinancialHealth float64
}

// Material is a node in the product structure.
type Material struct {
	ID            string
	Description   string
	Group         MaterialGroup
	Unit          string
	Criticality   float64
	InventoryDays int
}

// BOMEdge is a parent→child bill-of-materials relationship.
type BOMEdge struct {
	ID              string
	ParentID        string
	ChildID         string
	QuantityPerUnit float64
}

// PurchaseOrder is a vendor→material supply edge from the ERP side.
type PurchaseOrder struct {
	ID           string
	VendorID     string
	MaterialID   string
	Quantity     int
	UnitPrice    float64
	OrderDate    time.Time
	DeliveryDate time.Time
	Status       OrderStatus
}

// TradeFlow is an external bill-of-lading record. The shipper is free
// text; only the consignee refers to a generated Vendor.
type TradeFlow struct {
	ID                string
	ShipperName       string
	ShipperCountry    string
	ConsigneeName     string
	ConsigneeCountry  string
	HSCode            string
	HSDescription     string
	ShipDate          time.Time
	WeightKg          int
	ValueUSD          float64
	PortOfOrigin      string
	PortOfDestination string
}

// RegionRisk is the serialized view of a catalog region.
type RegionRisk struct {
	Code           string
	Name           string
	BaseRisk       float64
	Geopolitical   float64
	NaturalHazard  float64
	Infrastructure float64
}

// Column sets, exact and case-sensitive.
var (
	VendorColumns   = []string{"VENDOR_ID", "NAME", "COUNTRY_CODE", "CITY", "PHONE", "TIER", "FINANCIAL_HEALTH_SCORE"}
	MaterialColumns = []string{"MATERIAL_ID", "DESCRIPTION", "MATERIAL_GROUP", "UNIT_OF_MEASURE", "CRITICALITY_SCORE", "INVENTORY_DAYS"}
	BOMColumns      = []string{"BOM_ID", "PARENT_MATERIAL_ID", "CHILD_MATERIAL_ID", "QUANTITY_PER_UNIT"}
	OrderColumns    = []string{"PO_ID", "VENDOR_ID", "MATERIAL_ID", "QUANTITY", "UNIT_PRICE", "ORDER_DATE", "DELIVERY_DATE", "STATUS"}
	TradeColumns    = []string{
		"BOL_ID", "SHIPPER_NAME", "SHIPPER_COUNTRY", "CONSIGNEE_NAME", "CONSIGNEE_COUNTRY",
		"HS_CODE", "HS_DESCRIPTION", "SHIP_DATE", "WEIGHT_KG", "VALUE_USD",
		"PORT_OF_ORIGIN", "PORT_OF_DESTINATION",
	}
	RegionColumns = []string{"REGION_CODE", "REGION_NAME", "BASE_RISK_SCORE", "GEOPOLITICAL_RISK", "NATURAL_DISASTER_RISK", "INFRASTRUCTURE_SCORE"}
)

func fmt2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func (Vendor) Columns() []string { return VendorColumns }

func (v Vendor) Row() []string {
	return []string{v.ID, v.Name, v.CountryCode, v.City, v.Phone, strconv.Itoa(v.Tier), fmt2(v.FinancialHealth)}
}

func (Material) Columns() []string { return MaterialColumns }

func (m Material) Row() []string {
	return []string{m.ID, m.Description, string(m.Group), m.Unit, fmt2(m.Criticality), strconv.Itoa(m.InventoryDays)}
}

func (BOMEdge) Columns() []string { return BOMColumns }

func (b BOMEdge) Row() []string {
	return []string{b.ID, b.ParentID, b.ChildID, fmt2(b.QuantityPerUnit)}
}

func (PurchaseOrder) Columns() []string { return OrderColumns }

func (p PurchaseOrder) Row() []string {
	return []string{
		p.ID, p.VendorID, p.MaterialID, strconv.Itoa(p.Quantity), fmt2(p.UnitPrice),
		p.OrderDate.Format(DateLayout), p.DeliveryDate.Format(DateLayout), string(p.Status),
	}
}

func (TradeFlow) Columns() []string { return TradeColumns }

func (t TradeFlow) Row() []string {
	return []string{
		t.ID, t.ShipperName, t.ShipperCountry, t.ConsigneeName, t.ConsigneeCountry,
		t.HSCode, t.HSDescription, t.ShipDate.Format(DateLayout), strconv.Itoa(t.WeightKg), fmt2(t.ValueUSD),
		t.PortOfOrigin, t.PortOfDestination,
	}
}

func (RegionRisk) Columns() []string { return RegionColumns }

func (r RegionRisk) Row() []string {
	return []string{r.Code, r.Name, fmt2(r.BaseRisk), fmt2(r.Geopolitical), fmt2(r.NaturalHazard), fmt2(r.Infrastructure)}
}

// RegionRisks projects the catalog into serializable rows.
func RegionRisks() []RegionRisk {
	regions := catalog.Regions()
	out := make([]RegionRisk, 0, len(regions))
	for _, r := range regions {
		out = append(out, RegionRisk{
			Code:           r.Code,
			Name:           r.Name,
			BaseRisk:       r.BaseRisk,
			Geopolitical:   r.Geopolitical,
			NaturalHazard:  r.NaturalHazard,
			Infrastructure: r.Infrastructure,
		})
	}
	return out
}
