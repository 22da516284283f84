package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ── Source rows ───────────────────────────────────────────────────────────────
//
// Rows are read-only snapshots of the externally persisted collections. Nullable
// columns are pointers (strings) or NullDecimal (numbers); the resolver and joiner
// turn them into concrete values with explicit fallbacks.

// Organization is a tenant. Every multi-valued lookup is scoped by its id.
type Organization struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ManufacturingOrder links production work to the sale order it fulfils.
type ManufacturingOrder struct {
	ID             string  `db:"id"`
	SaleOrderID    *string `db:"sale_order_id"`
	OrganizationID string  `db:"organization_id"`
	Deleted        bool    `db:"deleted"`
}

// SalesOrder is a customer sales order header.
type SalesOrder struct {
	ID             string    `db:"id"`
	SaleOrderNo    *string   `db:"sale_order_no"`
	CustomerID     *string   `db:"customer_id"`
	CreatedAt      time.Time `db:"created_at"`
	OrganizationID string    `db:"organization_id"`
	Deleted        bool      `db:"deleted"`
}

// SalesOrderLine is one line under a SalesOrder.
type SalesOrderLine struct {
	ID             string `db:"id"`
	SaleOrderID    string `db:"sale_order_id"`
	OrganizationID string `db:"organization_id"`
	Deleted        bool   `db:"deleted"`
}

// BomInstance is a generated BOM header. At most one exists per sales order line,
// and it may be missing entirely.
type BomInstance struct {
	ID              string  `db:"id"`
	SaleOrderLineID *string `db:"sale_order_line_id"`
	QuoteLineID     *string `db:"quote_line_id"`
	OrganizationID  string  `db:"organization_id"`
	Deleted         bool    `db:"deleted"`
}

// BomInstanceLine is one resolved component row within a BomInstance.
// ResolvedPartID may be null or hold a non-UUID placeholder.
type BomInstanceLine struct {
	ID             string              `db:"id"`
	BomInstanceID  string              `db:"bom_instance_id"`
	ResolvedPartID *string             `db:"resolved_part_id"`
	ResolvedSKU    *string             `db:"resolved_sku"`
	PartRole       *string             `db:"part_role"`
	CategoryCode   *string             `db:"category_code"`
	Qty            decimal.NullDecimal `db:"qty"`
	UOM            *string             `db:"uom"`
	UnitCostEXW    decimal.NullDecimal `db:"unit_cost_exw"`
	TotalCostEXW   decimal.NullDecimal `db:"total_cost_exw"`
	Description    *string             `db:"description"`
	OrganizationID string              `db:"organization_id"`
	Deleted        bool                `db:"deleted"`
}

// CatalogItem is a part master record referenced by BomInstanceLine.ResolvedPartID.
type CatalogItem struct {
	ID             string  `db:"id"`
	SKU            *string `db:"sku"`
	ItemName       *string `db:"item_name"`
	Description    *string `db:"description"`
	ItemType       *string `db:"item_type"`
	MeasureBasis   *string `db:"measure_basis"`
	CollectionName *string `db:"collection_name"`
	VariantName    *string `db:"variant_name"`
}

// QuoteLine is the quote line a BomInstance originated from.
type QuoteLine struct {
	ID            string  `db:"id"`
	ProductTypeID *string `db:"product_type_id"`
	Deleted       bool    `db:"deleted"`
}

// ProductType names the kind of product a quote line was for.
type ProductType struct {
	ID      string  `db:"id"`
	Name    *string `db:"name"`
	Deleted bool    `db:"deleted"`
}

// Customer is a directory record owning sales orders.
type Customer struct {
	ID             string  `db:"id"`
	CustomerName   *string `db:"customer_name"`
	OrganizationID string  `db:"organization_id"`
}

// ── Derived report types ──────────────────────────────────────────────────────

// ResolvedComponent is one BOM line attributed to a sale order with its display
// name, category and product type resolved.
type ResolvedComponent struct {
	SaleOrderID     string          `json:"sale_order_id"`
	BomInstanceID   string          `json:"bom_instance_id"`
	ResolvedPartID  string          `json:"resolved_part_id,omitempty"`
	ComponentSKU    string          `json:"component_sku"`
	ComponentName   string          `json:"component_name"`
	ProductTypeName string          `json:"product_type_name"`
	TotalQty        decimal.Decimal `json:"total_qty"`
	UOM             string          `json:"uom"`
	AvgUnitCost     decimal.Decimal `json:"avg_unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	CategoryCode    string          `json:"category_code"`
}

// SaleOrderGroup is one report row: a sale order and its resolved components.
// An empty Components slice means the BOM has not been generated yet.
// TotalQty and TotalCost are only ever set by newSaleOrderGroup from Components.
type SaleOrderGroup struct {
	SaleOrderID  string              `json:"sale_order_id"`
	SaleOrderNo  string              `json:"sale_order_no"`
	CustomerName string              `json:"customer_name"`
	CreatedAt    time.Time           `json:"created_at"`
	Components   []ResolvedComponent `json:"components"`
	TotalQty     decimal.Decimal     `json:"total_qty"`
	TotalCost    decimal.Decimal     `json:"total_cost"`
}

func newSaleOrderGroup(id, number, customer string, createdAt time.Time, components []ResolvedComponent) SaleOrderGroup {
	if components == nil {
		components = []ResolvedComponent{}
	}
	g := SaleOrderGroup{
		SaleOrderID:  id,
		SaleOrderNo:  number,
		CustomerName: customer,
		CreatedAt:    createdAt,
		Components:   components,
		TotalQty:     decimal.Zero,
		TotalCost:    decimal.Zero,
	}
	for _, c := range components {
		g.TotalQty = g.TotalQty.Add(c.TotalQty)
		g.TotalCost = g.TotalCost.Add(c.TotalCost)
	}
	return g
}

// ReportTotals summarises a set of groups.
type ReportTotals struct {
	GroupCount     int             `json:"group_count"`
	ComponentCount int             `json:"component_count"`
	TotalQty       decimal.Decimal `json:"total_qty"`
	TotalCost      decimal.Decimal `json:"total_cost"`
}

// SumGroups totals the given groups from their own group totals.
func SumGroups(groups []SaleOrderGroup) ReportTotals {
	t := ReportTotals{GroupCount: len(groups), TotalQty: decimal.Zero, TotalCost: decimal.Zero}
	for _, g := range groups {
		t.ComponentCount += len(g.Components)
		t.TotalQty = t.TotalQty.Add(g.TotalQty)
		t.TotalCost = t.TotalCost.Add(g.TotalCost)
	}
	return t
}

// DataLoadingWarningTitle heads the banner shown when some stages degraded.
const DataLoadingWarningTitle = "Data Loading Warning"

// ApprovedBOMReport is the assembled Sale Order → BOM components view for one
// organization. Warnings lists the stages that failed and were treated as empty.
type ApprovedBOMReport struct {
	OrganizationID string           `json:"organization_id"`
	Groups         []SaleOrderGroup `json:"groups"`
	Warnings       []string         `json:"warnings"`
}

// GrandTotals recomputes the report-wide totals from the groups.
func (r *ApprovedBOMReport) GrandTotals() ReportTotals {
	return SumGroups(r.Groups)
}

// HasWarnings reports whether any stage degraded.
func (r *ApprovedBOMReport) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// WarningSummary renders the banner text, or "" when nothing degraded.
func (r *ApprovedBOMReport) WarningSummary() string {
	if !r.HasWarnings() {
		return ""
	}
	return DataLoadingWarningTitle + ": " + strings.Join(r.Warnings, "; ")
}

// ── Nullable helpers ──────────────────────────────────────────────────────────

// str dereferences a nullable column, trimming surrounding whitespace.
func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// num returns the value of a nullable numeric column, or zero.
func num(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// firstNonEmpty returns the first non-blank value, or "".
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
