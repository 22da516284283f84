package core_test

import (
	"context"
	"fmt"
	"slices"
	"time"

	"bizadmin/internal/core"

	"github.com/shopspring/decimal"
)

// fakeSource is an in-memory core.BOMSource. It applies the same filters as the
// Postgres implementation and records every call so tests can assert on the
// queries that were (or were not) issued.
type fakeSource struct {
	manufacturingOrders []core.ManufacturingOrder
	salesOrders         []core.SalesOrder
	salesOrderLines     []core.SalesOrderLine
	bomInstances        []core.BomInstance
	bomInstanceLines    []core.BomInstanceLine
	catalogItems        []core.CatalogItem
	quoteLines          []core.QuoteLine
	productTypes        []core.ProductType
	customers           []core.Customer

	// failOn makes the named collection return an error on the n-th call (1-based);
	// 0 fails every call.
	failOn map[string]int
	// panicOn makes the named collection panic.
	panicOn string

	calls map[string][][]string
}

func (f *fakeSource) record(collection string, ids []string) error {
	if f.calls == nil {
		f.calls = map[string][][]string{}
	}
	f.calls[collection] = append(f.calls[collection], slices.Clone(ids))
	if f.panicOn == collection {
		panic("boom in " + collection)
	}
	if n, ok := f.failOn[collection]; ok && (n == 0 || n == len(f.calls[collection])) {
		return fmt.Errorf("backend unavailable for %s", collection)
	}
	return nil
}

func in(ids []string, id string) bool { return slices.Contains(ids, id) }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (f *fakeSource) ListManufacturingOrders(_ context.Context, orgID string) ([]core.ManufacturingOrder, error) {
	if err := f.record("manufacturing_orders", nil); err != nil {
		return nil, err
	}
	var out []core.ManufacturingOrder
	for _, m := range f.manufacturingOrders {
		if m.OrganizationID == orgID && !m.Deleted {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeSource) ListSalesOrders(_ context.Context, orgID string, ids []string) ([]core.SalesOrder, error) {
	if err := f.record("sales_orders", ids); err != nil {
		return nil, err
	}
	var out []core.SalesOrder
	for _, so := range f.salesOrders {
		if in(ids, so.ID) && so.OrganizationID == orgID && !so.Deleted {
			out = append(out, so)
		}
	}
	return out, nil
}

func (f *fakeSource) ListSalesOrderLines(_ context.Context, orgID string, saleOrderIDs []string) ([]core.SalesOrderLine, error) {
	if err := f.record("sales_order_lines", saleOrderIDs); err != nil {
		return nil, err
	}
	var out []core.SalesOrderLine
	for _, l := range f.salesOrderLines {
		if in(saleOrderIDs, l.SaleOrderID) && l.OrganizationID == orgID && !l.Deleted {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeSource) ListBomInstances(_ context.Context, orgID string, saleOrderLineIDs []string) ([]core.BomInstance, error) {
	if err := f.record("bom_instances", saleOrderLineIDs); err != nil {
		return nil, err
	}
	var out []core.BomInstance
	for _, bi := range f.bomInstances {
		if in(saleOrderLineIDs, deref(bi.SaleOrderLineID)) && bi.OrganizationID == orgID && !bi.Deleted {
			out = append(out, bi)
		}
	}
	return out, nil
}

func (f *fakeSource) ListBomInstanceLines(_ context.Context, orgID string, bomInstanceIDs []string) ([]core.BomInstanceLine, error) {
	if err := f.record("bom_instance_lines", bomInstanceIDs); err != nil {
		return nil, err
	}
	var out []core.BomInstanceLine
	for _, l := range f.bomInstanceLines {
		if in(bomInstanceIDs, l.BomInstanceID) && l.OrganizationID == orgID && !l.Deleted {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeSource) ListCatalogItems(_ context.Context, ids []string) ([]core.CatalogItem, error) {
	if err := f.record("catalog_items", ids); err != nil {
		return nil, err
	}
	var out []core.CatalogItem
	for _, ci := range f.catalogItems {
		if in(ids, ci.ID) {
			out = append(out, ci)
		}
	}
	return out, nil
}

func (f *fakeSource) ListQuoteLines(_ context.Context, ids []string) ([]core.QuoteLine, error) {
	if err := f.record("quote_lines", ids); err != nil {
		return nil, err
	}
	var out []core.QuoteLine
	for _, ql := range f.quoteLines {
		if in(ids, ql.ID) && !ql.Deleted {
			out = append(out, ql)
		}
	}
	return out, nil
}

func (f *fakeSource) ListProductTypes(_ context.Context, ids []string) ([]core.ProductType, error) {
	if err := f.record("product_types", ids); err != nil {
		return nil, err
	}
	var out []core.ProductType
	for _, pt := range f.productTypes {
		if in(ids, pt.ID) && !pt.Deleted {
			out = append(out, pt)
		}
	}
	return out, nil
}

func (f *fakeSource) ListCustomers(_ context.Context, orgID string, ids []string) ([]core.Customer, error) {
	if err := f.record("customers", ids); err != nil {
		return nil, err
	}
	var out []core.Customer
	for _, c := range f.customers {
		if in(ids, c.ID) && c.OrganizationID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

// ── Fixture helpers ───────────────────────────────────────────────────────────

const testOrg = "6f1c2a3b-4d5e-4f60-8a71-b2c3d4e5f601"

// uid builds a deterministic, valid v4-shaped identifier from a prefix byte and n.
func uid(prefix byte, n int) string {
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", uint32(prefix)<<24|uint32(n), n)
}

func sp(s string) *string { return &s }

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// acmeFixture builds one organization with two sale orders:
//
//	SO-1001 (Acme): one line → one BOM instance with a fabric line and a
//	                hardware line, product type "Sofa".
//	SO-1002 (no customer row): one line with no BOM instance.
func acmeFixture() *fakeSource {
	so1, so2 := uid(0x50, 1), uid(0x50, 2)
	sol1, sol2 := uid(0x51, 1), uid(0x51, 2)
	bi1 := uid(0x52, 1)
	ql1 := uid(0x53, 1)
	pt1 := uid(0x54, 1)
	cust1, cust2 := uid(0x55, 1), uid(0x55, 2)
	fabric, screw := uid(0x56, 1), uid(0x56, 2)

	return &fakeSource{
		manufacturingOrders: []core.ManufacturingOrder{
			{ID: uid(0x4d, 1), SaleOrderID: sp(so1), OrganizationID: testOrg},
			{ID: uid(0x4d, 2), SaleOrderID: sp(so2), OrganizationID: testOrg},
			{ID: uid(0x4d, 3), SaleOrderID: sp(so1), OrganizationID: testOrg},
			{ID: uid(0x4d, 4), SaleOrderID: nil, OrganizationID: testOrg},
		},
		salesOrders: []core.SalesOrder{
			{ID: so1, SaleOrderNo: sp("SO-1001"), CustomerID: sp(cust1), CreatedAt: ts("2026-03-01T10:00:00Z"), OrganizationID: testOrg},
			{ID: so2, SaleOrderNo: sp("SO-1002"), CustomerID: sp(cust2), CreatedAt: ts("2026-03-02T10:00:00Z"), OrganizationID: testOrg},
		},
		salesOrderLines: []core.SalesOrderLine{
			{ID: sol1, SaleOrderID: so1, OrganizationID: testOrg},
			{ID: sol2, SaleOrderID: so2, OrganizationID: testOrg},
		},
		bomInstances: []core.BomInstance{
			{ID: bi1, SaleOrderLineID: sp(sol1), QuoteLineID: sp(ql1), OrganizationID: testOrg},
		},
		bomInstanceLines: []core.BomInstanceLine{
			{
				ID: uid(0x57, 1), BomInstanceID: bi1, ResolvedPartID: sp(fabric), ResolvedSKU: sp("FAB-22"),
				PartRole: sp("fabric"), Qty: dec("3.5"), UOM: sp("m"),
				UnitCostEXW: dec("12"), TotalCostEXW: dec("42"), OrganizationID: testOrg,
			},
			{
				ID: uid(0x57, 2), BomInstanceID: bi1, ResolvedPartID: sp(screw), ResolvedSKU: sp("HW-7"),
				PartRole: sp("hardware"), CategoryCode: sp("fixings"), Qty: dec("20"), UOM: sp("pcs"),
				UnitCostEXW: dec("0.5"), TotalCostEXW: dec("10"), OrganizationID: testOrg,
			},
		},
		catalogItems: []core.CatalogItem{
			{ID: fabric, SKU: sp("FAB-22"), ItemName: sp("IGNORED"), CollectionName: sp("Linen"), VariantName: sp("Sand")},
			{ID: screw, SKU: sp("HW-7"), ItemName: sp("Wood screw 4x40")},
		},
		quoteLines: []core.QuoteLine{
			{ID: ql1, ProductTypeID: sp(pt1)},
		},
		productTypes: []core.ProductType{
			{ID: pt1, Name: sp("Sofa")},
		},
		customers: []core.Customer{
			{ID: cust1, CustomerName: sp("Acme"), OrganizationID: testOrg},
		},
	}
}
