package core

// JoinInput carries the identifier-keyed maps built once per report run.
// Lines are joined in slice order.
type JoinInput struct {
	Lines []BomInstanceLine
	// BomInstances by id.
	BomInstances map[string]BomInstance
	// SaleOrderByLine maps sale_order_line_id → sale_order_id.
	SaleOrderByLine map[string]string
	// CatalogItems by id. Only validated identifiers were ever fetched.
	CatalogItems map[string]CatalogItem
	QuoteLines   map[string]QuoteLine
	ProductTypes map[string]ProductType
}

// JoinComponents attributes every BOM line to its sale order and resolves its
// display fields. Lines whose BomInstance or sale order cannot be found are
// dropped; they cannot be placed on any report row.
func JoinComponents(in JoinInput) []ResolvedComponent {
	out := make([]ResolvedComponent, 0, len(in.Lines))
	for _, line := range in.Lines {
		bi, ok := in.BomInstances[line.BomInstanceID]
		if !ok {
			continue
		}
		saleOrderID, ok := in.SaleOrderByLine[str(bi.SaleOrderLineID)]
		if !ok || saleOrderID == "" {
			continue
		}

		var item *CatalogItem
		partID := str(line.ResolvedPartID)
		if IsValidUUID(partID) {
			if ci, found := in.CatalogItems[partID]; found {
				item = &ci
			}
		}

		out = append(out, ResolvedComponent{
			SaleOrderID:     saleOrderID,
			BomInstanceID:   bi.ID,
			ResolvedPartID:  partID,
			ComponentSKU:    str(line.ResolvedSKU),
			ComponentName:   ResolveComponentName(line, item),
			ProductTypeName: ResolveProductTypeName(bi, in.QuoteLines, in.ProductTypes),
			TotalQty:        num(line.Qty),
			UOM:             str(line.UOM),
			AvgUnitCost:     num(line.UnitCostEXW),
			TotalCost:       num(line.TotalCostEXW),
			CategoryCode:    ResolveCategoryCode(line),
		})
	}
	return out
}

// indexByID builds an id-keyed map. Later rows with the same id are ignored.
func indexByID[T any](rows []T, id func(T) string) map[string]T {
	m := make(map[string]T, len(rows))
	for _, row := range rows {
		k := id(row)
		if _, exists := m[k]; !exists {
			m[k] = row
		}
	}
	return m
}
