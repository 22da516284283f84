package core

import "strings"

const (
	// NotAvailable is shown when no name, sku or customer could be resolved.
	NotAvailable = "N/A"
	// DefaultProductTypeName is used when the quote line → product type chain breaks.
	DefaultProductTypeName = "Product"
	// DefaultCategoryCode is used when a line has neither a category nor a part role.
	DefaultCategoryCode = "accessory"

	fabricMarker = "fabric"
)

// IsFabric reports whether a line describes a fabric part. Any one of the three
// signals is enough; they are not reconciled against each other.
func IsFabric(line BomInstanceLine, item *CatalogItem) bool {
	if str(line.PartRole) == fabricMarker {
		return true
	}
	if item == nil {
		return false
	}
	return str(item.ItemType) == fabricMarker || str(item.MeasureBasis) == fabricMarker
}

// ResolveComponentName picks the display name for a BOM line.
//
// Fabric parts are named by "<collection> - <variant>" because their item_name is
// frequently unusable. Everything else uses item_name. Without a catalog item the
// line's own sku and description are all there is.
func ResolveComponentName(line BomInstanceLine, item *CatalogItem) string {
	if item == nil {
		return orNA(firstNonEmpty(str(line.ResolvedSKU), str(line.Description)))
	}

	generic := []string{
		str(item.ItemName),
		str(item.Description),
		str(line.Description),
		str(line.ResolvedSKU),
	}

	if IsFabric(line, item) {
		if name := fabricName(item); name != "" {
			return name
		}
	}
	return orNA(firstNonEmpty(generic...))
}

// fabricName joins the collection and variant names, omitting missing parts.
func fabricName(item *CatalogItem) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{str(item.CollectionName), str(item.VariantName)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}

// ResolveCategoryCode returns the line's category, then its part role, then
// DefaultCategoryCode.
func ResolveCategoryCode(line BomInstanceLine) string {
	return firstNonEmpty(str(line.CategoryCode), str(line.PartRole), DefaultCategoryCode)
}

// ResolveProductTypeName follows BomInstance.quote_line_id → QuoteLine.product_type_id
// → ProductType.name. Any missing hop yields DefaultProductTypeName.
func ResolveProductTypeName(bi BomInstance, quoteLines map[string]QuoteLine, productTypes map[string]ProductType) string {
	ql, ok := quoteLines[str(bi.QuoteLineID)]
	if !ok {
		return DefaultProductTypeName
	}
	pt, ok := productTypes[str(ql.ProductTypeID)]
	if !ok {
		return DefaultProductTypeName
	}
	return firstNonEmpty(str(pt.Name), DefaultProductTypeName)
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
