package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultPageSize is the report page size when the caller does not choose one.
const DefaultPageSize = 10

// ReportSortKey names a sortable group column.
type ReportSortKey string

// Sortable group columns.
const (
	SortBySaleOrderNo  ReportSortKey = "sale_order_no"
	SortByCustomerName ReportSortKey = "customer_name"
	SortByCreatedAt    ReportSortKey = "created_at"
)

// SortDirection is ascending or descending.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortKey validates a caller-supplied sort key. Empty means SortByCreatedAt.
func ParseSortKey(s string) (ReportSortKey, error) {
	switch k := ReportSortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByCreatedAt, nil
	case SortBySaleOrderNo, SortByCustomerName, SortByCreatedAt:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want sale_order_no, customer_name or created_at)", s)
	}
}

// ParseSortDirection validates a caller-supplied direction. Empty means SortDesc.
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return SortDesc, nil
	case SortAsc, SortDesc:
		return d, nil
	default:
		return "", fmt.Errorf("unknown sort direction %q (want asc or desc)", s)
	}
}

// SearchGroups keeps groups whose sale order number or customer name, or any
// component's name, sku or product type, contains term (case-insensitive).
// A blank term keeps every group.
func SearchGroups(groups []SaleOrderGroup, term string) []SaleOrderGroup {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return slices.Clone(groups)
	}

	out := make([]SaleOrderGroup, 0, len(groups))
	for _, g := range groups {
		if groupMatches(g, needle) {
			out = append(out, g)
		}
	}
	return out
}

func groupMatches(g SaleOrderGroup, needle string) bool {
	if containsFold(g.SaleOrderNo, needle) || containsFold(g.CustomerName, needle) {
		return true
	}
	for _, c := range g.Components {
		if containsFold(c.ComponentName, needle) ||
			containsFold(c.ComponentSKU, needle) ||
			containsFold(c.ProductTypeName, needle) {
			return true
		}
	}
	return false
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

// SortGroups returns a stably sorted copy of groups. Equal keys keep their prior
// relative order in both directions.
func SortGroups(groups []SaleOrderGroup, key ReportSortKey, dir SortDirection) []SaleOrderGroup {
	out := slices.Clone(groups)

	var cmp func(a, b SaleOrderGroup) int
	switch key {
	case SortBySaleOrderNo, SortByCustomerName:
		// Collators keep internal buffers, so each sort gets its own.
		col := collate.New(language.English, collate.IgnoreCase, collate.Numeric)
		field := func(g SaleOrderGroup) string { return g.SaleOrderNo }
		if key == SortByCustomerName {
			field = func(g SaleOrderGroup) string { return g.CustomerName }
		}
		cmp = func(a, b SaleOrderGroup) int { return col.CompareString(field(a), field(b)) }
	default:
		cmp = func(a, b SaleOrderGroup) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}

	if dir == SortDesc {
		asc := cmp
		cmp = func(a, b SaleOrderGroup) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

// GroupPage is one window of a report.
type GroupPage struct {
	Groups     []SaleOrderGroup `json:"groups"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalCount int              `json:"total_count"`
	TotalPages int              `json:"total_pages"`
}

// PaginateGroups returns page (1-based) of groups. page < 1 is treated as 1 and
// pageSize <= 0 as DefaultPageSize. A page past the end is empty.
func PaginateGroups(groups []SaleOrderGroup, page, pageSize int) GroupPage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(groups)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	p := GroupPage{
		Groups:     []SaleOrderGroup{},
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}

	// Compare pages before multiplying so huge inputs cannot overflow.
	if page > totalPages {
		return p
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	p.Groups = slices.Clone(groups[start:end])
	return p
}

// componentKey identifies components that are the same part within one group.
type componentKey struct {
	part, name, uom, category, productType string
}

// ConsolidateComponents merges, within each group, components that refer to the
// same part with the same name, unit, category and product type. Quantities and
// costs are summed; the average unit cost is total cost over total quantity, or
// the mean of the merged unit costs when the quantity is zero. Group totals are
// rebuilt from the merged components.
func ConsolidateComponents(groups []SaleOrderGroup) []SaleOrderGroup {
	out := make([]SaleOrderGroup, 0, len(groups))
	for _, g := range groups {
		merged := make([]ResolvedComponent, 0, len(g.Components))
		counts := make([]int64, 0, len(g.Components))
		unitSums := make([]decimal.Decimal, 0, len(g.Components))
		index := make(map[componentKey]int, len(g.Components))

		for _, c := range g.Components {
			k := componentKey{
				part:        firstNonEmpty(c.ResolvedPartID, c.ComponentSKU),
				name:        c.ComponentName,
				uom:         c.UOM,
				category:    c.CategoryCode,
				productType: c.ProductTypeName,
			}
			i, ok := index[k]
			if !ok {
				index[k] = len(merged)
				merged = append(merged, c)
				counts = append(counts, 1)
				unitSums = append(unitSums, c.AvgUnitCost)
				continue
			}
			merged[i].TotalQty = merged[i].TotalQty.Add(c.TotalQty)
			merged[i].TotalCost = merged[i].TotalCost.Add(c.TotalCost)
			counts[i]++
			unitSums[i] = unitSums[i].Add(c.AvgUnitCost)
		}

		for i := range merged {
			if counts[i] == 1 {
				continue
			}
			if merged[i].TotalQty.IsZero() {
				merged[i].AvgUnitCost = unitSums[i].Div(decimal.NewFromInt(counts[i]))
			} else {
				merged[i].AvgUnitCost = merged[i].TotalCost.Div(merged[i].TotalQty)
			}
		}

		out = append(out, newSaleOrderGroup(g.SaleOrderID, g.SaleOrderNo, g.CustomerName, g.CreatedAt, merged))
	}
	return out
}
