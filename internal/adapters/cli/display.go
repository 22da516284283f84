package cli

import (
	"fmt"
	"io"
	"strings"

	"bizadmin/internal/app"
	"bizadmin/internal/core"
)

const reportWidth = 100

// PrintWarningBanner prints the data loading banner, or nothing when warnings is empty.
func PrintWarningBanner(out io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(out, strings.Repeat("!", reportWidth))
	fmt.Fprintf(out, "  %s\n", strings.ToUpper(core.DataLoadingWarningTitle))
	for _, w := range warnings {
		fmt.Fprintf(out, "  - %s\n", w)
	}
	fmt.Fprintln(out, "  Figures below may be incomplete.")
	fmt.Fprintln(out, strings.Repeat("!", reportWidth))
}

// PrintApprovedBOM renders one page of the report as a fixed-width table.
func PrintApprovedBOM(out io.Writer, orgName string, result *app.ApprovedBOMResult) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", reportWidth))
	fmt.Fprintf(out, "  APPROVED BOM : %s\n", orgName)
	if result.Search != "" {
		fmt.Fprintf(out, "  Search : %q\n", result.Search)
	}
	fmt.Fprintf(out, "  Sort   : %s %s\n", result.SortKey, result.SortDirection)
	fmt.Fprintln(out, strings.Repeat("=", reportWidth))
	PrintWarningBanner(out, result.Warnings)

	if len(result.Groups) == 0 {
		fmt.Fprintln(out, "  No sale orders found.")
		fmt.Fprintln(out, strings.Repeat("=", reportWidth))
		return
	}

	for _, g := range result.Groups {
		created := ""
		if !g.CreatedAt.IsZero() {
			created = g.CreatedAt.Format("2006-01-02")
		}
		fmt.Fprintf(out, "  %-16s %-40s %10s %14s\n", g.SaleOrderNo, truncate(g.CustomerName, 40), created, g.TotalCost.StringFixed(2))
		fmt.Fprintln(out, strings.Repeat("-", reportWidth))
		if len(g.Components) == 0 {
			fmt.Fprintln(out, "    BOM not generated yet.")
			fmt.Fprintln(out)
			continue
		}
		fmt.Fprintf(out, "    %-14s %-30s %-10s %10s %-5s %11s %12s\n", "SKU", "COMPONENT", "CATEGORY", "QTY", "UOM", "UNIT COST", "TOTAL")
		for _, c := range g.Components {
			fmt.Fprintf(out, "    %-14s %-30s %-10s %10s %-5s %11s %12s\n",
				truncate(c.ComponentSKU, 14), truncate(c.ComponentName, 30), truncate(c.CategoryCode, 10),
				c.TotalQty.String(), truncate(c.UOM, 5), c.AvgUnitCost.StringFixed(2), c.TotalCost.StringFixed(2))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, strings.Repeat("=", reportWidth))
	fmt.Fprintf(out, "  %d sale orders, %d components   TOTAL QTY %s   TOTAL COST %s\n",
		result.Totals.GroupCount, result.Totals.ComponentCount,
		result.Totals.TotalQty.String(), result.Totals.TotalCost.StringFixed(2))
	fmt.Fprintln(out, strings.Repeat("=", reportWidth))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
