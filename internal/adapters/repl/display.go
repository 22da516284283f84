package repl

import (
	"fmt"
	"io"
	"strings"

	"bizadmin/internal/app"
)

func printPageFooter(out io.Writer, result *app.ApprovedBOMResult) {
	pages := max(result.TotalPages, 1)
	fmt.Fprintf(out, "  Page %d of %d (%d sale orders)", result.Page, pages, result.TotalCount)
	if result.Consolidated {
		fmt.Fprint(out, "  [consolidated]")
	}
	fmt.Fprintln(out)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "APPROVED BOM BROWSER : COMMANDS")
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  VIEW")
	fmt.Fprintln(out, "  /show                            Reload the current page")
	fmt.Fprintln(out, "  /search <term>                   Filter by sale order, customer, SKU or component")
	fmt.Fprintln(out, "  /clear                           Remove the search filter")
	fmt.Fprintln(out, "  /sort <key> [asc|desc]           sale_order_no, customer_name or created_at")
	fmt.Fprintln(out, "  /consolidate [on|off]            Merge duplicate components per sale order")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  PAGING")
	fmt.Fprintln(out, "  /page <n>                        Jump to page n")
	fmt.Fprintln(out, "  /next, /prev                     Move one page")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  EXPORT")
	fmt.Fprintln(out, "  /export <file.xlsx>              Write every matching sale order to Excel")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  SESSION")
	fmt.Fprintln(out, "  /help                            Show this help")
	fmt.Fprintln(out, "  /exit                            Exit")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Any input without a / prefix is used as the search term.")
	fmt.Fprintln(out, strings.Repeat("=", 62))
}
