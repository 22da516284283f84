package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"bizadmin/internal/app"
)

// Usage lists the available one-shot commands.
const Usage = `Usage:
  app                   (interactive browser)
  app bom [search-term] [--sort=<key>] [--dir=asc|desc] [--consolidate]
  app bom-export <file.xlsx> [search-term] [--sort=<key>] [--dir=asc|desc] [--consolidate]`

// Run executes a one-shot CLI command against the default organization.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", Usage)
	}

	org, err := svc.LoadDefaultOrganization(ctx)
	if err != nil {
		return fmt.Errorf("failed to load organization: %w", err)
	}

	switch args[0] {
	case "bom", "approved-bom":
		req, _, err := parseReportArgs(args[1:], false)
		if err != nil {
			return err
		}
		req.OrganizationID = org.ID
		req.PageSize = 1 << 20

		result, err := svc.GetApprovedBOMReport(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to build approved BOM report: %w", err)
		}
		PrintApprovedBOM(out, org.Name, result)

	case "bom-export":
		req, path, err := parseReportArgs(args[1:], true)
		if err != nil {
			return err
		}
		req.OrganizationID = org.ID

		exp, err := svc.ExportApprovedBOM(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to export approved BOM report: %w", err)
		}
		defer exp.Workbook.Close()

		if err := exp.Workbook.SaveAs(path); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		PrintWarningBanner(out, exp.Warnings)
		fmt.Fprintf(out, "Exported %d sale orders to %s\n", exp.GroupCount, path)

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], Usage)
	}
	return nil
}

// parseReportArgs splits flags from positional arguments. When wantPath is set
// the first positional is the output file.
func parseReportArgs(args []string, wantPath bool) (app.ApprovedBOMRequest, string, error) {
	var (
		req        app.ApprovedBOMRequest
		positional []string
	)
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "--sort="):
			req.SortKey = strings.TrimPrefix(a, "--sort=")
		case strings.HasPrefix(a, "--dir="):
			req.SortDirection = strings.TrimPrefix(a, "--dir=")
		case a == "--consolidate":
			req.Consolidate = true
		case strings.HasPrefix(a, "--"):
			return req, "", fmt.Errorf("unknown flag: %s\n%s", a, Usage)
		default:
			positional = append(positional, a)
		}
	}

	var path string
	if wantPath {
		if len(positional) == 0 || !strings.HasSuffix(strings.ToLower(positional[0]), ".xlsx") {
			return req, "", fmt.Errorf("bom-export needs an .xlsx output path\n%s", Usage)
		}
		path, positional = positional[0], positional[1:]
	}
	req.Search = strings.Join(positional, " ")
	return req, path, nil
}
