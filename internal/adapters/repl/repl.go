package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"bizadmin/internal/adapters/cli"
	"bizadmin/internal/app"
	"bizadmin/internal/core"
)

var errExit = errors.New("exit")

// session holds the view the user is currently browsing.
type session struct {
	org  *core.Organization
	req  app.ApprovedBOMRequest
	last *app.ApprovedBOMResult
	svc  app.ApplicationService
	out  io.Writer
}

// Run starts the interactive report browser.
// Slash commands change the view; any other input is used as the search term.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) error {
	org, err := svc.LoadDefaultOrganization(ctx)
	if err != nil {
		return fmt.Errorf("failed to load organization: %w", err)
	}

	s := &session{
		org: org,
		req: app.ApprovedBOMRequest{OrganizationID: org.ID, Page: 1},
		svc: svc,
		out: out,
	}

	fmt.Fprintln(out, "Approved BOM browser")
	fmt.Fprintf(out, "Organization: %s (%s)\n", org.Name, org.ID)
	fmt.Fprintln(out, "Type a search term to filter sale orders, or use /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	if err := s.show(ctx); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}

	for {
		fmt.Fprint(out, "\n> ")
		input, readErr := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input != "" {
			var err error
			if strings.HasPrefix(input, "/") {
				err = s.dispatch(ctx, input)
			} else {
				s.req.Search = input
				s.req.Page = 1
				err = s.show(ctx)
			}
			if errors.Is(err, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("failed to read input: %w", readErr)
		}
	}
}

func (s *session) dispatch(ctx context.Context, input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]

	switch cmd {
	case "show", "s":
		return s.show(ctx)

	case "search", "find":
		s.req.Search = strings.Join(args, " ")
		s.req.Page = 1
		return s.show(ctx)

	case "clear":
		s.req.Search = ""
		s.req.Page = 1
		return s.show(ctx)

	case "sort":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /sort <sale_order_no|customer_name|created_at> [asc|desc]")
			return nil
		}
		s.req.SortKey = args[0]
		s.req.SortDirection = ""
		if len(args) >= 2 {
			s.req.SortDirection = args[1]
		}
		s.req.Page = 1
		return s.show(ctx)

	case "page", "p":
		if len(args) < 1 {
			fmt.Fprintln(s.out, "Usage: /page <n>")
			return nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Fprintf(s.out, "Invalid page: %s\n", args[0])
			return nil
		}
		s.req.Page = n
		return s.show(ctx)

	case "next", "n":
		if s.last != nil && s.req.Page >= s.last.TotalPages {
			fmt.Fprintln(s.out, "Already on the last page.")
			return nil
		}
		s.req.Page++
		return s.show(ctx)

	case "prev":
		if s.req.Page <= 1 {
			fmt.Fprintln(s.out, "Already on the first page.")
			return nil
		}
		s.req.Page--
		return s.show(ctx)

	case "consolidate":
		s.req.Consolidate = !s.req.Consolidate
		if len(args) > 0 {
			s.req.Consolidate = strings.EqualFold(args[0], "on")
		}
		return s.show(ctx)

	case "export":
		if len(args) < 1 || !strings.HasSuffix(strings.ToLower(args[0]), ".xlsx") {
			fmt.Fprintln(s.out, "Usage: /export <file.xlsx>")
			return nil
		}
		exp, err := s.svc.ExportApprovedBOM(ctx, s.req)
		if err != nil {
			return err
		}
		defer exp.Workbook.Close()
		if err := exp.Workbook.SaveAs(args[0]); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}
		cli.PrintWarningBanner(s.out, exp.Warnings)
		fmt.Fprintf(s.out, "Exported %d sale orders to %s\n", exp.GroupCount, args[0])

	case "help", "h":
		printHelp(s.out)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(s.out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

// show rebuilds the report for the current view and prints the page.
func (s *session) show(ctx context.Context) error {
	result, err := s.svc.GetApprovedBOMReport(ctx, s.req)
	if err != nil {
		return err
	}
	s.last = result
	s.req.Page = result.Page
	cli.PrintApprovedBOM(s.out, s.org.Name, result)
	printPageFooter(s.out, result)
	return nil
}
