package app

import (
	"bizadmin/internal/core"

	"github.com/xuri/excelize/v2"
)

// ApprovedBOMResult is returned by GetApprovedBOMReport.
type ApprovedBOMResult struct {
	OrganizationID string                `json:"organization_id" jsonschema:"format=uuid"`
	Search         string                `json:"search,omitempty"`
	SortKey        core.ReportSortKey    `json:"sort" jsonschema:"enum=sale_order_no,enum=customer_name,enum=created_at"`
	SortDirection  core.SortDirection    `json:"dir" jsonschema:"enum=asc,enum=desc"`
	Consolidated   bool                  `json:"consolidated"`
	Groups         []core.SaleOrderGroup `json:"groups"`
	Page           int                   `json:"page" jsonschema:"minimum=1"`
	PageSize       int                   `json:"page_size" jsonschema:"minimum=1"`
	TotalCount     int                   `json:"total_count" jsonschema:"minimum=0"`
	TotalPages     int                   `json:"total_pages" jsonschema:"minimum=0"`

	// Totals covers every group matching the search, not just this page.
	Totals core.ReportTotals `json:"totals"`

	Warnings     []string `json:"warnings"`
	WarningTitle string   `json:"warning_title,omitempty"`
}

// ApprovedBOMExport is returned by ExportApprovedBOM.
type ApprovedBOMExport struct {
	Workbook   *excelize.File
	Filename   string
	GroupCount int
	Warnings   []string
}
