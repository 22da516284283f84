package app

import (
	"context"
	"errors"

	"bizadmin/internal/core"
)

// ErrInvalidRequest marks caller input the application layer rejected before
// running the report (bad organization id, sort key, direction or page).
var ErrInvalidRequest = errors.New("invalid request")

// ApplicationService is the single interface all UI adapters (CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// GetApprovedBOMReport builds the approved BOM report for an organization and
	// returns one page of it after search, sort and optional consolidation.
	// Data loading problems are reported in the result's Warnings, not as errors.
	GetApprovedBOMReport(ctx context.Context, req ApprovedBOMRequest) (*ApprovedBOMResult, error)

	// ExportApprovedBOM builds the same filtered and sorted report, unpaginated,
	// as a spreadsheet workbook.
	ExportApprovedBOM(ctx context.Context, req ApprovedBOMRequest) (*ApprovedBOMExport, error)

	// LoadDefaultOrganization loads the active organization. Uses the configured
	// default organization id if set; otherwise expects exactly one organization.
	LoadDefaultOrganization(ctx context.Context) (*core.Organization, error)
}
