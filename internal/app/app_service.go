package app

import (
	"context"
	"fmt"

	"bizadmin/internal/core"

	"go.uber.org/zap"
)

type appService struct {
	reports      core.ApprovedBOMService
	orgs         core.OrganizationDirectory
	defaultOrgID string
	pageSize     int
	logger       *zap.Logger
}

// NewAppService constructs an appService that satisfies ApplicationService.
// pageSize is the default report page size; <= 0 uses core.DefaultPageSize.
func NewAppService(
	reports core.ApprovedBOMService,
	orgs core.OrganizationDirectory,
	defaultOrgID string,
	pageSize int,
	logger *zap.Logger,
) ApplicationService {
	if pageSize <= 0 {
		pageSize = core.DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &appService{
		reports:      reports,
		orgs:         orgs,
		defaultOrgID: defaultOrgID,
		pageSize:     pageSize,
		logger:       logger.Named("app"),
	}
}

// GetApprovedBOMReport returns one page of the approved BOM report.
func (s *appService) GetApprovedBOMReport(ctx context.Context, req ApprovedBOMRequest) (*ApprovedBOMResult, error) {
	if req.Page < 0 {
		return nil, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidRequest, req.Page)
	}
	if req.PageSize < 0 {
		return nil, fmt.Errorf("%w: page_size must be >= 1, got %d", ErrInvalidRequest, req.PageSize)
	}

	v, err := s.buildView(ctx, req)
	if err != nil {
		return nil, err
	}

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = s.pageSize
	}
	page := core.PaginateGroups(v.groups, req.Page, pageSize)

	result := &ApprovedBOMResult{
		OrganizationID: v.report.OrganizationID,
		Search:         req.Search,
		SortKey:        v.key,
		SortDirection:  v.dir,
		Consolidated:   req.Consolidate,
		Groups:         page.Groups,
		Page:           page.Page,
		PageSize:       page.PageSize,
		TotalCount:     page.TotalCount,
		TotalPages:     page.TotalPages,
		Totals:         core.SumGroups(v.groups),
		Warnings:       v.report.Warnings,
	}
	if v.report.HasWarnings() {
		result.WarningTitle = core.DataLoadingWarningTitle
	}
	return result, nil
}

// ExportApprovedBOM renders the filtered, sorted report as an xlsx workbook.
func (s *appService) ExportApprovedBOM(ctx context.Context, req ApprovedBOMRequest) (*ApprovedBOMExport, error) {
	v, err := s.buildView(ctx, req)
	if err != nil {
		return nil, err
	}

	f, err := buildApprovedBOMWorkbook(v.groups, v.report.Warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	return &ApprovedBOMExport{
		Workbook:   f,
		Filename:   approvedBOMFilename(v.report.OrganizationID),
		GroupCount: len(v.groups),
		Warnings:   v.report.Warnings,
	}, nil
}

// LoadDefaultOrganization loads the configured organization, or the only one.
func (s *appService) LoadDefaultOrganization(ctx context.Context) (*core.Organization, error) {
	if s.defaultOrgID != "" {
		org, err := s.orgs.GetOrganization(ctx, s.defaultOrgID)
		if err != nil {
			return nil, fmt.Errorf("organization %s not found: %w", s.defaultOrgID, err)
		}
		return org, nil
	}

	orgs, err := s.orgs.ListOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	switch len(orgs) {
	case 0:
		return nil, fmt.Errorf("no default organization found, have migrations run?: %w", core.ErrOrganizationNotFound)
	case 1:
		return &orgs[0], nil
	default:
		return nil, fmt.Errorf("multiple organizations found; set DEFAULT_ORGANIZATION_ID")
	}
}

// ── private helpers ───────────────────────────────────────────────────────────

type reportView struct {
	report *core.ApprovedBOMReport
	groups []core.SaleOrderGroup
	key    core.ReportSortKey
	dir    core.SortDirection
}

// buildView validates req, runs the pipeline and applies search, sort and
// consolidation. Pagination is left to the caller.
func (s *appService) buildView(ctx context.Context, req ApprovedBOMRequest) (*reportView, error) {
	if !core.IsValidUUID(req.OrganizationID) {
		return nil, fmt.Errorf("%w: organization id %q is not a UUID", ErrInvalidRequest, req.OrganizationID)
	}
	key, err := core.ParseSortKey(req.SortKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	dir, err := core.ParseSortDirection(req.SortDirection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	report, err := s.reports.BuildReport(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if report.HasWarnings() {
		s.logger.Warn("approved BOM report degraded",
			zap.String("organization_id", req.OrganizationID),
			zap.Strings("warnings", report.Warnings),
		)
	}

	groups := core.SearchGroups(report.Groups, req.Search)
	groups = core.SortGroups(groups, key, dir)
	if req.Consolidate {
		groups = core.ConsolidateComponents(groups)
	}

	return &reportView{report: report, groups: groups, key: key, dir: dir}, nil
}
