package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"bizadmin/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const orgID = "6f1c2a3b-4d5e-4f60-8a71-b2c3d4e5f601"

type stubReports struct {
	report *core.ApprovedBOMReport
	err    error
	calls  int
}

func (s *stubReports) BuildReport(_ context.Context, id string) (*core.ApprovedBOMReport, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	r := *s.report
	r.OrganizationID = id
	return &r, nil
}

type stubOrgs struct {
	orgs []core.Organization
	err  error
}

func (s *stubOrgs) GetOrganization(_ context.Context, id string) (*core.Organization, error) {
	for _, o := range s.orgs {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", core.ErrOrganizationNotFound, id)
}

func (s *stubOrgs) ListOrganizations(context.Context) ([]core.Organization, error) {
	return s.orgs, s.err
}

func sp(s string) *string { return &s }

// reportWith builds n sale orders SO-001..SO-n, each with one component costing i.
func reportWith(n int, warnings ...string) *core.ApprovedBOMReport {
	var (
		orders     []core.SalesOrder
		components []core.ResolvedComponent
	)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("so-%03d", i)
		orders = append(orders, core.SalesOrder{
			ID: id, SaleOrderNo: sp(fmt.Sprintf("SO-%03d", i)), CustomerID: sp("acme"),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		name := "Oak leg"
		if i == 2 {
			name = "Linen - Sand"
		}
		components = append(components, core.ResolvedComponent{
			SaleOrderID: id, ComponentSKU: fmt.Sprintf("SKU-%d", i), ComponentName: name,
			ProductTypeName: "Sofa", UOM: "pcs", CategoryCode: "leg",
			TotalQty: decimal.NewFromInt(1), AvgUnitCost: decimal.NewFromInt(int64(i)), TotalCost: decimal.NewFromInt(int64(i)),
		})
	}
	if warnings == nil {
		warnings = []string{}
	}
	return &core.ApprovedBOMReport{
		Groups:   core.GroupBySaleOrder(orders, components, map[string]string{"acme": "Acme"}),
		Warnings: warnings,
	}
}

func newTestService(reports core.ApprovedBOMService, orgs core.OrganizationDirectory, defaultOrg string) ApplicationService {
	return NewAppService(reports, orgs, defaultOrg, 10, zap.NewNop())
}

func TestGetApprovedBOMReport_PaginatesNewestFirst(t *testing.T) {
	svc := newTestService(&stubReports{report: reportWith(23)}, &stubOrgs{}, "")

	res, err := svc.GetApprovedBOMReport(context.Background(), ApprovedBOMRequest{OrganizationID: orgID, Page: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 23, res.TotalCount)
	require.Len(t, res.Groups, 3)
	assert.Equal(t, "SO-003", res.Groups[0].SaleOrderNo, "default sort is created_at desc")
	assert.Equal(t, core.SortByCreatedAt, res.SortKey)
	assert.Equal(t, core.SortDesc, res.SortDirection)
	assert.True(t, res.Totals.TotalCost.Equal(decimal.NewFromInt(276)), "totals cover all pages")
	assert.Empty(t, res.WarningTitle)
	assert.NotNil(t, res.Warnings)
}

func TestGetApprovedBOMReport_HugePageValues(t *testing.T) {
	svc := newTestService(&stubReports{report: reportWith(23)}, &stubOrgs{}, "")

	res, err := svc.GetApprovedBOMReport(context.Background(), ApprovedBOMRequest{OrganizationID: orgID, Page: 922337203685477582})
	require.NoError(t, err)
	assert.Empty(t, res.Groups)
	assert.Equal(t, 3, res.TotalPages)

	res, err = svc.GetApprovedBOMReport(context.Background(), ApprovedBOMRequest{OrganizationID: orgID, Page: 1, PageSize: math.MaxInt})
	require.NoError(t, err)
	assert.Len(t, res.Groups, 23)
	assert.Equal(t, 1, res.TotalPages)
}

func TestGetApprovedBOMReport_SearchAndSort(t *testing.T) {
	svc := newTestService(&stubReports{report: reportWith(5)}, &stubOrgs{}, "")

	res, err := svc.GetApprovedBOMReport(context.Background(), ApprovedBOMRequest{OrganizationID: orgID, Search: "lin"})
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	assert.Equal(t, "SO-002", res.Groups[0].SaleOrderNo)
	assert.Equal(t, 1, res.Totals.GroupCount)
	assert.True(t, res.Totals.TotalCost.Equal(decimal.NewFromInt(2)))

	res, err = svc.GetApprovedBOMReport(context.Background(), ApprovedBOMRequest{OrganizationID: orgID, Search: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, res.Groups)
	assert.Equal(t, 0, res.TotalPages)

	res, err = svc.GetApprovedBOMReport(context.Background(), ApprovedBOMRequest{
		OrganizationID: orgID, SortKey: "sale_order_no", SortDirection: "asc", PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SO-001", "SO-002"}, []string{res.Groups[0].SaleOrderNo, res.Groups[1].SaleOrderNo})
	assert.Equal(t, 3, res.TotalPages)
}

func TestGetApprovedBOMReport_SurfacesWarnings(t *testing.T) {
	svc := newTestService(&stubReports{report: reportWith(1, "Failed to fetch catalog items")}, &stubOrgs{}, "")

	res, err := svc.GetApprovedBOMReport(context.Background(), ApprovedBOMRequest{OrganizationID: orgID})
	require.NoError(t, err)
	assert.Equal(t, core.DataLoadingWarningTitle, res.WarningTitle)
	assert.Equal(t, []string{"Failed to fetch catalog items"}, res.Warnings)
}

func TestGetApprovedBOMReport_InvalidRequests(t *testing.T) {
	reports := &stubReports{report: reportWith(1)}
	svc := newTestService(reports, &stubOrgs{}, "")

	tests := []struct {
		name string
		req  ApprovedBOMRequest
	}{
		{"bad organization", ApprovedBOMRequest{OrganizationID: "acme"}},
		{"bad sort key", ApprovedBOMRequest{OrganizationID: orgID, SortKey: "total_cost"}},
		{"bad direction", ApprovedBOMRequest{OrganizationID: orgID, SortDirection: "up"}},
		{"negative page", ApprovedBOMRequest{OrganizationID: orgID, Page: -1}},
		{"negative page size", ApprovedBOMRequest{OrganizationID: orgID, PageSize: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetApprovedBOMReport(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
	assert.Zero(t, reports.calls, "invalid requests never reach the pipeline")
}

func TestGetApprovedBOMReport_TerminalFailure(t *testing.T) {
	cause := fmt.Errorf("%w: boom", core.ErrReportUnavailable)
	svc := newTestService(&stubReports{err: cause}, &stubOrgs{}, "")

	_, err := svc.GetApprovedBOMReport(context.Background(), ApprovedBOMRequest{OrganizationID: orgID})
	assert.ErrorIs(t, err, core.ErrReportUnavailable)
	assert.False(t, errors.Is(err, ErrInvalidRequest))
}

func TestGetApprovedBOMReport_Consolidate(t *testing.T) {
	r := reportWith(1)
	g := r.Groups[0]
	dup := g.Components[0]
	dup.TotalQty = decimal.NewFromInt(3)
	dup.TotalCost = decimal.NewFromInt(3)
	r.Groups = core.GroupBySaleOrder(
		[]core.SalesOrder{{ID: g.SaleOrderID, SaleOrderNo: sp(g.SaleOrderNo), CreatedAt: g.CreatedAt}},
		append(g.Components, dup), nil,
	)
	svc := newTestService(&stubReports{report: r}, &stubOrgs{}, "")

	res, err := svc.GetApprovedBOMReport(context.Background(), ApprovedBOMRequest{OrganizationID: orgID, Consolidate: true})
	require.NoError(t, err)
	require.Len(t, res.Groups[0].Components, 1)
	assert.True(t, res.Groups[0].Components[0].TotalQty.Equal(decimal.NewFromInt(4)))
	assert.True(t, res.Consolidated)
}

func TestExportApprovedBOM(t *testing.T) {
	r := reportWith(3, "Failed to fetch customers")
	r.Groups = append(r.Groups, core.GroupBySaleOrder(
		[]core.SalesOrder{{ID: "so-empty", SaleOrderNo: sp("SO-900")}}, nil, nil)...)
	svc := newTestService(&stubReports{report: r}, &stubOrgs{}, "")

	exp, err := svc.ExportApprovedBOM(context.Background(), ApprovedBOMRequest{OrganizationID: orgID, SortKey: "sale_order_no", SortDirection: "asc"})
	require.NoError(t, err)
	defer exp.Workbook.Close()

	assert.Equal(t, "approved_bom_6f1c2a3b.xlsx", exp.Filename)
	assert.Equal(t, 4, exp.GroupCount)

	rows, err := exp.Workbook.GetRows(approvedBOMSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1+3+1+1, "header, three components, one empty order, totals")
	assert.Equal(t, approvedBOMHeaders, rows[0])
	assert.Equal(t, "SO-001", rows[1][0])
	assert.Equal(t, "Acme", rows[1][1])
	assert.Equal(t, "SKU-1", rows[1][4])
	assert.Equal(t, "SO-900", rows[4][0])
	assert.Equal(t, "N/A", rows[4][1])
	assert.Equal(t, "TOTAL", rows[5][0])

	warnings, err := exp.Workbook.GetRows(warningsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{core.DataLoadingWarningTitle}, {"Failed to fetch customers"}}, warnings)
}

func TestLoadDefaultOrganization(t *testing.T) {
	acme := core.Organization{ID: orgID, Name: "Acme"}
	other := core.Organization{ID: "7f1c2a3b-4d5e-4f60-8a71-b2c3d4e5f601", Name: "Globex"}
	ctx := context.Background()

	t.Run("single organization", func(t *testing.T) {
		org, err := newTestService(nil, &stubOrgs{orgs: []core.Organization{acme}}, "").LoadDefaultOrganization(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Acme", org.Name)
	})

	t.Run("configured organization", func(t *testing.T) {
		org, err := newTestService(nil, &stubOrgs{orgs: []core.Organization{acme, other}}, other.ID).LoadDefaultOrganization(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Globex", org.Name)
	})

	t.Run("ambiguous", func(t *testing.T) {
		_, err := newTestService(nil, &stubOrgs{orgs: []core.Organization{acme, other}}, "").LoadDefaultOrganization(ctx)
		assert.ErrorContains(t, err, "DEFAULT_ORGANIZATION_ID")
	})

	t.Run("none", func(t *testing.T) {
		_, err := newTestService(nil, &stubOrgs{}, "").LoadDefaultOrganization(ctx)
		assert.ErrorIs(t, err, core.ErrOrganizationNotFound)
	})

	t.Run("configured but missing", func(t *testing.T) {
		_, err := newTestService(nil, &stubOrgs{orgs: []core.Organization{acme}}, other.ID).LoadDefaultOrganization(ctx)
		assert.ErrorIs(t, err, core.ErrOrganizationNotFound)
	})
}
