package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"bizadmin/internal/app"
	"bizadmin/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubApp struct {
	lastReq  app.ApprovedBOMRequest
	result   *app.ApprovedBOMResult
	warnings []string
}

func (s *stubApp) GetApprovedBOMReport(_ context.Context, req app.ApprovedBOMRequest) (*app.ApprovedBOMResult, error) {
	s.lastReq = req
	return s.result, nil
}

func (s *stubApp) ExportApprovedBOM(_ context.Context, req app.ApprovedBOMRequest) (*app.ApprovedBOMExport, error) {
	s.lastReq = req
	f := excelize.NewFile()
	_ = f.SetCellValue("Sheet1", "A1", "Sale Order")
	return &app.ApprovedBOMExport{Workbook: f, Filename: "x.xlsx", GroupCount: 2, Warnings: s.warnings}, nil
}

func (s *stubApp) LoadDefaultOrganization(context.Context) (*core.Organization, error) {
	return &core.Organization{ID: "6f1c2a3b-4d5e-4f60-8a71-b2c3d4e5f601", Name: "Acme Furniture"}, nil
}

func sampleResult() *app.ApprovedBOMResult {
	comp := core.ResolvedComponent{
		ComponentSKU: "FAB-22", ComponentName: "Linen - Sand", CategoryCode: "fabric", UOM: "m",
		TotalQty: decimal.RequireFromString("3.5"), AvgUnitCost: decimal.NewFromInt(12), TotalCost: decimal.NewFromInt(42),
	}
	return &app.ApprovedBOMResult{
		SortKey: core.SortByCreatedAt, SortDirection: core.SortDesc,
		Groups: []core.SaleOrderGroup{
			{SaleOrderNo: "SO-1001", CustomerName: "Acme", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				Components: []core.ResolvedComponent{comp}, TotalQty: comp.TotalQty, TotalCost: comp.TotalCost},
			{SaleOrderNo: "SO-1002", CustomerName: core.NotAvailable, Components: []core.ResolvedComponent{}},
		},
		Totals:   core.ReportTotals{GroupCount: 2, ComponentCount: 1, TotalQty: comp.TotalQty, TotalCost: comp.TotalCost},
		Warnings: []string{"Failed to fetch customers"},
	}
}

func TestRun_Bom(t *testing.T) {
	svc := &stubApp{result: sampleResult()}
	var out bytes.Buffer

	err := Run(context.Background(), svc, []string{"bom", "linen", "sand", "--sort=sale_order_no", "--dir=asc"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "linen sand", svc.lastReq.Search)
	assert.Equal(t, "sale_order_no", svc.lastReq.SortKey)
	assert.Equal(t, "asc", svc.lastReq.SortDirection)
	assert.Equal(t, "6f1c2a3b-4d5e-4f60-8a71-b2c3d4e5f601", svc.lastReq.OrganizationID)

	text := out.String()
	assert.Contains(t, text, "APPROVED BOM : Acme Furniture")
	assert.Contains(t, text, "DATA LOADING WARNING")
	assert.Contains(t, text, "Failed to fetch customers")
	assert.Contains(t, text, "Linen - Sand")
	assert.Contains(t, text, "BOM not generated yet.")
	assert.Contains(t, text, "TOTAL COST 42.00")
}

func TestRun_BomExport(t *testing.T) {
	svc := &stubApp{warnings: []string{"Failed to fetch quote lines"}}
	path := filepath.Join(t.TempDir(), "bom.xlsx")
	var out bytes.Buffer

	err := Run(context.Background(), svc, []string{"bom-export", path, "sofa", "--consolidate"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "sofa", svc.lastReq.Search)
	assert.True(t, svc.lastReq.Consolidate)
	assert.Contains(t, out.String(), "Exported 2 sale orders")
	assert.Contains(t, out.String(), "Failed to fetch quote lines")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sale Order", v)
}

func TestRun_Errors(t *testing.T) {
	svc := &stubApp{result: sampleResult()}
	tests := [][]string{
		{},
		{"nope"},
		{"bom-export"},
		{"bom-export", "report.csv"},
		{"bom", "--verbose"},
	}
	for _, args := range tests {
		assert.Error(t, Run(context.Background(), svc, args, &bytes.Buffer{}), "args %v", args)
	}
}
