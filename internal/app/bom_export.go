package app

import (
	"fmt"

	"bizadmin/internal/core"

	"github.com/xuri/excelize/v2"
)

const (
	approvedBOMSheet = "Approved BOM"
	warningsSheet    = "Warnings"
)

var approvedBOMHeaders = []string{
	"Sale Order", "Customer", "Created", "Product Type", "SKU", "Component",
	"Category", "Qty", "UOM", "Avg Unit Cost", "Total Cost",
}

var approvedBOMColWidths = []float64{14, 24, 18, 16, 16, 32, 14, 10, 8, 14, 14}

func approvedBOMFilename(orgID string) string {
	short := orgID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("approved_bom_%s.xlsx", short)
}

// buildApprovedBOMWorkbook writes one row per component. A sale order without
// components still gets a row so the workbook lists every group. The last row
// holds the grand totals; warnings go to their own sheet.
func buildApprovedBOMWorkbook(groups []core.SaleOrderGroup, warnings []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", approvedBOMSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return nil, err
	}
	numberFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numberFmt})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &numberFmt})
	if err != nil {
		return nil, err
	}

	for i, h := range approvedBOMHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(approvedBOMSheet, cell, h); err != nil {
			return nil, err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(approvedBOMHeaders))
	if err := f.SetCellStyle(approvedBOMSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	row := 2
	for _, g := range groups {
		created := ""
		if !g.CreatedAt.IsZero() {
			created = g.CreatedAt.Format("2006-01-02 15:04")
		}
		head := []any{g.SaleOrderNo, g.CustomerName, created}

		if len(g.Components) == 0 {
			if err := f.SetSheetRow(approvedBOMSheet, fmt.Sprintf("A%d", row), &head); err != nil {
				return nil, err
			}
			row++
			continue
		}
		for _, c := range g.Components {
			values := append(head[:3:3],
				c.ProductTypeName, c.ComponentSKU, c.ComponentName, c.CategoryCode,
				c.TotalQty.InexactFloat64(), c.UOM,
				c.AvgUnitCost.InexactFloat64(), c.TotalCost.InexactFloat64(),
			)
			if err := f.SetSheetRow(approvedBOMSheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return nil, err
			}
			row++
		}
	}
	if row > 2 {
		if err := f.SetCellStyle(approvedBOMSheet, "J2", fmt.Sprintf("K%d", row-1), moneyStyle); err != nil {
			return nil, err
		}
	}

	totals := core.SumGroups(groups)
	summary := []any{
		"TOTAL", fmt.Sprintf("%d sale orders", totals.GroupCount), nil, nil, nil,
		fmt.Sprintf("%d components", totals.ComponentCount), nil,
		totals.TotalQty.InexactFloat64(), nil, nil, totals.TotalCost.InexactFloat64(),
	}
	if err := f.SetSheetRow(approvedBOMSheet, fmt.Sprintf("A%d", row), &summary); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(approvedBOMSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), totalStyle); err != nil {
		return nil, err
	}

	for i, w := range approvedBOMColWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(approvedBOMSheet, col, col, w); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(approvedBOMSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, err
	}

	if len(warnings) > 0 {
		if _, err := f.NewSheet(warningsSheet); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(warningsSheet, "A1", core.DataLoadingWarningTitle); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(warningsSheet, "A1", "A1", headerStyle); err != nil {
			return nil, err
		}
		for i, w := range warnings {
			if err := f.SetCellValue(warningsSheet, fmt.Sprintf("A%d", i+2), w); err != nil {
				return nil, err
			}
		}
		if err := f.SetColWidth(warningsSheet, "A", "A", 48); err != nil {
			return nil, err
		}
	}

	return f, nil
}
