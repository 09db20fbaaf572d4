package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/printforge/planning/pkg/application/dto"
)

// generateExcelOutput writes a planning workbook with one sheet per
// result section, for sharing with purchasing and production planners.
func generateExcelOutput(result *dto.PlanningResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for excel format")
	}
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Requirements"); err != nil {
		return fmt.Errorf("failed to name requirements sheet: %w", err)
	}
	writeRequirementsSheet(f, result)

	if _, err := f.NewSheet("Planned Orders"); err != nil {
		return fmt.Errorf("failed to create planned orders sheet: %w", err)
	}
	writeOrdersSheet(f, result)

	if _, err := f.NewSheet("Fulfillment"); err != nil {
		return fmt.Errorf("failed to create fulfillment sheet: %w", err)
	}
	writeFulfillmentSheet(f, result)

	filename := filepath.Join(config.OutputDir, "planning_results.xlsx")
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	if config.Verbose {
		fmt.Printf("Excel results saved to: %s\n", filename)
	}
	return nil
}

func writeRequirementsSheet(f *excelize.File, result *dto.PlanningResult) {
	sheet := "Requirements"
	headers := []string{"SKU", "Unit", "Gross", "Available", "Incoming", "Net", "Required By", "Short"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for row, req := range result.Requirements {
		values := []interface{}{
			string(req.SKU),
			string(req.Unit),
			req.Gross.InexactFloat64(),
			req.Available.InexactFloat64(),
			req.Incoming.InexactFloat64(),
			req.Net.InexactFloat64(),
			req.RequiredBy.Format("2006-01-02"),
			req.IsShort(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}
}

func writeOrdersSheet(f *excelize.File, result *dto.PlanningResult) {
	sheet := "Planned Orders"
	headers := []string{"ID", "SKU", "Quantity", "Unit", "Release Date", "Need Date", "Type"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for row, order := range result.PlannedOrders {
		values := []interface{}{
			order.ID.String(),
			string(order.SKU),
			order.Quantity.InexactFloat64(),
			string(order.Unit),
			order.ReleaseDate.Format("2006-01-02"),
			order.NeedDate.Format("2006-01-02"),
			order.Type.String(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}
}

func writeFulfillmentSheet(f *excelize.File, result *dto.PlanningResult) {
	sheet := "Fulfillment"
	headers := []string{"Order", "State", "Lines Ready", "Lines Total", "Percent", "Ship Partial", "Ship Complete"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}

	for row, summary := range sortedSummaries(result.Summaries) {
		values := []interface{}{
			summary.OrderID,
			summary.State.String(),
			summary.LinesReady,
			summary.LinesTotal,
			summary.FulfillmentPercent.InexactFloat64(),
			summary.CanShipPartial,
			summary.CanShipComplete,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}
}
