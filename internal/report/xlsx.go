package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportExcel writes the placement plan and the per-container summaries to
// an .xlsx workbook with two sheets, "Plan" and "Bins".
func ExportExcel(path string, rep Report) error {
	f := excelize.NewFile()
	defer f.Close()

	const planSheet = "Plan"
	f.SetSheetName("Sheet1", planSheet)

	planHeaders := []string{"Step", "Item ID", "Item Type", "Bin ID", "X", "Y", "Width", "Height", "Shape"}
	for i, h := range planHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(planSheet, cell, h); err != nil {
			return fmt.Errorf("write plan header: %w", err)
		}
	}
	for r, step := range rep.Plan {
		values := []interface{}{
			step.Step, step.ItemID, step.ItemType, step.BinID,
			step.X, step.Y, step.Width, step.Height, step.Shape,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(planSheet, cell, v); err != nil {
				return fmt.Errorf("write plan row %d: %w", step.Step, err)
			}
		}
	}

	const binSheet = "Bins"
	if _, err := f.NewSheet(binSheet); err != nil {
		return fmt.Errorf("create bins sheet: %w", err)
	}
	binHeaders := []string{"Bin ID", "Utilization %", "Items"}
	for i, h := range binHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(binSheet, cell, h); err != nil {
			return fmt.Errorf("write bins header: %w", err)
		}
	}
	for r, bin := range rep.Bins {
		values := []interface{}{bin.BinID, bin.Utilization, bin.ItemsCount}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(binSheet, cell, v); err != nil {
				return fmt.Errorf("write bins row %d: %w", bin.BinID, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
