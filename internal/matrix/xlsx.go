package matrix

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Evaluation"

// ExportXLSX writes the matrix as a spreadsheet with the same header and row
// layout as the CSV file.
func ExportXLSX(m *Matrix, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := writeRecord(f, 1, headerRecord(m)); err != nil {
		return err
	}

	for i, row := range m.Rows {
		record := make([]string, 0, len(m.Vendors)+1)
		record = append(record, row.Requirement)
		for _, vendor := range m.Vendors {
			record = append(record, row.Verdicts[vendor])
		}
		if err := writeRecord(f, i+2, record); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %q: %w", path, err)
	}

	return nil
}

func writeRecord(f *excelize.File, rowNum int, record []string) error {
	for col, value := range record {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}
