package store

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// readWorkbook loads the first sheet of an xlsx file as a header row plus
// data rows. A workbook with no rows at all yields a nil header.
func readWorkbook(path string) (header []string, rows [][]string, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook %s: %w", path, cerr)
		}
	}()

	all, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

// writeWorkbook rewrites path wholesale: one sheet, header row first, then
// the data rows.
func writeWorkbook(path string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return fmt.Errorf("failed to name cell: %w", err)
		}
		if err := f.SetCellValue(defaultSheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

// columnIndex maps column names to their position in the header row.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

// cellAt returns row[idx[name]], tolerating short rows and absent columns.
// GetRows trims trailing empty cells, so data rows are often shorter than
// the header.
func cellAt(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// missingColumns lists the expected column names absent from header.
func missingColumns(header, expected []string) []string {
	idx := columnIndex(header)
	var missing []string
	for _, name := range expected {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
