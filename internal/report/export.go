package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{"Date", "Panel_ID", "Action", "User", "Category", "Sub_Status", "Comments", "Txn_ID"}

const exportTimeFormat = "2006-01-02 15:04"

// ExportHistoryXLSX writes the full history log as a spreadsheet, in append
// order, suitable for streaming as a download.
func (s *Service) ExportHistoryXLSX(ctx context.Context, w io.Writer) error {
	if err := s.history.Reload(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, h := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to name cell: %w", err)
		}
		if err := f.SetCellValue("Sheet1", cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for rowNum, record := range s.historyRecords() {
		for i, v := range record {
			cell, err := excelize.CoordinatesToCellName(i+1, rowNum+2)
			if err != nil {
				return fmt.Errorf("failed to name cell: %w", err)
			}
			if err := f.SetCellValue("Sheet1", cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// ExportHistoryCSV writes the full history log as CSV, in append order.
func (s *Service) ExportHistoryCSV(ctx context.Context, w io.Writer) error {
	if err := s.history.Reload(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range s.historyRecords() {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) historyRecords() [][]string {
	txs := s.history.All()
	records := make([][]string, 0, len(txs))
	for _, tx := range txs {
		records = append(records, []string{
			tx.Timestamp.Format(exportTimeFormat),
			tx.AssetID,
			string(tx.Action),
			tx.User,
			tx.Category,
			string(tx.SubStatus),
			tx.Comments,
			tx.ID,
		})
	}
	return records
}
