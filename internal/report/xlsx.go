package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/alexanderjulianmartinez/schemawatch/pkg/types"
)

const defaultSheet = "Sheet1"

// XLSXSink writes the report as a single-sheet workbook.
type XLSXSink struct {
	path string
}

func NewXLSXSink(path string) *XLSXSink {
	return &XLSXSink{path: path}
}

func (s *XLSXSink) Name() string { return "xlsx" }

func (s *XLSXSink) Path() string { return s.path }

func (s *XLSXSink) Write(_ context.Context, rows []types.DiffRow) error {
	f := excelize.NewFile()
	defer f.Close()

	header := append([]string{}, types.ReportHeader...)
	if err := f.SetSheetRow(defaultSheet, "A1", &header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := row.Cells()
		if err := f.SetSheetRow(defaultSheet, cell, &cells); err != nil {
			return fmt.Errorf("write report row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(defaultSheet, "A", "C", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(defaultSheet, "E", "E", 48); err != nil {
		return err
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("save report %s: %w", s.path, err)
	}
	return nil
}
