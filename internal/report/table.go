package report

import (
	"context"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/alexanderjulianmartinez/schemawatch/pkg/types"
)

// TableSink prints the report as a text table.
type TableSink struct {
	w            io.Writer
	onlyFailures bool
}

// NewTableSink returns a sink writing to w. When onlyFailures is set,
// success rows are left out.
func NewTableSink(w io.Writer, onlyFailures bool) *TableSink {
	return &TableSink{w: w, onlyFailures: onlyFailures}
}

func (s *TableSink) Name() string { return "console" }

func (s *TableSink) Write(_ context.Context, rows []types.DiffRow) error {
	table := tablewriter.NewWriter(s.w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(true)
	table.SetHeader(types.ReportHeader)

	for _, row := range rows {
		if s.onlyFailures && row.Status == types.StatusSuccess {
			continue
		}
		table.Append(row.Cells())
	}
	table.Render()
	return nil
}
