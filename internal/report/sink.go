// Package report renders comparison rows to durable or interactive outputs.
package report

import (
	"context"

	"github.com/alexanderjulianmartinez/schemawatch/pkg/types"
)

// Sink consumes the rows of one comparison. Sinks prepend
// types.ReportHeader themselves where the format has a header.
type Sink interface {
	Name() string
	Write(ctx context.Context, rows []types.DiffRow) error
}
