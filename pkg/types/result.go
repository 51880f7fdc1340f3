package types

// Status is the binary outcome of one comparison.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// ChangeKind classifies a DiffRow.
type ChangeKind string

const (
	KindMatch         ChangeKind = "match"
	KindTableMissing  ChangeKind = "table_missing"
	KindTableAdded    ChangeKind = "table_added"
	KindColumnMissing ChangeKind = "column_missing"
	KindColumnAdded   ChangeKind = "column_added"
	KindTypeChanged   ChangeKind = "type_changed"
)

// ReportHeader is the header row every report sink writes first.
var ReportHeader = []string{"Database", "Table", "Column", "Result", "Message"}

// DiffRow is one classified outcome for a table or column pair. Column is
// empty for table-level rows.
type DiffRow struct {
	Database string     `json:"database"`
	Table    string     `json:"table"`
	Column   string     `json:"column"`
	Status   Status     `json:"status"`
	Kind     ChangeKind `json:"kind"`
	Message  string     `json:"message"`
}

// Cells returns the row in ReportHeader order.
func (r DiffRow) Cells() []string {
	return []string{r.Database, r.Table, r.Column, string(r.Status), r.Message}
}
