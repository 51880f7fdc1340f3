package drift

import (
	"sort"

	"github.com/alexanderjulianmartinez/schemawatch/internal/snapshot"
	"github.com/alexanderjulianmartinez/schemawatch/pkg/types"
)

// Options controls optional behavior of Compare.
type Options struct {
	// Remediation enables synthesis of ALTER TABLE statements for columns
	// present in the baseline but missing from the current schema.
	Remediation bool
}

type Report struct {
	Rows       []types.DiffRow
	Statements []string
}

// Failures returns the number of rows with a failure status.
func (r *Report) Failures() int {
	n := 0
	for _, row := range r.Rows {
		if row.Status == types.StatusFailure {
			n++
		}
	}
	return n
}

// HasDrift reports whether any row is a failure.
func (r *Report) HasDrift() bool {
	return r.Failures() > 0
}

// Count returns the number of rows of the given kind.
func (r *Report) Count(kind types.ChangeKind) int {
	n := 0
	for _, row := range r.Rows {
		if row.Kind == kind {
			n++
		}
	}
	return n
}

// Compare classifies every table and column in the union of baseline and
// current. Rows are ordered by canonical table name, then canonical column
// name. Neither snapshot is modified.
func Compare(baseline, current snapshot.Database, opts Options) *Report {
	report := &Report{}

	database := current.Name()
	if database == "" {
		database = baseline.Name()
	}

	for _, key := range union(baseline.TableKeys(), current.TableKeys()) {
		baseTable, inBase := baseline.Table(key)
		curTable, inCur := current.Table(key)

		switch {
		case inBase && !inCur:
			report.add(database, baseTable.Name(), "", types.KindTableMissing, "", "")
		case !inBase && inCur:
			report.add(database, curTable.Name(), "", types.KindTableAdded, "", "")
		default:
			report.compareTables(database, baseTable, curTable, opts)
		}
	}
	return report
}

func (r *Report) compareTables(database string, base, cur snapshot.Table, opts Options) {
	table := cur.Name()
	for _, key := range union(base.ColumnKeys(), cur.ColumnKeys()) {
		baseCol, inBase := base.Column(key)
		curCol, inCur := cur.Column(key)

		switch {
		case inBase && !inCur:
			r.add(database, table, baseCol.Name, types.KindColumnMissing, "", "")
			if opts.Remediation {
				r.Statements = append(r.Statements, AddColumnStatement(table, baseCol))
			}
		case !inBase && inCur:
			r.add(database, table, curCol.Name, types.KindColumnAdded, "", "")
		case baseCol.Type == curCol.Type:
			r.add(database, table, curCol.Name, types.KindMatch, "", "")
		default:
			r.add(database, table, curCol.Name, types.KindTypeChanged, baseCol.Type, curCol.Type)
		}
	}
}

func (r *Report) add(database, table, column string, kind types.ChangeKind, from, to string) {
	r.Rows = append(r.Rows, types.DiffRow{
		Database: database,
		Table:    table,
		Column:   column,
		Status:   StatusForChange(kind),
		Kind:     kind,
		Message:  MessageForChange(kind, from, to),
	})
}

// union merges two sorted, duplicate-free key lists.
func union(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, k := range list {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
