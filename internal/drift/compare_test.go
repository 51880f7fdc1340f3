package drift

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alexanderjulianmartinez/schemawatch/internal/snapshot"
	"github.com/alexanderjulianmartinez/schemawatch/pkg/types"
)

type tbl struct {
	name string
	cols []snapshot.Column
}

func db(t *testing.T, name string, tables ...tbl) snapshot.Database {
	t.Helper()
	var out []snapshot.Table
	for _, tb := range tables {
		st, err := snapshot.NewTable(tb.name, tb.cols)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, st)
	}
	d, err := snapshot.NewDatabase(name, out)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func col(name, typ string) snapshot.Column {
	return snapshot.Column{Name: name, Type: typ}
}

func row(table, column string, kind types.ChangeKind, msg string) types.DiffRow {
	return types.DiffRow{
		Database: "shop",
		Table:    table,
		Column:   column,
		Status:   StatusForChange(kind),
		Kind:     kind,
		Message:  msg,
	}
}

func TestOrdersExample(t *testing.T) {
	baseline := db(t, "shop", tbl{"orders", []snapshot.Column{col("id", "int"), col("amt", "decimal")}})
	current := db(t, "shop", tbl{"orders", []snapshot.Column{col("id", "int"), col("amt", "varchar(10)"), col("note", "text")}})

	rep := Compare(baseline, current, Options{Remediation: true})

	want := []types.DiffRow{
		row("orders", "amt", types.KindTypeChanged, "column definition mismatch: decimal --> varchar(10)"),
		row("orders", "id", types.KindMatch, ""),
		row("orders", "note", types.KindColumnAdded, "column added"),
	}
	if diff := cmp.Diff(want, rep.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if len(rep.Statements) != 0 {
		t.Fatalf("expected no statements, got %v", rep.Statements)
	}
}

func TestColumnMissingWithRemediation(t *testing.T) {
	baseline := db(t, "shop", tbl{"users", []snapshot.Column{col("id", "int"), col("legacy_flag", "int")}})
	current := db(t, "shop", tbl{"users", []snapshot.Column{col("id", "int")}})

	rep := Compare(baseline, current, Options{Remediation: true})

	want := []types.DiffRow{
		row("users", "id", types.KindMatch, ""),
		row("users", "legacy_flag", types.KindColumnMissing, "column missing"),
	}
	if diff := cmp.Diff(want, rep.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	wantStmts := []string{"ALTER TABLE users ADD COLUMN legacy_flag int;"}
	if diff := cmp.Diff(wantStmts, rep.Statements); diff != "" {
		t.Fatalf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestRemediationDisabled(t *testing.T) {
	baseline := db(t, "shop", tbl{"users", []snapshot.Column{col("legacy_flag", "int")}})
	current := db(t, "shop", tbl{"users", nil})

	rep := Compare(baseline, current, Options{})
	if rep.Count(types.KindColumnMissing) != 1 {
		t.Fatalf("expected one column_missing row, got %v", rep.Rows)
	}
	if len(rep.Statements) != 0 {
		t.Fatalf("expected no statements when remediation is disabled, got %v", rep.Statements)
	}
}

func TestRemediationUsesCurrentTableNameAndBaselineDefinition(t *testing.T) {
	baseline := db(t, "shop", tbl{"users", []snapshot.Column{col("ID", "int"), col("Legacy_Flag", "tinyint(1)")}})
	current := db(t, "shop", tbl{"Users", []snapshot.Column{col("id", "int")}})

	rep := Compare(baseline, current, Options{Remediation: true})

	want := []string{"ALTER TABLE Users ADD COLUMN Legacy_Flag tinyint(1);"}
	if diff := cmp.Diff(want, rep.Statements); diff != "" {
		t.Fatalf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestTableMissingAndAdded(t *testing.T) {
	baseline := db(t, "shop", tbl{"legacy", []snapshot.Column{col("a", "int")}}, tbl{"orders", []snapshot.Column{col("id", "int")}})
	current := db(t, "shop", tbl{"orders", []snapshot.Column{col("id", "int")}}, tbl{"audit", []snapshot.Column{col("b", "int")}})

	rep := Compare(baseline, current, Options{Remediation: true})

	want := []types.DiffRow{
		row("audit", "", types.KindTableAdded, "table added"),
		row("legacy", "", types.KindTableMissing, "table missing"),
		row("orders", "id", types.KindMatch, ""),
	}
	if diff := cmp.Diff(want, rep.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if len(rep.Statements) != 0 {
		t.Fatalf("table-level changes must not produce statements, got %v", rep.Statements)
	}
}

func TestSelfDiff(t *testing.T) {
	s := db(t, "shop",
		tbl{"orders", []snapshot.Column{col("id", "int"), col("amt", "decimal(10,2)")}},
		tbl{"users", []snapshot.Column{col("id", "bigint"), col("email", "varchar(255)"), col("created_at", "datetime")}},
	)

	rep := Compare(s, s, Options{Remediation: true})

	if len(rep.Rows) != s.ColumnCount() {
		t.Fatalf("expected %d rows, got %d", s.ColumnCount(), len(rep.Rows))
	}
	for _, r := range rep.Rows {
		if r.Status != types.StatusSuccess {
			t.Fatalf("expected only success rows, got %+v", r)
		}
	}
	if rep.HasDrift() || len(rep.Statements) != 0 {
		t.Fatalf("self diff must not report drift: %+v", rep)
	}
}

func TestCaseInsensitiveIdentity(t *testing.T) {
	baseline := db(t, "shop", tbl{"Users", []snapshot.Column{col("ID", "int"), col("Email", "varchar(64)")}})
	current := db(t, "shop", tbl{"users", []snapshot.Column{col("id", "int"), col("email", "varchar(64)")}})

	rep := Compare(baseline, current, Options{})

	want := []types.DiffRow{
		row("users", "email", types.KindMatch, ""),
		row("users", "id", types.KindMatch, ""),
	}
	if diff := cmp.Diff(want, rep.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestTypeComparisonIsLiteral(t *testing.T) {
	baseline := db(t, "shop", tbl{"t1", []snapshot.Column{col("a", "INT"), col("b", "varchar(10)"), col("c", "int unsigned")}})
	current := db(t, "shop", tbl{"t1", []snapshot.Column{col("a", "int"), col("b", "varchar( 10)"), col("c", "int unsigned")}})

	rep := Compare(baseline, current, Options{})

	if got := rep.Count(types.KindTypeChanged); got != 2 {
		t.Fatalf("expected 2 type changes, got %d: %v", got, rep.Rows)
	}
	if got := rep.Count(types.KindMatch); got != 1 {
		t.Fatalf("expected 1 match, got %d: %v", got, rep.Rows)
	}
}

func TestNullabilityIgnored(t *testing.T) {
	baseline := db(t, "shop", tbl{"t1", []snapshot.Column{{Name: "a", Type: "int", Nullable: true}}})
	current := db(t, "shop", tbl{"t1", []snapshot.Column{{Name: "a", Type: "int", Nullable: false}}})

	rep := Compare(baseline, current, Options{})
	if rep.HasDrift() {
		t.Fatalf("nullability change must not be reported, got %v", rep.Rows)
	}
}

func TestColumnCoverage(t *testing.T) {
	baseline := db(t, "shop", tbl{"t1", []snapshot.Column{col("a", "int"), col("b", "int"), col("C", "int")}})
	current := db(t, "shop", tbl{"T1", []snapshot.Column{col("b", "int"), col("c", "text"), col("d", "int"), col("e", "int")}})

	rep := Compare(baseline, current, Options{Remediation: true})

	// union of {a,b,c} and {b,c,d,e}
	if len(rep.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d: %v", len(rep.Rows), rep.Rows)
	}
	seen := map[string]int{}
	for _, r := range rep.Rows {
		seen[strings.ToLower(r.Column)]++
		if r.Table != "T1" {
			t.Fatalf("expected current table casing T1, got %q", r.Table)
		}
	}
	for _, c := range []string{"a", "b", "c", "d", "e"} {
		if seen[c] != 1 {
			t.Fatalf("column %s classified %d times", c, seen[c])
		}
	}
}

func TestRemediationCompleteness(t *testing.T) {
	var baseCols, curCols []snapshot.Column
	for i := 0; i < 10; i++ {
		baseCols = append(baseCols, col(fmt.Sprintf("c%d", i), "int"))
		if i%3 == 0 {
			curCols = append(curCols, col(fmt.Sprintf("c%d", i), "int"))
		}
	}
	baseline := db(t, "shop", tbl{"wide", baseCols}, tbl{"gone", []snapshot.Column{col("x", "int")}})
	current := db(t, "shop", tbl{"wide", curCols})

	rep := Compare(baseline, current, Options{Remediation: true})

	var missing []types.DiffRow
	for _, r := range rep.Rows {
		if r.Kind == types.KindColumnMissing {
			missing = append(missing, r)
		}
	}
	if len(missing) != len(rep.Statements) {
		t.Fatalf("expected %d statements, got %d", len(missing), len(rep.Statements))
	}
	for i, r := range missing {
		want := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s int;", r.Table, r.Column)
		if rep.Statements[i] != want {
			t.Fatalf("statement %d: expected %q, got %q", i, want, rep.Statements[i])
		}
	}
}

func TestCompareDoesNotMutateInputs(t *testing.T) {
	baseline := db(t, "shop", tbl{"t1", []snapshot.Column{col("a", "int")}})
	current := db(t, "shop", tbl{"t1", []snapshot.Column{col("b", "int")}})
	baseCopy := db(t, "shop", tbl{"t1", []snapshot.Column{col("a", "int")}})
	curCopy := db(t, "shop", tbl{"t1", []snapshot.Column{col("b", "int")}})

	Compare(baseline, current, Options{Remediation: true})

	if !baseline.Equal(baseCopy) || !current.Equal(curCopy) {
		t.Fatalf("compare mutated its inputs")
	}
}

func TestDatabaseNameFallsBackToBaseline(t *testing.T) {
	baseline := db(t, "shop", tbl{"t1", []snapshot.Column{col("a", "int")}})
	current := db(t, "", tbl{"t1", []snapshot.Column{col("a", "int")}})

	rep := Compare(baseline, current, Options{})
	if len(rep.Rows) != 1 || rep.Rows[0].Database != "shop" {
		t.Fatalf("expected database shop, got %v", rep.Rows)
	}
}

func TestEmptySnapshots(t *testing.T) {
	rep := Compare(db(t, "shop"), db(t, "shop"), Options{Remediation: true})
	if len(rep.Rows) != 0 || len(rep.Statements) != 0 {
		t.Fatalf("expected empty report, got %+v", rep)
	}
}
