// Package snapshot holds the immutable structural model of a captured schema.
//
// Tables and columns are keyed by their canonical (lowercased) name so that
// identity is case-insensitive, while the original casing is kept for display.
package snapshot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDuplicateName is returned when two tables, or two columns of one table,
// share a canonical name.
var ErrDuplicateName = errors.New("duplicate canonical name")

// Canonical returns the identity key for a table or column name.
func Canonical(name string) string {
	return strings.ToLower(name)
}

// Column describes one column as reported by the engine. Type is the raw
// type literal (e.g. "varchar(10)") and is never parsed.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// Table is an immutable set of columns keyed by canonical name.
type Table struct {
	name    string
	columns map[string]Column
}

// NewTable builds a Table from cols. Input order does not matter.
func NewTable(name string, cols []Column) (Table, error) {
	t := Table{name: name, columns: make(map[string]Column, len(cols))}
	for _, c := range cols {
		key := Canonical(c.Name)
		if prev, ok := t.columns[key]; ok {
			return Table{}, fmt.Errorf("%w: table %s has columns %q and %q", ErrDuplicateName, name, prev.Name, c.Name)
		}
		t.columns[key] = c
	}
	return t, nil
}

func (t Table) Name() string { return t.name }

// Len returns the number of columns.
func (t Table) Len() int { return len(t.columns) }

// Column looks up a column by name, ignoring case.
func (t Table) Column(name string) (Column, bool) {
	c, ok := t.columns[Canonical(name)]
	return c, ok
}

// ColumnKeys returns the canonical column names in ascending order.
func (t Table) ColumnKeys() []string {
	return sortedKeys(t.columns)
}

// Columns returns a copy of the columns ordered by canonical name.
func (t Table) Columns() []Column {
	out := make([]Column, 0, len(t.columns))
	for _, key := range t.ColumnKeys() {
		out = append(out, t.columns[key])
	}
	return out
}

// Equal reports whether both tables have the same name and columns.
func (t Table) Equal(o Table) bool {
	if t.name != o.name || len(t.columns) != len(o.columns) {
		return false
	}
	for key, c := range t.columns {
		if oc, ok := o.columns[key]; !ok || oc != c {
			return false
		}
	}
	return true
}

// Database is an immutable set of tables keyed by canonical name.
type Database struct {
	name   string
	tables map[string]Table
}

// NewDatabase builds a Database from tables. Input order does not matter.
func NewDatabase(name string, tables []Table) (Database, error) {
	d := Database{name: name, tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		key := Canonical(t.name)
		if prev, ok := d.tables[key]; ok {
			return Database{}, fmt.Errorf("%w: database %s has tables %q and %q", ErrDuplicateName, name, prev.name, t.name)
		}
		d.tables[key] = t
	}
	return d, nil
}

func (d Database) Name() string { return d.name }

// Len returns the number of tables.
func (d Database) Len() int { return len(d.tables) }

// Table looks up a table by name, ignoring case.
func (d Database) Table(name string) (Table, bool) {
	t, ok := d.tables[Canonical(name)]
	return t, ok
}

// TableKeys returns the canonical table names in ascending order.
func (d Database) TableKeys() []string {
	return sortedKeys(d.tables)
}

// Tables returns a copy of the tables ordered by canonical name.
func (d Database) Tables() []Table {
	out := make([]Table, 0, len(d.tables))
	for _, key := range d.TableKeys() {
		out = append(out, d.tables[key])
	}
	return out
}

// ColumnCount returns the total number of columns across all tables.
func (d Database) ColumnCount() int {
	n := 0
	for _, t := range d.tables {
		n += len(t.columns)
	}
	return n
}

// Equal reports structural equality.
func (d Database) Equal(o Database) bool {
	if d.name != o.name || len(d.tables) != len(o.tables) {
		return false
	}
	for key, t := range d.tables {
		ot, ok := o.tables[key]
		if !ok || !t.Equal(ot) {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
