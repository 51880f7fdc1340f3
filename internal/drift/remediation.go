package drift

import (
	"fmt"

	"github.com/alexanderjulianmartinez/schemawatch/internal/snapshot"
)

// AddColumnStatement builds the statement that re-adds col to table. The
// baseline column definition is used verbatim; nothing is quoted or validated.
func AddColumnStatement(table string, col snapshot.Column) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s;", table, col.Name, col.Type)
}
