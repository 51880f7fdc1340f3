package drift

import (
	"fmt"

	"github.com/alexanderjulianmartinez/schemawatch/pkg/types"
)

// Centralized status and message helpers for schema changes.
// Rules:
// - success only when a column exists on both sides with the same type
// - failure for everything else, including purely additive changes

// StatusForChange returns the report status for the given change kind.
func StatusForChange(kind types.ChangeKind) types.Status {
	if kind == types.KindMatch {
		return types.StatusSuccess
	}
	return types.StatusFailure
}

// MessageForChange returns the report message for the given change kind.
// from and to are only used for type changes.
func MessageForChange(kind types.ChangeKind, from, to string) string {
	switch kind {
	case types.KindTableMissing:
		return "table missing"
	case types.KindTableAdded:
		return "table added"
	case types.KindColumnMissing:
		return "column missing"
	case types.KindColumnAdded:
		return "column added"
	case types.KindTypeChanged:
		return fmt.Sprintf("column definition mismatch: %s --> %s", from, to)
	default:
		return ""
	}
}
