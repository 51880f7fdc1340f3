package report

import (
	"fmt"
	"os"
	"strings"
)

// WriteStatements writes one statement per line to path, replacing any
// existing file. An empty list produces an empty file.
func WriteStatements(path string, stmts []string) error {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write remediation file: %w", err)
	}
	return nil
}
