package source

import (
	"context"
	"errors"

	"github.com/alexanderjulianmartinez/schemawatch/internal/snapshot"
)

var (
	// ErrConnectivity indicates the data source could not be reached.
	ErrConnectivity = errors.New("data source unreachable")

	// ErrQuery indicates a structural metadata query failed.
	ErrQuery = errors.New("metadata query failed")
)

// Inspector captures the structural metadata of one schema. Table and column
// order in the result carries no meaning.
type Inspector interface {
	Name() string
	Capture(ctx context.Context, schema string) (snapshot.Database, error)
}
