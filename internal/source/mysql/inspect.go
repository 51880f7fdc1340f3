package mysql

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderjulianmartinez/schemawatch/internal/snapshot"
)

// Capture builds a snapshot of every table in schema. Column fetches run
// concurrently; the first failure cancels the remaining ones.
func (i *Inspector) Capture(ctx context.Context, schema string) (snapshot.Database, error) {
	start := time.Now()

	tables, err := i.FetchAllTableNames(ctx, schema)
	if err != nil {
		return snapshot.Database{}, err
	}
	i.log.Debug("listed tables", "schema", schema, "count", len(tables))

	results := make([]snapshot.Table, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.opts.Concurrency)
	for idx, tableName := range tables {
		g.Go(func() error {
			cols, err := i.FetchSchema(gctx, schema, tableName)
			if err != nil {
				return err
			}
			t, err := snapshot.NewTable(tableName, cols)
			if err != nil {
				return err
			}
			results[idx] = t
			i.log.Debug("fetched columns", "table", tableName, "columns", len(cols))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return snapshot.Database{}, err
	}

	db, err := snapshot.NewDatabase(schema, results)
	if err != nil {
		return snapshot.Database{}, fmt.Errorf("build snapshot of %s: %w", schema, err)
	}

	i.log.Info("captured schema",
		"schema", schema,
		"tables", db.Len(),
		"columns", db.ColumnCount(),
		"duration", time.Since(start))
	return db, nil
}
