package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	driver "github.com/go-sql-driver/mysql"

	"github.com/alexanderjulianmartinez/schemawatch/internal/snapshot"
	"github.com/alexanderjulianmartinez/schemawatch/internal/source"
)

const (
	tableNamesQuery = `
		SELECT DISTINCT TABLE_NAME
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ?
	`
	columnsQuery = `
		SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`
)

type Inspector struct {
	db   *sql.DB
	opts Options
	log  *slog.Logger
}

var _ source.Inspector = (*Inspector)(nil)

// NewInspector opens a pool for dsn and verifies the server is reachable.
func NewInspector(ctx context.Context, dsn string, opts Options) (*Inspector, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: parse dsn: %w", source.ErrConnectivity, err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrConnectivity, err)
	}

	i := New(db, opts)

	pingCtx, cancel := context.WithTimeout(ctx, i.opts.Timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: mysql ping failed: %w", source.ErrConnectivity, err)
	}

	i.log.Debug("connected to mysql", "addr", cfg.Addr, "user", cfg.User)
	return i, nil
}

// New wraps an already opened pool.
func New(db *sql.DB, opts Options) *Inspector {
	opts = opts.withDefaults()
	return &Inspector{
		db:   db,
		opts: opts,
		log:  opts.Logger,
	}
}

func (i *Inspector) Name() string {
	return "mysql"
}

func (i *Inspector) Close() error {
	return i.db.Close()
}

// FetchAllTableNames returns the distinct tables of schema that have columns.
func (i *Inspector) FetchAllTableNames(ctx context.Context, schema string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, i.opts.Timeout)
	defer cancel()

	rows, err := i.db.QueryContext(ctx, tableNamesQuery, schema)
	if err != nil {
		return nil, fmt.Errorf("%w: list tables of %s: %w", source.ErrQuery, schema, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scan table name: %w", source.ErrQuery, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list tables of %s: %w", source.ErrQuery, schema, err)
	}
	return names, nil
}

// FetchSchema returns the columns of one table in ordinal order.
func (i *Inspector) FetchSchema(ctx context.Context, schema, tableName string) ([]snapshot.Column, error) {
	ctx, cancel := context.WithTimeout(ctx, i.opts.Timeout)
	defer cancel()

	rows, err := i.db.QueryContext(ctx, columnsQuery, schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("%w: columns of %s.%s: %w", source.ErrQuery, schema, tableName, err)
	}
	defer rows.Close()

	var cols []snapshot.Column
	for rows.Next() {
		var r columnRow
		if err := rows.Scan(&r.Name, &r.Type, &r.Nullable); err != nil {
			return nil, fmt.Errorf("%w: scan column of %s.%s: %w", source.ErrQuery, schema, tableName, err)
		}
		cols = append(cols, snapshot.Column{
			Name:     r.Name,
			Type:     r.Type,
			Nullable: r.Nullable == "YES",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: columns of %s.%s: %w", source.ErrQuery, schema, tableName, err)
	}
	return cols, nil
}
