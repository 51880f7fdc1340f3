package mysql

import (
	"log/slog"
	"time"
)

const (
	defaultTimeout     = 5 * time.Second
	defaultConcurrency = 4
)

// Options tunes how the inspector talks to the server.
type Options struct {
	// Timeout bounds each individual metadata query.
	Timeout time.Duration
	// Concurrency is the number of tables whose columns are fetched at once.
	Concurrency int
	Logger      *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// columnRow is one row of INFORMATION_SCHEMA.COLUMNS as scanned.
type columnRow struct {
	Name     string
	Type     string
	Nullable string
}
