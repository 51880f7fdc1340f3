// Package pipeline runs the capture and compare workflows end to end.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderjulianmartinez/schemawatch/internal/drift"
	"github.com/alexanderjulianmartinez/schemawatch/internal/report"
	"github.com/alexanderjulianmartinez/schemawatch/internal/snapshot"
	"github.com/alexanderjulianmartinez/schemawatch/internal/source"
	"github.com/alexanderjulianmartinez/schemawatch/internal/store"
	"github.com/alexanderjulianmartinez/schemawatch/pkg/types"
)

var errNoInspector = errors.New("no inspector configured")

type Runner struct {
	log       *slog.Logger
	inspector source.Inspector
}

// New returns a Runner. inspector may be nil when every compare reads the
// current snapshot from a file.
func New(log *slog.Logger, inspector source.Inspector) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{log: log, inspector: inspector}
}

// Capture inspects schema and stores the snapshot at path.
func (r *Runner) Capture(ctx context.Context, schema, path string) (snapshot.Database, error) {
	db, err := r.captureLive(ctx, schema)
	if err != nil {
		return snapshot.Database{}, err
	}
	if err := store.Write(path, db); err != nil {
		return snapshot.Database{}, err
	}
	r.log.Info("snapshot saved", "path", path, "tables", db.Len(), "columns", db.ColumnCount())
	return db, nil
}

type CompareInput struct {
	Schema       string
	BaselinePath string
	// CurrentPath, when set, reads the current snapshot from a file instead
	// of inspecting the live schema.
	CurrentPath     string
	Remediation     bool
	RemediationPath string
	Sinks           []report.Sink
}

// Compare diffs the stored baseline against the current schema and hands the
// rows to every sink. Nothing is written if loading either snapshot fails.
func (r *Runner) Compare(ctx context.Context, in CompareInput) (*drift.Report, error) {
	r.log.Info("reading baseline", "path", in.BaselinePath)
	baseline, err := store.Read(in.BaselinePath)
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}

	var current snapshot.Database
	if in.CurrentPath != "" {
		r.log.Info("reading current snapshot", "path", in.CurrentPath)
		current, err = store.Read(in.CurrentPath)
		if err != nil {
			return nil, fmt.Errorf("read current snapshot: %w", err)
		}
	} else {
		current, err = r.captureLive(ctx, in.Schema)
		if err != nil {
			return nil, err
		}
	}

	rep := drift.Compare(baseline, current, drift.Options{Remediation: in.Remediation})
	r.log.Info("comparison finished",
		"rows", len(rep.Rows),
		"failures", rep.Failures(),
		"tables_missing", rep.Count(types.KindTableMissing),
		"tables_added", rep.Count(types.KindTableAdded),
		"columns_missing", rep.Count(types.KindColumnMissing),
		"columns_added", rep.Count(types.KindColumnAdded),
		"type_changes", rep.Count(types.KindTypeChanged))

	for _, sink := range in.Sinks {
		if err := sink.Write(ctx, rep.Rows); err != nil {
			return rep, fmt.Errorf("%s report: %w", sink.Name(), err)
		}
		r.log.Debug("report written", "sink", sink.Name())
	}

	if in.Remediation {
		if err := report.WriteStatements(in.RemediationPath, rep.Statements); err != nil {
			return rep, err
		}
		r.log.Info("remediation written", "path", in.RemediationPath, "statements", len(rep.Statements))
	}
	return rep, nil
}

func (r *Runner) captureLive(ctx context.Context, schema string) (snapshot.Database, error) {
	if r.inspector == nil {
		return snapshot.Database{}, errNoInspector
	}
	r.log.Info("capturing schema", "schema", schema, "inspector", r.inspector.Name())
	db, err := r.inspector.Capture(ctx, schema)
	if err != nil {
		return snapshot.Database{}, fmt.Errorf("capture %s: %w", schema, err)
	}
	return db, nil
}
