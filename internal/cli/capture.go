package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/schemawatch/internal/config"
	"github.com/alexanderjulianmartinez/schemawatch/internal/pipeline"
	"github.com/alexanderjulianmartinez/schemawatch/internal/source/mysql"
)

type CaptureCmd struct{}

func NewCaptureCmd() *CaptureCmd {
	return &CaptureCmd{}
}

func (c *CaptureCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Snapshot the live schema into a baseline file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			insp, err := newInspector(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer insp.Close()

			_, err = pipeline.New(log, insp).Capture(ctx, cfg.Source.Schema, cfg.Snapshot.Path)
			return err
		},
	}

	cmd.Flags().String("schema", "", "Schema to inspect (overrides source.schema)")
	cmd.Flags().String("snapshot", "", "Snapshot file to write (overrides snapshot.path)")

	return cmd
}

func newInspector(ctx context.Context, cfg *config.Config, log *slog.Logger) (*mysql.Inspector, error) {
	return mysql.NewInspector(ctx, cfg.Source.DSN, mysql.Options{
		Timeout:     cfg.Inspector.Timeout,
		Concurrency: cfg.Inspector.Concurrency,
		Logger:      log,
	})
}
