package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/schemawatch/internal/config"
	"github.com/alexanderjulianmartinez/schemawatch/internal/pipeline"
	"github.com/alexanderjulianmartinez/schemawatch/internal/report"
	"github.com/alexanderjulianmartinez/schemawatch/internal/source"
)

type CompareCmd struct{}

func NewCompareCmd() *CompareCmd {
	return &CompareCmd{}
}

func (c *CompareCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the live schema against a baseline snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyCompareFlags(cmd, cfg); err != nil {
				return err
			}
			currentPath, err := cmd.Flags().GetString("current")
			if err != nil {
				return fmt.Errorf("failed to get current flag: %w", err)
			}
			failOnDrift, err := cmd.Flags().GetBool("fail-on-drift")
			if err != nil {
				return fmt.Errorf("failed to get fail-on-drift flag: %w", err)
			}

			// An offline comparison never touches the source.
			if currentPath == "" {
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if err := cfg.ValidateReport(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			var insp source.Inspector
			if currentPath == "" {
				mi, err := newInspector(ctx, cfg, log)
				if err != nil {
					return err
				}
				defer mi.Close()
				insp = mi
			}

			sinks := []report.Sink{report.NewXLSXSink(cfg.Report.Path)}
			if cfg.Report.Console {
				sinks = append(sinks, report.NewTableSink(os.Stdout, true))
			}
			if cfg.Report.Kafka.Enabled() {
				ks := report.NewKafkaSink(cfg.Report.Kafka.Brokers, cfg.Report.Kafka.Topic)
				defer ks.Close()
				sinks = append(sinks, ks)
			}

			rep, err := pipeline.New(log, insp).Compare(ctx, pipeline.CompareInput{
				Schema:          cfg.Source.Schema,
				BaselinePath:    cfg.Snapshot.Path,
				CurrentPath:     currentPath,
				Remediation:     cfg.Remediation.Enabled,
				RemediationPath: cfg.Remediation.Path,
				Sinks:           sinks,
			})
			if err != nil {
				return err
			}
			log.Info("output result file", "path", cfg.Report.Path)

			if failOnDrift && rep.HasDrift() {
				return fmt.Errorf("%w: %d failing rows", errDriftDetected, rep.Failures())
			}
			return nil
		},
	}

	cmd.Flags().String("schema", "", "Schema to inspect (overrides source.schema)")
	cmd.Flags().String("snapshot", "", "Baseline snapshot file (overrides snapshot.path)")
	cmd.Flags().String("current", "", "Read the current snapshot from this file instead of the live schema")
	cmd.Flags().StringP("output", "o", "", "Report file, must end with .xlsx (overrides report.path)")
	cmd.Flags().Bool("console", false, "Also print failing rows to stdout")
	cmd.Flags().Bool("remediation", false, "Write ALTER TABLE statements for missing columns")
	cmd.Flags().String("remediation-file", "", "Remediation output file (overrides remediation.path)")
	cmd.Flags().Bool("fail-on-drift", false, "Exit with status 3 when any row fails")

	return cmd
}

func applyCompareFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("output") {
		v, err := flags.GetString("output")
		if err != nil {
			return fmt.Errorf("failed to get output flag: %w", err)
		}
		cfg.Report.Path = v
	}
	if flags.Changed("console") {
		v, err := flags.GetBool("console")
		if err != nil {
			return fmt.Errorf("failed to get console flag: %w", err)
		}
		cfg.Report.Console = v
	}
	if flags.Changed("remediation") {
		v, err := flags.GetBool("remediation")
		if err != nil {
			return fmt.Errorf("failed to get remediation flag: %w", err)
		}
		cfg.Remediation.Enabled = v
	}
	if flags.Changed("remediation-file") {
		v, err := flags.GetString("remediation-file")
		if err != nil {
			return fmt.Errorf("failed to get remediation-file flag: %w", err)
		}
		cfg.Remediation.Path = v
	}
	return nil
}
