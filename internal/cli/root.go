package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/schemawatch/internal/config"
)

type ExitCode int

const (
	exitCodeSuccess     ExitCode = 0
	exitCodeError       ExitCode = 1
	exitCodeConfigError ExitCode = 2
	exitCodeDrift       ExitCode = 3
)

const defaultConfigPath = "schemawatch.yaml"

var errDriftDetected = errors.New("schema drift detected")

func Run() ExitCode {
	return run(os.Args[1:])
}

func run(args []string) ExitCode {
	if args == nil {
		args = []string{}
	}
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return exitCodeSuccess
	}

	switch {
	case errors.Is(err, errDriftDetected):
		fmt.Fprintln(os.Stderr, "schemawatch:", err)
		return exitCodeDrift
	case errors.Is(err, config.ErrInvalidConfig):
		fmt.Fprintln(os.Stderr, "schemawatch error:", err)
		return exitCodeConfigError
	default:
		fmt.Fprintln(os.Stderr, "schemawatch error:", err)
		return exitCodeError
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "schemawatch",
		Short:         "Capture MySQL schema snapshots and detect drift against a baseline.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "Path to config.yaml")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		NewCaptureCmd().Command(),
		NewCompareCmd().Command(),
	)
	return rootCmd
}

// loadConfig reads .env, the config file and the flags shared by every
// subcommand.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	log := newLogger(verbose)

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	if cmd.Flags().Changed("schema") {
		cfg.Source.Schema, _ = cmd.Flags().GetString("schema")
	}
	if cmd.Flags().Changed("snapshot") {
		cfg.Snapshot.Path, _ = cmd.Flags().GetString("snapshot")
	}
	log.Debug("loaded config", "path", path, "schema", cfg.Source.Schema, "snapshot", cfg.Snapshot.Path)
	return cfg, log, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
