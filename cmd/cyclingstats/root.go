package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/xopraneet789/cycling-performance-analysis/internal/config"
	apperrors "github.com/xopraneet789/cycling-performance-analysis/internal/errors"
	"github.com/xopraneet789/cycling-performance-analysis/internal/infrastructure"
	"github.com/xopraneet789/cycling-performance-analysis/internal/operations"
)

// options are the command line flags shared by every command
type options struct {
	input      string
	outputDir  string
	configPath string
}

// pipelines selects which pipelines a command runs
type pipelines struct {
	statistics    bool
	visualization bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Descriptive statistics, hypothesis tests and figures for cycling race results",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, pipelines{statistics: true, visualization: true}, stdout)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.input, "input", "", "race results file (default cycling.txt)")
	flags.StringVar(&opts.outputDir, "out", "", "output directory for tables and figures (default .)")
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")

	root.AddCommand(
		&cobra.Command{
			Use:   "tables",
			Short: "Write the eight statistics tables",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), opts, pipelines{statistics: true}, stdout)
			},
		},
		&cobra.Command{
			Use:   "figures",
			Short: "Draw the four figures",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), opts, pipelines{visualization: true}, stdout)
			},
		},
	)

	return root
}

// run loads configuration, sets up logging and telemetry, then executes the
// selected pipelines in order
func run(ctx context.Context, opts *options, which pipelines, stdout io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	cfg, err := config.Load(opts.configPath,
		config.WithInputFile(opts.input),
		config.WithOutputDir(opts.outputDir),
	)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureTraceID(ctx)
	logger = infrastructure.WithComponent(logger, "cli")

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
			err = shutdownErr
		}
	}()

	if sm, smErr := infrastructure.NewSystemMetrics(providers.Meter); smErr == nil {
		defer sm.Collect(ctx, started)
	}

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return err
	}

	deps := operations.NewDependencies(cfg, tracer.Metrics(), logger)
	deps.Paths.LogPathResolution(logger)
	if err := deps.Paths.EnsureDirectories(); err != nil {
		return apperrors.NewOutputError("cannot create output directory", err).
			WithContext("path", deps.Paths.OutputDir)
	}

	logger.InfoContext(ctx, "Starting run",
		slog.String("version", config.AppVersion),
		slog.String("input", deps.Paths.InputFile),
		slog.String("output_dir", deps.Paths.OutputDir),
		slog.Bool("statistics", which.statistics),
		slog.Bool("visualization", which.visualization))

	if which.statistics {
		reg, err := operations.StatisticsRegistry(deps)
		if err != nil {
			return err
		}
		state, err := operations.NewRunner(operations.PipelineStatistics, reg, tracer, logger).Run(ctx)
		if err != nil {
			return err
		}
		if res, ok := operations.Results(state); ok {
			if err := printSummary(stdout, res); err != nil {
				return err
			}
		}
	}

	if which.visualization {
		reg, err := operations.VisualizationRegistry(deps)
		if err != nil {
			return err
		}
		if _, err := operations.NewRunner(operations.PipelineVisualization, reg, tracer, logger).Run(ctx); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "Run completed", slog.Duration("duration", time.Since(started)))
	return nil
}
