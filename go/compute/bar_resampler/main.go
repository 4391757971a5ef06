package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/pipeline"
	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/shared"
)

// Config for the resampler job. Pipeline fields read RESAMPLE_*; log and
// metrics settings also fall back to their bare names (LOG_LEVEL, ...).
type Config struct {
	pipeline.Config
	Log     shared.LogConfig
	Metrics shared.MetricsConfig
	Summary bool `envconfig:"SUMMARY" default:"false"`
}

func main() {
	cfg, err := shared.Load[Config]("RESAMPLE")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := shared.NewLogger("resampler", cfg.Log)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}

	ctx, stopSig := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	code := runCLI(ctx, &cfg, logger.With("run_id", uuid.NewString()), os.Args[1:])
	stopSig()
	_ = logger.Sync()
	os.Exit(code)
}

// runCLI executes the root command and maps its outcome to an exit status.
func runCLI(ctx context.Context, cfg *Config, logger shared.Logger, args []string) int {
	cmd := newRootCmd(cfg, logger)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.Errorw("resample failed", "error", err.Error())
		return 1
	}
	return 0
}

func newRootCmd(cfg *Config, logger shared.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bar_resampler",
		Short:         "Resample tick CSV files into fixed-interval OHLCV bars.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), *cfg, logger, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.SourceDir, "dir", cfg.SourceDir, "directory holding tick CSV files")
	f.StringVar(&cfg.FilePattern, "pattern", cfg.FilePattern, "file name glob inside --dir")
	f.IntVar(&cfg.MaxFiles, "max-files", cfg.MaxFiles, "maximum files loaded per run")
	f.StringVar(&cfg.Interval, "interval", cfg.Interval, "bar width, e.g. 15m or 1h30m")
	f.StringVar(&cfg.Start, "start", cfg.Start, "first window start (inclusive)")
	f.StringVar(&cfg.End, "end", cfg.End, "range end (exclusive)")
	f.StringVar(&cfg.Output, "out", cfg.Output, "output CSV path")
	f.BoolVar(&cfg.Summary, "summary", cfg.Summary, "print a run report to stdout")
	return cmd
}

func run(ctx context.Context, cfg Config, logger shared.Logger, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m := shared.NewMetrics(prometheus.NewRegistry())

	res, err := pipeline.Run(ctx, cfg.Config, logger, m)
	if err != nil {
		return err
	}
	if err := m.Push(ctx, cfg.Metrics); err != nil {
		logger.Warnw("metrics push failed", "error", err.Error())
	}
	if cfg.Summary {
		writeSummary(stdout, res)
	}
	return nil
}
