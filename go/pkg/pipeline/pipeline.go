package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/bars"
	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/shared"
	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/ticks"
)

const previewTicks = 5

// Result describes a finished run.
type Result struct {
	Plan    Plan
	Load    ticks.LoadStats
	Clean   ticks.CleanStats
	Bars    []shared.Bar
	Output  string
	Elapsed time.Duration
}

// Run executes load -> clean -> aggregate -> write. Configuration errors stop
// the run before anything is read; row and file problems only produce
// warnings. The output file is replaced only after the bars are complete.
func Run(ctx context.Context, cfg Config, log shared.Logger, m *shared.Metrics) (Result, error) {
	plan, err := cfg.Resolve()
	if err != nil {
		return Result{}, err
	}
	return RunPlan(ctx, cfg, plan, nil, log, m)
}

// RunPlan runs an already resolved plan. A nil lister globs the source dir.
func RunPlan(ctx context.Context, cfg Config, plan Plan, lister ticks.FileLister, log shared.Logger, m *shared.Metrics) (Result, error) {
	if log == nil {
		log = shared.NopLogger()
	}
	began := time.Now()
	res := Result{Plan: plan, Output: cfg.Output}

	log.Printf("resampling dir=%s pattern=%s interval=%s start=%s end=%s windows=%d",
		cfg.SourceDir, cfg.FilePattern, plan.Interval.Expr,
		bars.FormatTimestamp(plan.Start), bars.FormatTimestamp(plan.End),
		plan.Interval.Buckets(plan.Start, plan.End))

	loader := ticks.NewLoader(ticks.LoaderConfig{Pattern: cfg.FilePattern, MaxFiles: cfg.MaxFiles}, lister, log, m)
	loaded, loadStats, err := loader.Load(ctx, cfg.SourceDir)
	res.Load = loadStats
	if err != nil {
		return res, errors.Wrap(err, "load ticks")
	}
	for _, tk := range loaded[:min(previewTicks, len(loaded))] {
		log.Debugf("tick %s price=%v volume=%d", bars.FormatTimestamp(tk.Timestamp), tk.Price, tk.Volume)
	}

	cleaned, cleanStats := ticks.Clean(loaded)
	res.Clean = cleanStats
	for _, rule := range ticks.Rules {
		m.TicksDropped(string(rule), cleanStats.Rejected[rule])
	}

	out, err := bars.Aggregate(cleaned, plan.Interval.Duration(), plan.Start, plan.End)
	if err != nil {
		return res, errors.Wrap(err, "aggregate")
	}
	res.Bars = out

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := bars.WriteFile(cfg.Output, out); err != nil {
		return res, errors.Wrapf(err, "write %s", cfg.Output)
	}
	m.BarsOut(len(out))

	res.Elapsed = time.Since(began)
	m.RunDone(res.Elapsed, time.Now())
	log.Printf("resample done files=%d failed=%d skipped=%d ticks=%d retained=%d bars=%d out=%s took=%s",
		loadStats.FilesProcessed, loadStats.FilesFailed, loadStats.FilesSkipped,
		loadStats.RowsLoaded, cleanStats.Retained, len(out), cfg.Output, res.Elapsed)
	return res, nil
}
