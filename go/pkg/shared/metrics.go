package shared

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics bundles the collectors of one resample run. All recording methods
// are no-ops on a nil *Metrics.
type Metrics struct {
	reg *prometheus.Registry

	Files         *prometheus.CounterVec // outcome: processed|failed|skipped
	FileSeconds   prometheus.Histogram
	RowsRejected  *prometheus.CounterVec // reason
	TicksLoaded   prometheus.Counter
	TicksRejected *prometheus.CounterVec // rule
	BarsWritten   prometheus.Counter
	RunSeconds    prometheus.Gauge
	LastSuccess   prometheus.Gauge
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	return &Metrics{
		reg:           reg,
		Files:         NewCounterVec(reg, prometheus.CounterOpts{Name: "resample_files_total", Help: "Tick files by outcome"}, []string{"outcome"}),
		FileSeconds:   NewHist(reg, prometheus.HistogramOpts{Name: "resample_file_load_seconds", Help: "Per-file load duration", Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}}),
		RowsRejected:  NewCounterVec(reg, prometheus.CounterOpts{Name: "resample_rows_rejected_total", Help: "Rows dropped by validation"}, []string{"reason"}),
		TicksLoaded:   NewCounter(reg, prometheus.CounterOpts{Name: "resample_ticks_loaded_total", Help: "Valid ticks loaded"}),
		TicksRejected: NewCounterVec(reg, prometheus.CounterOpts{Name: "resample_ticks_rejected_total", Help: "Ticks dropped by cleaning"}, []string{"rule"}),
		BarsWritten:   NewCounter(reg, prometheus.CounterOpts{Name: "resample_bars_written_total", Help: "Bars written"}),
		RunSeconds:    NewGauge(reg, prometheus.GaugeOpts{Name: "resample_run_seconds", Help: "Duration of the last run"}),
		LastSuccess:   NewGauge(reg, prometheus.GaugeOpts{Name: "resample_last_success_unixtime", Help: "Completion time of the last successful run"}),
	}
}

func (m *Metrics) FileDone(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.Files.WithLabelValues(outcome).Inc()
	if took > 0 {
		m.FileSeconds.Observe(took.Seconds())
	}
}

func (m *Metrics) FilesSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Files.WithLabelValues("skipped").Add(float64(n))
}

func (m *Metrics) RowRejected(reason string) {
	if m == nil {
		return
	}
	m.RowsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) TicksIn(n int) {
	if m == nil {
		return
	}
	m.TicksLoaded.Add(float64(n))
}

func (m *Metrics) TicksDropped(rule string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.TicksRejected.WithLabelValues(rule).Add(float64(n))
}

func (m *Metrics) BarsOut(n int) {
	if m == nil {
		return
	}
	m.BarsWritten.Add(float64(n))
}

func (m *Metrics) RunDone(took time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.RunSeconds.Set(took.Seconds())
	m.LastSuccess.Set(float64(at.Unix()))
}

// Push sends the registry to a Pushgateway, replacing the job's group.
func (m *Metrics) Push(ctx context.Context, cfg MetricsConfig) error {
	if m == nil || !cfg.Enabled() {
		return nil
	}
	err := push.New(cfg.PushURL, cfg.Job).Gatherer(m.reg).PushContext(ctx)
	return errors.Wrapf(err, "push metrics to %s", cfg.PushURL)
}

// Convenience helpers to avoid repeating registration.
func NewCounter(reg prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	reg.MustRegister(c)
	return c
}

func NewCounterVec(reg prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	reg.MustRegister(c)
	return c
}

func NewGauge(reg prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	g := prometheus.NewGauge(opts)
	reg.MustRegister(g)
	return g
}

func NewHist(reg prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	reg.MustRegister(h)
	return h
}
