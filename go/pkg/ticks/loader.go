package ticks

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/shared"
)

const (
	DefaultPattern  = "CTG_*.csv"
	DefaultMaxFiles = 1000
)

// RejectReason names the validation step a source row failed.
type RejectReason string

const (
	ReasonColumnCount RejectReason = "column_count"
	ReasonTimestamp   RejectReason = "timestamp"
	ReasonNumeric     RejectReason = "numeric"
)

var errEmptyFile = errors.New("no header row")

// FileLister enumerates candidate tick files in the order they are loaded.
type FileLister interface {
	List(dir, pattern string) ([]string, error)
}

// GlobLister matches pattern inside dir; results are in lexical order.
type GlobLister struct{}

func (GlobLister) List(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "glob %q", pattern)
	}
	return matches, nil
}

// LoaderConfig bounds one load pass.
type LoaderConfig struct {
	Pattern  string
	MaxFiles int
}

// LoadStats summarises a load pass.
type LoadStats struct {
	FilesProcessed int
	FilesFailed    int
	FilesSkipped   int
	RowsLoaded     int
	RowsRejected   map[RejectReason]int
}

// Loader reads tick CSV files into one time-ordered sequence.
type Loader struct {
	cfg     LoaderConfig
	lister  FileLister
	log     shared.Logger
	metrics *shared.Metrics
}

func NewLoader(cfg LoaderConfig, lister FileLister, log shared.Logger, m *shared.Metrics) *Loader {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = DefaultMaxFiles
	}
	if lister == nil {
		lister = GlobLister{}
	}
	if log == nil {
		log = shared.NopLogger()
	}
	return &Loader{cfg: cfg, lister: lister, log: log, metrics: m}
}

// Load reads at most MaxFiles matching files from dir. Row and file problems
// are reported and skipped; only listing failures and cancellation are
// returned. A file that fails part-way keeps the ticks read before the
// failure and does not count against MaxFiles.
func (l *Loader) Load(ctx context.Context, dir string) ([]shared.Tick, LoadStats, error) {
	stats := LoadStats{RowsRejected: make(map[RejectReason]int)}
	paths, err := l.lister.List(dir, l.cfg.Pattern)
	if err != nil {
		return nil, stats, err
	}

	var out []shared.Tick
	for i, path := range paths {
		if stats.FilesProcessed == l.cfg.MaxFiles {
			stats.FilesSkipped = len(paths) - i
			l.metrics.FilesSkipped(stats.FilesSkipped)
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		start := time.Now()
		before := len(out)
		err := l.loadFile(path, &stats, func(tk shared.Tick) { out = append(out, tk) })
		stats.RowsLoaded += len(out) - before
		if err != nil {
			stats.FilesFailed++
			l.metrics.FileDone("failed", time.Since(start))
			l.log.Warnw("file aborted", "file", path, "error", err.Error())
			continue
		}
		stats.FilesProcessed++
		l.metrics.FileDone("processed", time.Since(start))
	}
	l.metrics.TicksIn(len(out))

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, stats, nil
}

func (l *Loader) loadFile(path string, stats *LoadStats, emit func(shared.Tick)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer f.Close()

	// Strips a UTF-8 BOM, transcodes UTF-16 with BOM, rejects invalid UTF-8.
	dec := transform.NewReader(f, unicode.BOMOverride(encoding.UTF8Validator))
	r := csv.NewReader(dec)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return errEmptyFile
		}
		return errors.Wrap(err, "read header")
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "read row")
		}
		tk, reason, ok := parseRecord(rec)
		if !ok {
			// Physical line, so blank lines the reader skips still count.
			row, _ := r.FieldPos(0)
			stats.RowsRejected[reason]++
			l.metrics.RowRejected(string(reason))
			l.log.Warnw("row rejected", "file", path, "row", row, "reason", string(reason))
			continue
		}
		emit(tk)
	}
}

func parseRecord(rec []string) (shared.Tick, RejectReason, bool) {
	if len(rec) != 3 {
		return shared.Tick{}, ReasonColumnCount, false
	}
	ts, err := ParseTimestamp(rec[0])
	if err != nil {
		return shared.Tick{}, ReasonTimestamp, false
	}
	_, price, err := parseNumber(rec[1])
	if err != nil {
		return shared.Tick{}, ReasonNumeric, false
	}
	volDec, _, err := parseNumber(rec[2])
	if err != nil {
		return shared.Tick{}, ReasonNumeric, false
	}
	vol, err := truncateVolume(volDec)
	if err != nil {
		return shared.Tick{}, ReasonNumeric, false
	}
	return shared.Tick{Timestamp: ts, Price: price, Volume: vol}, "", true
}
