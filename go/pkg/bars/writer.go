package bars

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/shared"
)

const (
	stampLayout      = "2006-01-02 15:04:05"
	stampLayoutMicro = "2006-01-02 15:04:05.000000"
)

type barRow struct {
	Timestamp string `csv:"Timestamp"`
	Open      string `csv:"Open"`
	High      string `csv:"High"`
	Low       string `csv:"Low"`
	Close     string `csv:"Close"`
	Volume    int64  `csv:"Volume"`
}

// FormatTimestamp renders whole seconds, adding microseconds only when set.
func FormatTimestamp(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(stampLayout)
	}
	return t.Format(stampLayoutMicro)
}

// FormatPrice renders the shortest round-tripping decimal. Plain notation
// always carries a fractional part ("10.0", not "10"); exponents below -4 or
// from 16 up switch to scientific form ("1e+16", "1.5e-05").
func FormatPrice(v float64) string {
	sci := strconv.FormatFloat(v, 'e', -1, 64)
	if exp, err := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:]); err == nil && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Write emits the header and one row per bar, in order. A bar whose open or
// close falls outside its range is refused before anything is written.
func Write(w io.Writer, bars []shared.Bar) error {
	rows := make([]barRow, 0, len(bars))
	for _, b := range bars {
		if !b.Consistent() {
			return errors.Errorf("bar %s: open/close outside low/high", FormatTimestamp(b.Start))
		}
		rows = append(rows, barRow{
			Timestamp: FormatTimestamp(b.Start),
			Open:      FormatPrice(b.O),
			High:      FormatPrice(b.H),
			Low:       FormatPrice(b.L),
			Close:     FormatPrice(b.C),
			Volume:    b.Vol,
		})
	}
	return errors.Wrap(gocsv.Marshal(&rows, w), "marshal bars")
}

// WriteFile writes bars to a temp file next to path and renames it into place,
// so path is either untouched or complete.
func WriteFile(path string, bars []shared.Bar) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "create temp output")
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Write(tmp, bars); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "chmod output")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "rename output")
	}
	return nil
}
