package interval

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// ErrNonPositiveInterval marks a bucket width that cannot drive aggregation.
var ErrNonPositiveInterval = errors.New("interval must be positive")

var unitSeconds = map[rune]int64{
	'd': 86400,
	'h': 3600,
	'm': 60,
	's': 1,
}

// maxSeconds keeps Duration() inside time.Duration.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// Interval is a resample width parsed from a compact expression such as "1h30m".
type Interval struct {
	Expr    string
	Seconds int64
}

// Parse sums every <digits><unit> segment in expr. Characters that are neither
// digits nor units are skipped without ending the digit run, and a digit run
// with no unit after it is dropped. Nothing recognisable yields zero.
func Parse(expr string) Interval {
	var total, run int64
	pending := false
	for _, c := range expr {
		if c >= '0' && c <= '9' {
			run = satAdd(satMul(run, 10), int64(c-'0'))
			pending = true
			continue
		}
		unit, ok := unitSeconds[c]
		if !ok || !pending {
			continue
		}
		total = satAdd(total, satMul(run, unit))
		run, pending = 0, false
	}
	return Interval{Expr: expr, Seconds: total}
}

func (i Interval) Duration() time.Duration {
	return time.Duration(i.Seconds) * time.Second
}

// Validate rejects widths that would make bucket generation meaningless.
func (i Interval) Validate() error {
	if i.Seconds <= 0 {
		return errors.Wrapf(ErrNonPositiveInterval, "%q resolves to %ds", i.Expr, i.Seconds)
	}
	return nil
}

// Buckets is the number of windows needed to cover [from, to).
func (i Interval) Buckets(from, to time.Time) int64 {
	d := i.Duration()
	if d <= 0 || !from.Before(to) {
		return 0
	}
	span := to.Sub(from)
	n := int64(span / d)
	if span%d != 0 {
		n++
	}
	return n
}

func satAdd(a, b int64) int64 {
	if a > maxSeconds-b {
		return maxSeconds
	}
	return a + b
}

func satMul(a, b int64) int64 {
	if a != 0 && a > maxSeconds/b {
		return maxSeconds
	}
	return a * b
}
