package bars

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/interval"
	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/shared"
)

// Aggregate folds time-ordered ticks into windows [start+k*width,
// start+(k+1)*width) for every window start before end. The last window keeps
// all of its ticks even where it runs past end. Empty windows produce no bar.
func Aggregate(ticks []shared.Tick, width time.Duration, start, end time.Time) ([]shared.Bar, error) {
	if width <= 0 {
		return nil, errors.Wrapf(interval.ErrNonPositiveInterval, "bucket width %s", width)
	}
	if !start.Before(end) {
		return nil, nil
	}

	// Single sweep: the cursor only moves forward and jumps straight to the
	// window holding the next tick.
	i := sort.Search(len(ticks), func(k int) bool {
		return !ticks[k].Timestamp.Before(start)
	})
	var out []shared.Bar
	for i < len(ticks) {
		bucket := bucketStart(start, ticks[i].Timestamp, width)
		if !bucket.Before(end) {
			break
		}
		bar := shared.Bar{Start: bucket}
		next := bar.WindowEnd(width)
		for ; i < len(ticks) && ticks[i].Timestamp.Before(next); i++ {
			bar.Update(ticks[i].Price, ticks[i].Volume)
		}
		out = append(out, bar)
	}
	return out, nil
}

// bucketStart aligns ts to the window grid anchored at origin. ts must not be
// before origin.
func bucketStart(origin, ts time.Time, width time.Duration) time.Time {
	offset := ts.Sub(origin)
	return origin.Add(offset - offset%width)
}
