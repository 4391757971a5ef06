package ticks

import (
	"math"
	"time"

	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/shared"
)

// MaxPriceJump is the largest move allowed relative to the last retained price.
const MaxPriceJump = 0.10

// Rule names the cleaning check that rejected a tick.
type Rule string

const (
	RuleNonPositivePrice   Rule = "non_positive_price"
	RuleNegativeVolume     Rule = "negative_volume"
	RuleDuplicateTimestamp Rule = "duplicate_timestamp"
	RulePriceJump          Rule = "price_jump"
)

// Rules lists the checks in evaluation order.
var Rules = []Rule{RuleNonPositivePrice, RuleNegativeVolume, RuleDuplicateTimestamp, RulePriceJump}

// CleanStats counts retained ticks and rejections per rule.
type CleanStats struct {
	Retained int
	Rejected map[Rule]int
}

// cleanState is the fold accumulator: the last tick that was kept.
type cleanState struct {
	retained  bool
	lastPrice float64
	lastTS    time.Time
}

// check returns the first rule tk breaks against the last retained tick.
func (s cleanState) check(tk shared.Tick) (Rule, bool) {
	switch {
	case tk.Price <= 0:
		return RuleNonPositivePrice, true
	case tk.Volume < 0:
		return RuleNegativeVolume, true
	case s.retained && tk.Timestamp.Equal(s.lastTS):
		return RuleDuplicateTimestamp, true
	case s.retained && math.Abs(tk.Price-s.lastPrice)/s.lastPrice > MaxPriceJump:
		return RulePriceJump, true
	}
	return "", false
}

func (s cleanState) retain(tk shared.Tick) cleanState {
	return cleanState{retained: true, lastPrice: tk.Price, lastTS: tk.Timestamp}
}

// Clean filters time-ordered ticks in one pass. Rejected ticks never move the
// comparison baseline; only retained ticks do.
func Clean(in []shared.Tick) ([]shared.Tick, CleanStats) {
	out := make([]shared.Tick, 0, len(in))
	stats := CleanStats{Rejected: make(map[Rule]int, len(Rules))}
	var st cleanState
	for _, tk := range in {
		if rule, bad := st.check(tk); bad {
			stats.Rejected[rule]++
			continue
		}
		st = st.retain(tk)
		out = append(out, tk)
	}
	stats.Retained = len(out)
	return out, stats
}
