package shared

import "time"

// Tick is one validated trade observation from a source file.
type Tick struct {
	Timestamp time.Time
	Price     float64
	Volume    int64
}

// Bar is one OHLCV window. Start is the bucket start; NTrades counts the
// ticks folded into it.
type Bar struct {
	Start      time.Time
	O, H, L, C float64
	Vol        int64
	NTrades    int64
}

// Update folds one tick into the bar. Ticks must arrive in time order.
func (b *Bar) Update(px float64, vol int64) {
	if b.NTrades == 0 {
		b.O, b.H, b.L, b.C = px, px, px, px
		b.Vol = vol
		b.NTrades = 1
		return
	}
	if px > b.H {
		b.H = px
	}
	if px < b.L {
		b.L = px
	}
	b.C = px
	b.Vol += vol
	b.NTrades++
}

func (b Bar) WindowEnd(width time.Duration) time.Time {
	return b.Start.Add(width)
}

// Consistent reports whether open and close sit inside [low, high].
func (b Bar) Consistent() bool {
	return b.L <= b.H &&
		b.L <= b.O && b.O <= b.H &&
		b.L <= b.C && b.C <= b.H
}
