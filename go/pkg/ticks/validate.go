package ticks

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the source timestamp format. Parsing accepts one to six
// fractional digits.
const TimestampLayout = "2006-01-02 15:04:05.999999"

const (
	wholeSecondsLen = len("2006-01-02 15:04:05")
	maxFracDigits   = 6
)

// ParseTimestamp parses a source timestamp as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if len(s) <= wholeSecondsLen || s[wholeSecondsLen] != '.' {
		return time.Time{}, errors.Errorf("timestamp %q: want YYYY-MM-DD HH:MM:SS.ffffff", s)
	}
	frac := s[wholeSecondsLen+1:]
	if len(frac) == 0 || len(frac) > maxFracDigits || strings.TrimLeft(frac, "0123456789") != "" {
		return time.Time{}, errors.Errorf("timestamp %q: want 1-%d fractional digits", s, maxFracDigits)
	}
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "timestamp %q", s)
	}
	return t, nil
}

func IsValidTimestamp(s string) bool {
	_, err := ParseTimestamp(s)
	return err == nil
}

// parseNumber accepts a finite decimal literal with optional sign, fraction
// and exponent. The decimal form is kept so volumes truncate exactly.
func parseNumber(s string) (decimal.Decimal, float64, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, 0, errors.Wrap(err, "number")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return decimal.Decimal{}, 0, errors.Wrapf(err, "number %q", s)
	}
	return d, f, nil
}

func IsValidNumber(s string) bool {
	_, _, err := parseNumber(s)
	return err == nil
}

// truncateVolume drops the fractional part toward zero.
func truncateVolume(d decimal.Decimal) (int64, error) {
	whole := d.Truncate(0).BigInt()
	if !whole.IsInt64() {
		return 0, errors.Errorf("volume %s out of range", d.String())
	}
	return whole.Int64(), nil
}
