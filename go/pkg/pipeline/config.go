package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/interval"
)

// Config is the external parameter surface of a resample run.
type Config struct {
	SourceDir   string `envconfig:"SOURCE_DIR" default:"data"`
	FilePattern string `envconfig:"FILE_PATTERN" default:"CTG_*.csv"`
	MaxFiles    int    `envconfig:"MAX_FILES" default:"1000"`
	Interval    string `envconfig:"INTERVAL" default:"15m"`
	Start       string `envconfig:"START" default:"2024-09-17 00:00:00"` // inclusive
	End         string `envconfig:"END" default:"2024-09-18 00:00:00"`   // exclusive
	Output      string `envconfig:"OUTPUT" default:"CTG_OHLCV_15m.csv"`
}

// ConfigError reports a parameter that makes the run impossible. It is
// raised before any file is read or written.
type ConfigError struct {
	Param string
	Err   error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("invalid %s: %v", e.Param, e.Err) }

func (e *ConfigError) Unwrap() error { return e.Err }

// Plan is a Config with every parameter parsed and checked.
type Plan struct {
	Interval interval.Interval
	Start    time.Time
	End      time.Time
}

var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05", // fractional seconds are accepted on parse
	"2006-01-02",
}

// ParseInstant reads a range bound as UTC unless it carries an offset.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognised instant %q", s)
}

// Resolve validates c. Every failure is a *ConfigError.
func (c Config) Resolve() (Plan, error) {
	if strings.TrimSpace(c.SourceDir) == "" {
		return Plan{}, &ConfigError{Param: "source dir", Err: errors.New("empty")}
	}
	if strings.TrimSpace(c.Output) == "" {
		return Plan{}, &ConfigError{Param: "output", Err: errors.New("empty")}
	}
	if c.MaxFiles < 1 {
		return Plan{}, &ConfigError{Param: "max files", Err: errors.Errorf("%d < 1", c.MaxFiles)}
	}
	if _, err := filepath.Match(c.FilePattern, ""); err != nil {
		return Plan{}, &ConfigError{Param: "file pattern", Err: errors.Wrapf(err, "%q", c.FilePattern)}
	}

	iv := interval.Parse(c.Interval)
	if err := iv.Validate(); err != nil {
		return Plan{}, &ConfigError{Param: "interval", Err: err}
	}
	start, err := ParseInstant(c.Start)
	if err != nil {
		return Plan{}, &ConfigError{Param: "start", Err: err}
	}
	end, err := ParseInstant(c.End)
	if err != nil {
		return Plan{}, &ConfigError{Param: "end", Err: err}
	}
	return Plan{Interval: iv, Start: start, End: end}, nil
}
