package shared

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"` // json|console
}

// MetricsConfig controls the Pushgateway target. An empty URL disables pushing.
type MetricsConfig struct {
	PushURL string `envconfig:"PUSHGATEWAY_URL"`
	Job     string `envconfig:"METRICS_JOB" default:"bar_resampler"`
}

func (m MetricsConfig) Enabled() bool {
	return strings.TrimSpace(m.PushURL) != ""
}

// Load fills the given struct from environment. A .env file in the working
// directory is applied first when present; variables already set win.
func Load[T any](prefix string) (T, error) {
	_ = godotenv.Load()
	var cfg T
	err := envconfig.Process(prefix, &cfg)
	return cfg, err
}
