package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/pipeline"
	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/shared"
)

func defaultConfig() Config {
	return Config{Config: pipeline.Config{
		SourceDir:   "data",
		FilePattern: "CTG_*.csv",
		MaxFiles:    1000,
		Interval:    "15m",
		Start:       "2024-09-17 00:00:00",
		End:         "2024-09-18 00:00:00",
		Output:      "CTG_OHLCV_15m.csv",
	}}
}

func execute(t *testing.T, cfg *Config, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	cmd := newRootCmd(cfg, shared.NopLogger())
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestRootCmd_FlagsOverrideConfig(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(filepath.Join(src, "CTG_0.csv"), []byte("Timestamp,Price,Size\n"+
		"2024-09-17 00:00:00.000000,10.0,5\n"+
		"2024-09-17 00:10:00.000000,10.2,3\n"), 0o644))

	cfg := defaultConfig()
	stdout, err := execute(t, &cfg,
		"--dir", src, "--out", out, "--interval", "1h", "--end", "2024-09-17 01:00:00", "--summary")
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Timestamp,Open,High,Low,Close,Volume\n2024-09-17 00:00:00,10.0,10.2,10.0,10.2,8\n", string(got))

	assert.Equal(t, "1h", cfg.Interval)
	assert.Contains(t, stdout, "files processed")
	assert.Contains(t, stdout, "bars")
	assert.Contains(t, stdout, out)
}

func TestRootCmd_NoSummaryByDefault(t *testing.T) {
	cfg := defaultConfig()
	stdout, err := execute(t, &cfg, "--dir", t.TempDir(), "--out", filepath.Join(t.TempDir(), "o.csv"))
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRootCmd_ConfigError(t *testing.T) {
	cfg := defaultConfig()
	_, err := execute(t, &cfg, "--dir", t.TempDir(), "--out", filepath.Join(t.TempDir(), "o.csv"), "--interval", "abc")

	var cerr *pipeline.ConfigError
	require.True(t, errors.As(err, &cerr), "%v", err)
	assert.Equal(t, "interval", cerr.Param)
}

func TestRootCmd_UnknownFlag(t *testing.T) {
	cfg := defaultConfig()
	_, err := execute(t, &cfg, "--bogus")
	assert.Error(t, err)
}

func TestRunCLI_ExitStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := shared.FromZap(zap.New(core))
	out := filepath.Join(t.TempDir(), "o.csv")

	cfg := defaultConfig()
	assert.Equal(t, 0, runCLI(context.Background(), &cfg, logger, []string{"--dir", t.TempDir(), "--out", out}))
	assert.Zero(t, logs.FilterMessage("resample failed").Len())

	cfg = defaultConfig()
	assert.Equal(t, 1, runCLI(context.Background(), &cfg, logger, []string{"--dir", t.TempDir(), "--out", out, "--interval", "abc"}))
	failed := logs.FilterMessage("resample failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Contains(t, failed[0].ContextMap()["error"], "interval")
}
