package bars

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adityaanandan/sw-challenge-fall-2024/go/pkg/shared"
)

const wantHeader = "Timestamp,Open,High,Low,Close,Volume\n"

func TestWrite(t *testing.T) {
	bars := []shared.Bar{
		{Start: day, O: 10, H: 10.2, L: 10, C: 10.2, Vol: 8, NTrades: 2},
		{Start: day.Add(15 * time.Minute), O: 10.25, H: 11, L: 9.125, C: 9.5, Vol: 0, NTrades: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, bars))
	assert.Equal(t, wantHeader+
		"2024-09-17 00:00:00,10.0,10.2,10.0,10.2,8\n"+
		"2024-09-17 00:15:00,10.25,11.0,9.125,9.5,0\n", buf.String())
}

func TestWrite_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, wantHeader, buf.String())
}

func TestWrite_RefusesInconsistentBar(t *testing.T) {
	bars := []shared.Bar{
		{Start: day, O: 10, H: 10.2, L: 10, C: 10.2, Vol: 8, NTrades: 2},
		{Start: day.Add(15 * time.Minute), O: 12, H: 11, L: 10, C: 10.5, Vol: 1, NTrades: 2},
	}

	var buf bytes.Buffer
	err := Write(&buf, bars)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-09-17 00:15:00")
	assert.Empty(t, buf.String())

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))
	require.Error(t, WriteFile(path, bars))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(got))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "2024-09-17 00:15:00", FormatTimestamp(day.Add(15*time.Minute)))
	assert.Equal(t, "2024-09-17 00:00:01.000250", FormatTimestamp(day.Add(time.Second+250*time.Microsecond)))
	assert.Equal(t, "2024-09-17 00:00:01", FormatTimestamp(day.Add(time.Second+250*time.Nanosecond)))
}

func TestFormatPrice(t *testing.T) {
	testCases := map[float64]string{
		10:       "10.0",
		10.2:     "10.2",
		0.1:      "0.1",
		123456.5: "123456.5",
		1e15:     "1000000000000000.0",
		1e16:     "1e+16",
		2.5e21:   "2.5e+21",
		0.0001:   "0.0001",
		1e-5:     "1e-05",
		1.5e-7:   "1.5e-07",
	}
	for in, want := range testCases {
		assert.Equal(t, want, FormatPrice(in))
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CTG_OHLCV_15m.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale contents that are longer than the new file\n"), 0o600))

	bars := []shared.Bar{{Start: day, O: 10, H: 10.2, L: 10, C: 10.2, Vol: 8, NTrades: 2}}
	require.NoError(t, WriteFile(path, bars))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, wantHeader+"2024-09-17 00:00:00,10.0,10.2,10.0,10.2,8\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "out.csv")
	assert.Error(t, WriteFile(path, nil))
}
