package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		text string
		want Level
		ok   bool
	}{
		{text: "debug", want: DebugLevel, ok: true},
		{text: "INFO", want: InfoLevel, ok: true},
		{text: " Warn ", want: WarnLevel, ok: true},
		{text: "error", want: ErrorLevel, ok: true},
		{text: "fatal", want: Level("fatal"), ok: false},
		{text: "", want: Level(""), ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParseLevel(tt.text)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNewWritesToLogFile(t *testing.T) {
	requires := require.New(t)
	logFile := filepath.Join(t.TempDir(), "bisync.log")

	logger, err := New(InfoLevel, logFile)
	requires.NoError(err)

	logger.Debug("hidden below info")
	logger.With(String("run", "r1")).Info("copying", Int64("size", 5))
	_ = logger.Sync()

	data, err := os.ReadFile(logFile)
	requires.NoError(err)
	out := string(data)
	requires.NotContains(out, "hidden below info")
	requires.Contains(out, "INFO")
	requires.Contains(out, "copying")
	requires.Contains(out, `"run": "r1"`)
	requires.Equal(1, strings.Count(strings.TrimSpace(out), "\n")+1)
}

func TestNopDiscards(t *testing.T) {
	logger := Nop()
	require.NotPanics(t, func() {
		logger.With(Bool("dry", true)).Error("nothing", Cause(os.ErrNotExist))
	})
}
