package utilities

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, levelFromString("debug"))
	require.Equal(t, zapcore.WarnLevel, levelFromString("warning"))
	require.Equal(t, zapcore.ErrorLevel, levelFromString("error"))
	require.Equal(t, zapcore.InfoLevel, levelFromString("nonsense"))
}

func TestInitWritesRotatedFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "tracker.log")

	lg, err := Init(Config{Level: "info", File: base})
	require.NoError(t, err)

	lg.Sugar().Infow("user created", "id", "42")
	lg.Debug("dropped below level")
	_ = lg.Sync()

	matches, err := filepath.Glob(base + ".*")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"user created"`)
	require.False(t, strings.Contains(string(data), "dropped below level"))
}
