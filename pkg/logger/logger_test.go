package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultConfigAddsLogFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := DefaultConfig("debug")

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, []string{"stdout", filepath.Join("logs", "disease-sync.log")}, cfg.OutputPaths)
	assert.DirExists(t, "logs")
}

func TestInitAppliesFirstConfigOnly(t *testing.T) {
	require.NoError(t, Init(Config{Level: "info", Encoding: "console", OutputPaths: []string{"stdout"}}))
	first := Get()
	require.NotNil(t, first)

	// A second Init is a no-op; the logger built first stays in place.
	require.NoError(t, Init(Config{Level: "debug", Encoding: "json"}))
	assert.Same(t, first, Get())
}

func TestWithReturnsScopedChild(t *testing.T) {
	child := With(zap.String("pool", "source"))

	require.NotNil(t, child)
	assert.NotSame(t, Get(), child)
}
