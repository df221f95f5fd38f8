package trilog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swapStd isolates tests that touch the process-wide default logger.
func swapStd(t *testing.T) {
	t.Helper()
	old := std
	t.Cleanup(func() { std = old })
}

func TestInitializeLogger(t *testing.T) {
	swapStd(t)

	dir := t.TempDir()
	infoPath := filepath.Join(dir, "info.log")
	warnPath := filepath.Join(dir, "warn.log")
	errorPath := filepath.Join(dir, "error.log")

	var buf bytes.Buffer
	InitializeLogger(infoPath, warnPath, errorPath,
		WithMaxBytes(1024),
		WithFallback(&buf),
	)
	require.False(t, Default().Degraded())

	Infof("global info %d", 1)
	Warningf("global warning")
	Errorf("global error")

	r := Log(WARNING)
	assert.False(t, r.UsedFallback())
	r.Print("record on default logger")
	r.Close()

	require.NoError(t, Flush())

	assert.Contains(t, readFile(t, infoPath), "global info 1")
	warn := readFile(t, warnPath)
	assert.Contains(t, warn, "global warning")
	assert.Contains(t, warn, "record on default logger")
	assert.Contains(t, readFile(t, errorPath), "global error")
	assert.Empty(t, buf.String(), "nothing should reach the fallback when all files opened")
}

func TestInitializeLoggerBadPathDegrades(t *testing.T) {
	swapStd(t)

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	var buf bytes.Buffer
	var handled error
	InitializeLogger(
		filepath.Join(blocker, "info.log"),
		filepath.Join(dir, "warn.log"),
		filepath.Join(dir, "error.log"),
		WithFallback(&buf),
		WithErrorHandler(func(err error) { handled = err }),
	)

	assert.True(t, Default().Degraded())
	assert.Error(t, handled)

	Infof("degraded global info")
	assert.Contains(t, buf.String(), "degraded global info")
}

func TestDefaultUninitialized(t *testing.T) {
	swapStd(t)

	var buf bytes.Buffer
	std = mustNew(Config{Fallback: &buf})

	Infof("fallback info")
	r := Log(ERROR)
	assert.True(t, r.UsedFallback())
	r.Print("fallback error")
	r.Close()

	out := buf.String()
	assert.Contains(t, out, "INFO | ")
	assert.Contains(t, out, "fallback info")
	assert.Contains(t, out, "ERROR | ")
	assert.Contains(t, out, "fallback error")
}
