package testutil

import (
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type testWriter struct{ tb testing.TB }

func (w testWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// Logger returns a debug-level logger whose output goes to tb.Log, so it
// only shows for failing tests or with -v.
func Logger(tb testing.TB) *log.Logger {
	return log.NewWithOptions(testWriter{tb}, log.Options{Level: log.DebugLevel, Prefix: tb.Name()})
}
