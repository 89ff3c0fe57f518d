package applogging

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testClock = time.Date(2024, time.May, 1, 9, 12, 44, 31*int(time.Millisecond), time.Local)

func fixedNow() time.Time { return testClock }

// exitRecorder stands in for os.Exit.
type exitRecorder struct {
	calls int
	code  int
}

func (r *exitRecorder) exit(code int) {
	r.calls++
	r.code = code
}

// newTestFacade builds a facade with a fixed clock, the system
// destination captured in a buffer, files under a temp dir and exit
// recorded instead of performed.
func newTestFacade(t testing.TB) (*Facade, *bytes.Buffer, *exitRecorder) {
	t.Helper()
	f := New()
	var out bytes.Buffer
	rec := &exitRecorder{code: -1}

	f.dispatcher.SetSystemOutput(&out)
	f.dispatcher.SetExitFunc(rec.exit)
	f.dispatcher.formatter.now = fixedNow
	f.sink.now = fixedNow
	f.sink.appDir = t.TempDir()
	f.sink.appName = "svc"
	f.sink.pid = 42

	t.Cleanup(func() { _ = f.Close() })
	return f, &out, rec
}

func newTestSink(t testing.TB) *SinkManager {
	t.Helper()
	s := NewSinkManager()
	s.metrics = newMetrics()
	s.now = fixedNow
	s.appDir = t.TempDir()
	s.appName = "svc"
	s.pid = 42
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func readFile(t testing.TB, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// logFiles lists the files in dir, sorted by name.
func logFiles(t testing.TB, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(names)
	return names
}
