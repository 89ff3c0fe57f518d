package applogging

import (
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var lineRE = regexp.MustCompile(`^\[20240501 9:12:44\.031 I\] worker\.go:\d+ - worker \d+ message \d+$`)

func TestDispatcher_Destinations(t *testing.T) {
	loc := Location{File: "main.go", Line: 10}

	t.Run("system", func(t *testing.T) {
		f, out, _ := newTestFacade(t)
		require.NoError(t, f.SetOutputDest(DestSystem))

		f.Dispatch(InfoLevel, loc, "hello")

		assert.Equal(t, "[20240501 9:12:44.031 I] main.go:10 - hello\n", out.String())
		assert.Empty(t, f.sink.CurrentFileName())
	})

	t.Run("file", func(t *testing.T) {
		f, out, _ := newTestFacade(t)
		dir := t.TempDir()
		f.SetLogFilePath("disp.txt", dir)
		require.NoError(t, f.SetOutputDest(DestFile))

		f.Dispatch(WarnLevel, loc, "to file")

		assert.Empty(t, out.String())
		assert.Equal(t, "[20240501 9:12:44.031 W] main.go:10 - to file\n", readFile(t, f.sink.CurrentFileName()))
	})

	t.Run("system and file", func(t *testing.T) {
		f, out, _ := newTestFacade(t)
		f.SetLogFileDir(t.TempDir())
		require.NoError(t, f.SetOutputDest(DestSystem|DestFile))

		f.Dispatch(ErrorLevel, loc, "both")

		want := "[20240501 9:12:44.031 C] main.go:10 - both\n"
		assert.Equal(t, want, out.String())
		assert.Equal(t, want, readFile(t, f.sink.CurrentFileName()))
	})

	t.Run("none", func(t *testing.T) {
		f, out, rec := newTestFacade(t)
		require.NoError(t, f.SetOutputDest(DestNone))

		f.Dispatch(ErrorLevel, loc, "nowhere")

		assert.Empty(t, out.String())
		assert.Zero(t, rec.calls)
	})

	t.Run("file failure leaves system output alone", func(t *testing.T) {
		f, out, _ := newTestFacade(t)
		f.SetLogFileDir("/dev/null/logs")
		assert.Error(t, f.SetOutputDest(DestSystem|DestFile))

		f.Dispatch(InfoLevel, loc, "still here")

		assert.Equal(t, "[20240501 9:12:44.031 I] main.go:10 - still here\n", out.String())
		assert.Equal(t, 1.0, testutil.ToFloat64(f.Metrics().DroppedTotal.WithLabelValues("file")))
	})
}

func TestDispatcher_Fatal(t *testing.T) {
	loc := Location{File: "main.go", Line: 99}

	t.Run("terminates after the write", func(t *testing.T) {
		f, out, _ := newTestFacade(t)
		var seen string
		var code int
		f.dispatcher.SetExitFunc(func(c int) {
			seen = out.String()
			code = c
		})

		f.Dispatch(FatalLevel, loc, "cannot continue")

		assert.Equal(t, "[20240501 9:12:44.031 F] main.go:99 - cannot continue\n", seen)
		assert.Equal(t, fatalExitCode, code)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.Metrics().FatalTotal))
	})

	t.Run("terminates with no destination", func(t *testing.T) {
		f, out, rec := newTestFacade(t)
		require.NoError(t, f.SetOutputDest(DestNone))

		f.Dispatch(FatalLevel, loc, "unseen")

		assert.Empty(t, out.String())
		assert.Empty(t, f.sink.CurrentFileName())
		assert.Equal(t, 1, rec.calls)
		assert.Equal(t, fatalExitCode, rec.code)
	})

	t.Run("terminates when the file cannot be written", func(t *testing.T) {
		f, _, rec := newTestFacade(t)
		f.SetLogFileDir("/dev/null/logs")
		_ = f.SetOutputDest(DestFile)

		f.Dispatch(FatalLevel, loc, "lost")

		assert.Equal(t, 1, rec.calls)
	})

	t.Run("lower levels never terminate", func(t *testing.T) {
		f, _, rec := newTestFacade(t)
		for l := TraceLevel; l < FatalLevel; l++ {
			f.Dispatch(l, loc, l.String())
		}
		assert.Zero(t, rec.calls)
	})
}

func TestDispatcher_Concurrent(t *testing.T) {
	const workers = 8
	const perWorker = 250

	f, out, _ := newTestFacade(t)
	f.SetLogFilePath("concurrent.txt", t.TempDir())
	require.NoError(t, f.SetOutputDest(DestSystem|DestFile))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				f.Dispatch(InfoLevel, Location{File: "worker.go", Line: w}, fmt.Sprintf("worker %d message %d", w, i))
			}
		}(w)
	}
	wg.Wait()

	systemLines := nonEmptyLines(out.String())
	fileLines := nonEmptyLines(readFile(t, f.sink.CurrentFileName()))
	require.Len(t, systemLines, workers*perWorker)
	require.Len(t, fileLines, workers*perWorker)
	for _, l := range append(systemLines, fileLines...) {
		require.Regexp(t, lineRE, l)
	}
	assert.Equal(t, float64(workers*perWorker), testutil.ToFloat64(f.Metrics().LinesTotal.WithLabelValues("system")))
	assert.Equal(t, float64(workers*perWorker), testutil.ToFloat64(f.Metrics().LinesTotal.WithLabelValues("file")))
}

func TestDispatcher_ConcurrentRotation(t *testing.T) {
	const workers = 4
	const perWorker = 100

	f, _, _ := newTestFacade(t)
	dir := t.TempDir()
	f.SetLogFilePath("rot.txt", dir)
	f.SetMaxFileSize(512)
	require.NoError(t, f.SetOutputDest(DestFile))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				f.Dispatch(InfoLevel, Location{File: "worker.go", Line: w}, fmt.Sprintf("worker %d message %d", w, i))
			}
		}(w)
	}
	wg.Wait()
	require.NoError(t, f.Close())

	total := 0
	files := logFiles(t, dir)
	require.Greater(t, len(files), 1)
	for _, path := range files {
		content := readFile(t, path)
		assert.LessOrEqual(t, len(content), 512)
		for _, l := range nonEmptyLines(content) {
			require.Regexp(t, lineRE, l)
			total++
		}
	}
	assert.Equal(t, workers*perWorker, total)
}
