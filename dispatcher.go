package applogging

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher is the single path every record takes to the sinks. One
// mutex covers formatting, writing and rotation, so lines from different
// goroutines never interleave.
//
// Dispatcher implements zerolog.LevelWriter; any zerolog logger writing
// into it goes through the same path as Dispatch.
type Dispatcher struct {
	mu        sync.Mutex
	sink      *SinkManager
	formatter *Formatter
	system    io.Writer
	exit      func(code int)
	metrics   *Metrics
}

var _ zerolog.LevelWriter = (*Dispatcher)(nil)

// NewDispatcher returns a dispatcher writing to sink, with the system
// destination on stderr.
func NewDispatcher(sink *SinkManager) *Dispatcher {
	return &Dispatcher{
		sink:      sink,
		formatter: NewFormatter(),
		system:    os.Stderr,
		exit:      os.Exit,
	}
}

// SetSystemOutput replaces the writer used for the system destination.
func (d *Dispatcher) SetSystemOutput(w io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.system = w
}

// SetExitFunc replaces the function Terminate calls. It exists so tests
// can observe fatal records without losing the process.
func (d *Dispatcher) SetExitFunc(fn func(code int)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.exit = fn
}

// Dispatch formats msg and writes it to every active destination. A
// Fatal record terminates the process after the write attempt, even when
// no destination is active.
func (d *Dispatcher) Dispatch(level Level, loc Location, msg string) {
	if level >= OffLevel {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if dest := d.sink.Destinations(); !dest.IsNone() {
		d.emit(dest, d.formatter.FormatMessage(level, loc, msg))
	}
	if level == FatalLevel {
		d.terminate()
	}
}

// WriteLevel handles a zerolog JSON record. zerolog's own Fatal exits
// after the write; Terminate gets there first.
func (d *Dispatcher) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l == zerolog.Disabled {
		return len(p), nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if dest := d.sink.Destinations(); !dest.IsNone() {
		if line, err := d.formatter.Format(p); err == nil {
			d.emit(dest, line)
		}
	}
	if l == zerolog.FatalLevel {
		d.terminate()
	}
	return len(p), nil
}

// Write handles a zerolog record without a level.
func (d *Dispatcher) Write(p []byte) (int, error) {
	return d.WriteLevel(zerolog.NoLevel, p)
}

// emit writes a formatted line. Sink failures are counted and dropped.
// The caller must hold the mutex.
func (d *Dispatcher) emit(dest Destination, line []byte) {
	if dest.HasSystem() {
		if _, err := d.system.Write(line); err != nil {
			d.metrics.lineDropped(DestSystem)
		} else {
			d.metrics.lineWritten(DestSystem)
		}
	}
	if dest.HasFile() {
		d.sink.writeFile(line)
	}
}

// Terminate ends the process the way a fatal record does.
func (d *Dispatcher) Terminate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.terminate()
}

func (d *Dispatcher) terminate() {
	d.metrics.fatal()
	d.exit(fatalExitCode)
}
