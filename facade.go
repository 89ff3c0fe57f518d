package applogging

import (
	stdlog "log"
	"sync"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"go.uber.org/atomic"
)

// instance is the process-wide facade, published once by Instance.
var instance atomic.Pointer[Facade]

// Facade ties the category registry, the compiled filter rules, the sink
// and the dispatcher together. Use Instance for the process-wide one;
// New builds an independent one.
type Facade struct {
	// mu guards the registry and category handles. Rule recompilation
	// holds it too, so toggles and compiles never interleave.
	mu         sync.RWMutex
	registry   *CategoryRegistry
	categories map[string]*Category

	rules      atomic.Pointer[FilterRules]
	skipFrameN atomic.Int64

	sink       *SinkManager
	dispatcher *Dispatcher
	metrics    *Metrics
}

// Instance returns the process-wide facade, creating it on first use.
// Concurrent first calls all get the same instance.
func Instance() *Facade {
	if f := instance.Load(); f != nil {
		return f
	}
	f := New()
	if !instance.CompareAndSwap(nil, f) {
		// Another goroutine won; drop ours.
		f = instance.Load()
	}
	return f
}

// New returns a facade writing to the system destination, with no
// filter rules installed.
func New() *Facade {
	m := newMetrics()

	sink := NewSinkManager()
	sink.metrics = m
	sink.cfg.Destinations = DestSystem

	d := NewDispatcher(sink)
	d.metrics = m

	return &Facade{
		registry:   NewCategoryRegistry(),
		categories: make(map[string]*Category),
		sink:       sink,
		dispatcher: d,
		metrics:    m,
	}
}

// RegisterCategory registers name, or returns the existing handle.
func (f *Facade) RegisterCategory(name string) *Category {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.categories[name]; ok {
		return c
	}
	c := newCategory(f, f.registry.Register(name), name)
	f.categories[name] = c
	return c
}

// Core returns the built-in CoreCategory, registering it on first use.
func (f *Facade) Core() *Category {
	return f.RegisterCategory(CoreCategory)
}

// CoreTrace returns the built-in CoreTraceCategory, registering it on
// first use.
func (f *Facade) CoreTrace() *Category {
	return f.RegisterCategory(CoreTraceCategory)
}

// RegisteredCategories returns category names in registration order.
func (f *Facade) RegisteredCategories() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.registry.Names()
}

// SetCategoryLoggingOn toggles a category. Unknown names are ignored.
// The change takes effect at the next SetFilterRulesByLevel.
func (f *Facade) SetCategoryLoggingOn(name string, enable bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registry.SetEnabled(name, enable)
}

func (f *Facade) CategoryLoggingOn(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.registry.IsEnabled(name)
}

// SetFilterRulesByLevel compiles and installs the rule document for level
// and the currently enabled categories, and returns the document. The
// document is always installed; a line that does not parse is dropped on
// its own.
func (f *Facade) SetFilterRulesByLevel(level Level) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := CompileFilterRules(level, f.registry.EnabledNames())
	f.rules.Store(parseFilterRulesLenient(doc))
	return doc
}

// SetFilterRules installs a hand-written rule document.
func (f *Facade) SetFilterRules(doc string) error {
	rules, err := ParseFilterRules(doc)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules.Store(rules)
	return nil
}

// FilterRules returns the installed rule document, or "" when none is.
func (f *Facade) FilterRules() string {
	return f.rules.Load().String()
}

// Enabled reports whether a record of category at level passes the
// installed rules. Without rules everything below OffLevel passes.
func (f *Facade) Enabled(category string, level Level) bool {
	return f.rules.Load().Allowed(category, level)
}

// SetOutputDest selects the destinations. Switching the file destination
// on creates the log file immediately and reports a failure to do so.
func (f *Facade) SetOutputDest(d Destination) error {
	return f.sink.SetDestinations(d)
}

func (f *Facade) OutputDest() Destination {
	return f.sink.Destinations()
}

// SetLogFilePath sets the file name hint and directory for the next log
// file. An empty dir means <exe-dir>/log/<yyyy_MM>.
func (f *Facade) SetLogFilePath(name, dir string) {
	f.sink.SetFilePath(name, dir)
}

func (f *Facade) SetLogFileName(name string) {
	f.sink.SetFilePath(name, f.sink.Config().FileDir)
}

func (f *Facade) SetLogFileDir(dir string) {
	f.sink.SetFilePath(f.sink.Config().FileNameHint, dir)
}

// LogFileName returns the configured file name hint.
func (f *Facade) LogFileName() string {
	return f.sink.Config().FileNameHint
}

func (f *Facade) SetMaxFileSize(n uint32) {
	f.sink.SetMaxFileSize(n)
}

// LogFile returns the live log file, rotating first if needed.
func (f *Facade) LogFile() FileHandle {
	return f.sink.AcquireFileHandle()
}

// Dispatch hands one record straight to the dispatcher, bypassing the
// filter rules.
func (f *Facade) Dispatch(level Level, loc Location, msg string) {
	f.dispatcher.Dispatch(level, loc, msg)
}

// InstallHandler routes zerolog's global logger and the standard library
// log package through the dispatcher, under DefaultCategory. Call it once
// at startup; installing twice is not supported.
func (f *Facade) InstallHandler() {
	f.RegisterCategory(DefaultCategory)

	filter := zerolog.HookFunc(func(e *zerolog.Event, level zerolog.Level, _ string) {
		if !f.Enabled(DefaultCategory, levelFromZerolog(level)) {
			e.Discard()
		}
	})
	base := zerolog.New(f.dispatcher).Hook(filter).With().Str(categoryFieldName, DefaultCategory)

	zlog.Logger = base.Caller().Logger()

	std := base.Logger()
	stdlog.SetFlags(0)
	stdlog.SetOutput(std)
}

// ApplyConfig validates cfg and applies it: category toggles, filter
// rules for cfg.Level, then the sink settings.
func (f *Facade) ApplyConfig(cfg *Config) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	dest, err := ParseDestination(cfg.Output)
	if err != nil {
		return err
	}

	f.skipFrameN.Store(int64(cfg.SkipFrameCount))

	f.mu.Lock()
	for name, on := range cfg.Categories {
		f.registry.SetEnabled(name, on)
	}
	f.mu.Unlock()
	f.SetFilterRulesByLevel(level)

	return f.sink.Configure(SinkConfig{
		Destinations:     dest,
		FileDir:          cfg.FileDir,
		FileNameHint:     cfg.FileName,
		MaxFileSizeBytes: cfg.MaxFileSizeBytes,
		Rolling:          cfg.Rolling,
	})
}

func (f *Facade) skipFrames() int {
	return int(f.skipFrameN.Load())
}

func (f *Facade) Sink() *SinkManager      { return f.sink }
func (f *Facade) Dispatcher() *Dispatcher { return f.dispatcher }
func (f *Facade) Metrics() *Metrics       { return f.metrics }

// Close closes the log file. The process-wide facade is normally left
// open until exit.
func (f *Facade) Close() error {
	return f.sink.Close()
}
