package applogging

import "github.com/rs/zerolog"

// eventSkipFrames covers the categoryEvent wrapper between the call
// site and zerolog.
const eventSkipFrames = 1

// Category is a handle to a registered category. Handles are created by
// RegisterCategory and live as long as their Facade.
type Category struct {
	id     CategoryID
	name   string
	facade *Facade
	logger zerolog.Logger
}

var _ Logger = (*Category)(nil)

// RegisterCategory registers name with the process-wide facade. It is
// meant for package-level variables:
//
//	var netLog = applogging.RegisterCategory("net")
func RegisterCategory(name string) *Category {
	return Instance().RegisterCategory(name)
}

// Core returns the process-wide facade's built-in "core" category, for
// code that has no category of its own.
func Core() *Category {
	return Instance().Core()
}

// CoreTrace returns the trace-only companion of Core. It is opened only
// by a Trace-level filter.
func CoreTrace() *Category {
	return Instance().CoreTrace()
}

func newCategory(f *Facade, id CategoryID, name string) *Category {
	return &Category{
		id:     id,
		name:   name,
		facade: f,
		logger: zerolog.New(f.dispatcher).
			With().
			Str(categoryFieldName, name).
			Caller().
			Logger(),
	}
}

func (c *Category) ID() CategoryID { return c.id }
func (c *Category) Name() string   { return c.name }

// Enabled reports whether a record at level would currently be written.
func (c *Category) Enabled(level Level) bool {
	return c.facade.Enabled(c.name, level)
}

func (c *Category) TraceWith() LogEvent { return c.event(TraceLevel) }
func (c *Category) DebugWith() LogEvent { return c.event(DebugLevel) }
func (c *Category) InfoWith() LogEvent  { return c.event(InfoLevel) }
func (c *Category) WarnWith() LogEvent  { return c.event(WarnLevel) }
func (c *Category) ErrorWith() LogEvent { return c.event(ErrorLevel) }

// FatalWith returns an event that terminates the process after it is
// written. A fatal record terminates even when it is filtered out here or
// dropped by zerolog's global level.
func (c *Category) FatalWith() LogEvent {
	if c == nil {
		return noopEvent
	}
	e := &categoryEvent{terminate: c.facade.dispatcher.Terminate}
	if c.Enabled(FatalLevel) {
		e.event = c.zerologEvent(FatalLevel)
	}
	return e
}

func (c *Category) event(level Level) LogEvent {
	if c == nil || !c.Enabled(level) {
		return noopEvent
	}
	return &categoryEvent{event: c.zerologEvent(level)}
}

// zerologEvent may return nil when zerolog's global level rejects level.
func (c *Category) zerologEvent(level Level) *zerolog.Event {
	// WithLevel never exits on its own for Fatal; the dispatcher does.
	e := c.logger.WithLevel(level.zerologLevel())
	return e.CallerSkipFrame(eventSkipFrames + c.facade.skipFrames())
}
