package applogging

import "github.com/rs/zerolog"

// LogEvent is a record under construction. Nothing is written until Msg,
// Msgf or Send is called. Events for filtered-out levels are no-ops,
// except Fatal, which still terminates.
type LogEvent interface {
	Msg(msg string)
	Msgf(format string, v ...interface{})
	Send()
}

// categoryEvent is the LogEvent handed out by a Category. A nil event
// writes nothing; a non-nil terminate then runs in its place.
type categoryEvent struct {
	event     *zerolog.Event
	terminate func()
}

var noopEvent LogEvent = &categoryEvent{}

func (e *categoryEvent) Msg(msg string) {
	if e.event == nil {
		e.finish()
		return
	}
	e.event.Msg(msg)
}

func (e *categoryEvent) Msgf(format string, v ...interface{}) {
	if e.event == nil {
		e.finish()
		return
	}
	e.event.Msgf(format, v...)
}

func (e *categoryEvent) Send() {
	if e.event == nil {
		e.finish()
		return
	}
	e.event.Send()
}

func (e *categoryEvent) finish() {
	if e.terminate != nil {
		e.terminate()
	}
}
