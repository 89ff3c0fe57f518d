package applogging

// Logger is the per-category logging surface. *Category implements it.
type Logger interface {
	TraceWith() LogEvent
	DebugWith() LogEvent
	InfoWith() LogEvent
	WarnWith() LogEvent
	ErrorWith() LogEvent
	// FatalWith terminates the process once the record is written.
	FatalWith() LogEvent
	Enabled(level Level) bool
}
