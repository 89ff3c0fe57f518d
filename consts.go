package applogging

const (
	emptyString = ""

	// DefaultCategory receives records routed in through InstallHandler
	// (the zerolog global logger and the standard library log package).
	DefaultCategory = "default"

	// TraceCategorySuffix marks a category as trace-only: it is never
	// opened by a Debug-level filter, only by a Trace-level one.
	TraceCategorySuffix = "Trace"

	// CoreCategory and CoreTraceCategory are the built-in pair behind
	// Core and CoreTrace. CoreTraceCategory is trace-only.
	CoreCategory      = "core"
	CoreTraceCategory = CoreCategory + TraceCategorySuffix

	// DefaultMaxFileSizeBytes is the rotation threshold used until
	// SetMaxFileSize or Configure says otherwise.
	DefaultMaxFileSizeBytes uint32 = 1024 * 1024 * 256

	// categoryFieldName is the zerolog field carrying the category name.
	categoryFieldName = "category"

	fatalExitCode = 1
)

const (
	errMsgNilConfig     = "Logging config is nil."
	errMsgConfigInvalid = "Logging configuration is invalid."
	errMsgConfigLoad    = "Logging configuration could not be loaded."
	errMsgLogDirCreate  = "Failed to create log directory."
	errMsgLogFileCreate = "Failed to create log file."
	errMsgLogFileClose  = "Failed to close log file."
	errMsgRollerClose   = "Failed to close rolling log file."
)
