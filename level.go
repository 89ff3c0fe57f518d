package applogging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Level is the severity of a log record. Levels are totally ordered and
// only ever compared against a threshold.
type Level int8

const (
	TraceLevel Level = iota
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
	// OffLevel disables every category when used as a filter threshold.
	OffLevel
)

var (
	// ErrUnknownLevel indicates an unrecognized level string.
	ErrUnknownLevel = errors.New("unknown log level")
)

var levelNames = [...]string{
	TraceLevel: "trace",
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
	FatalLevel: "fatal",
	OffLevel:   "off",
}

// backendLevels lists the level names understood by the rule matcher, in
// ascending order.
var backendLevels = [...]string{"debug", "info", "warning", "critical", "fatal"}

func (l Level) String() string {
	if l < TraceLevel || l > OffLevel {
		return fmt.Sprintf("Level(%d)", l)
	}
	return levelNames[l]
}

// BackendName returns the name the filter-rule document uses for l.
// Trace shares the "debug" slot. OffLevel has no backend name.
func (l Level) BackendName() string {
	switch l {
	case TraceLevel, DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warning"
	case ErrorLevel:
		return "critical"
	case FatalLevel:
		return "fatal"
	default:
		return emptyString
	}
}

// Letter returns the single-character tag printed in formatted lines.
func (l Level) Letter() string {
	switch l {
	case TraceLevel, DebugLevel:
		return "D"
	case InfoLevel:
		return "I"
	case WarnLevel:
		return "W"
	case ErrorLevel:
		return "C"
	case FatalLevel:
		return "F"
	default:
		return emptyString
	}
}

// ParseLevel parses a level name. The backend aliases "warning" and
// "critical" are accepted as well.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error", "critical":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	case "off":
		return OffLevel, nil
	}
	return OffLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case TraceLevel:
		return zerolog.TraceLevel
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.Disabled
	}
}

// levelFromZerolog maps zerolog levels onto ours. Records without a level
// (zerolog's Log() and Logger.Write) are treated as Info.
func levelFromZerolog(l zerolog.Level) Level {
	switch l {
	case zerolog.TraceLevel:
		return TraceLevel
	case zerolog.DebugLevel:
		return DebugLevel
	case zerolog.WarnLevel:
		return WarnLevel
	case zerolog.ErrorLevel:
		return ErrorLevel
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return FatalLevel
	default:
		return InfoLevel
	}
}
