package applogging

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// The hour is written separately: it carries no leading zero.
	dateLayout      = "20060102 "
	clockLayout     = ":04:05.000"
	unknownLocation = "unknown:0"
)

// Location identifies where a record came from.
type Location struct {
	Category string
	File     string
	Line     int
}

func (l Location) caller() string {
	if l.File == emptyString {
		return emptyString
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Formatter renders zerolog records as
//
//	[<yyyyMMdd h:mm:ss.zzz> <letter>] <file>:<line> - <message>
//
// followed by a newline. The timestamp is taken when the line is
// formatted.
type Formatter struct {
	now     func() time.Time
	console zerolog.ConsoleWriter
}

func NewFormatter() *Formatter {
	f := &Formatter{now: time.Now}
	f.console = zerolog.ConsoleWriter{
		NoColor: true,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
		FieldsExclude:   []string{categoryFieldName},
		FormatTimestamp: f.formatTimestamp,
		FormatLevel:     formatLevelLetter,
		FormatCaller:    formatCaller,
		FormatMessage:   formatMessage,
	}
	return f
}

func (f *Formatter) formatTimestamp(interface{}) string {
	return formatTimestamp(f.now())
}

func formatTimestamp(t time.Time) string {
	return "[" + t.Format(dateLayout) + strconv.Itoa(t.Hour()) + t.Format(clockLayout)
}

func formatLevelLetter(i interface{}) string {
	name, _ := i.(string)
	zl, err := zerolog.ParseLevel(name)
	if err != nil {
		zl = zerolog.NoLevel
	}
	return levelFromZerolog(zl).Letter() + "]"
}

func formatCaller(i interface{}) string {
	s, ok := i.(string)
	if !ok || s == emptyString {
		return unknownLocation
	}
	return filepath.Base(s)
}

func formatMessage(i interface{}) string {
	if i == nil {
		return "- "
	}
	return fmt.Sprintf("- %v", i)
}

// Format renders one zerolog JSON record.
func (f *Formatter) Format(record []byte) ([]byte, error) {
	var out bytes.Buffer
	cw := f.console
	cw.Out = &out
	if _, err := cw.Write(record); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// FormatMessage renders a record that did not come from a zerolog logger.
// It uses the same part formatters as Format without going through a
// zerolog event, so zerolog's global level never drops it.
func (f *Formatter) FormatMessage(level Level, loc Location, msg string) []byte {
	var b strings.Builder
	b.WriteString(f.formatTimestamp(nil))
	b.WriteByte(' ')
	b.WriteString(level.Letter())
	b.WriteString("] ")
	b.WriteString(formatCaller(loc.caller()))
	b.WriteByte(' ')
	b.WriteString(formatMessage(msg))
	b.WriteByte('\n')
	return []byte(b.String())
}
