package applogging

import (
	"errors"
	"fmt"
	"strings"
)

// Destination is a set of output sinks. Values combine with bitwise OR.
type Destination uint8

const (
	DestNone   Destination = 0
	DestSystem Destination = 1 << 0
	DestFile   Destination = 1 << 1
)

// ErrUnknownDestination indicates an unrecognized destination string.
var ErrUnknownDestination = errors.New("unknown log destination")

func (d Destination) IsNone() bool    { return d&(DestSystem|DestFile) == 0 }
func (d Destination) HasSystem() bool { return d&DestSystem != 0 }
func (d Destination) HasFile() bool   { return d&DestFile != 0 }

func (d Destination) String() string {
	switch {
	case d.HasSystem() && d.HasFile():
		return "system|file"
	case d.HasSystem():
		return "system"
	case d.HasFile():
		return "file"
	default:
		return "none"
	}
}

// ParseDestination parses "none", "system", "file" or a combination
// joined with '|' or ','.
func ParseDestination(s string) (Destination, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == emptyString {
		return DestNone, nil
	}
	var d Destination
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.TrimSpace(part) {
		case "none":
		case "system":
			d |= DestSystem
		case "file":
			d |= DestFile
		default:
			return DestNone, fmt.Errorf("%w: %q", ErrUnknownDestination, part)
		}
	}
	return d, nil
}
