package applogging

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRule indicates a malformed line in a filter-rule document.
var ErrInvalidRule = errors.New("invalid filter rule")

// CompileFilterRules renders the filter-rule document for a minimum level
// and the enabled categories, in order. The document starts with a
// deny-all baseline; later lines override earlier ones for the same
// pattern.
//
// A Trace threshold opens debug output for every enabled category. A
// Debug threshold opens it only for categories whose name does not end
// in TraceCategorySuffix.
//
// Names that cannot be written as a literal rule pattern (see
// IsRuleName) get no lines and so stay at the baseline.
func CompileFilterRules(min Level, enabled []string) string {
	var sb strings.Builder
	for _, name := range backendLevels {
		writeRule(&sb, "*", name, false)
	}

	for _, category := range enabled {
		if !IsRuleName(category) {
			continue
		}
		if min <= TraceLevel {
			writeRule(&sb, category, "debug", true)
		}
		if min <= DebugLevel && !isTraceCategory(category) {
			writeRule(&sb, category, "debug", true)
		}
		for l := InfoLevel; l <= FatalLevel; l++ {
			if min <= l {
				writeRule(&sb, category, l.BackendName(), true)
			}
		}
	}
	return sb.String()
}

func writeRule(sb *strings.Builder, pattern, level string, enabled bool) {
	sb.WriteString(pattern)
	sb.WriteByte('.')
	sb.WriteString(level)
	if enabled {
		sb.WriteString("=true\n")
	} else {
		sb.WriteString("=false\n")
	}
}

// IsRuleName reports whether name can appear as a literal pattern in a
// rule document: non-empty, no surrounding spaces, no line breaks, no
// '=' or '*', and not starting with '#'.
func IsRuleName(name string) bool {
	return name != emptyString &&
		strings.TrimSpace(name) == name &&
		!strings.ContainsAny(name, "=*\r\n") &&
		!strings.HasPrefix(name, "#")
}

func isTraceCategory(name string) bool {
	return strings.HasSuffix(name, TraceCategorySuffix)
}

type matchKind uint8

const (
	matchExact matchKind = iota
	matchPrefix
	matchSuffix
	matchContains
	matchAll
)

type filterRule struct {
	kind    matchKind
	text    string
	level   string // empty: every level
	enabled bool
}

func (r filterRule) matches(category string) bool {
	switch r.kind {
	case matchAll:
		return true
	case matchPrefix:
		return strings.HasPrefix(category, r.text)
	case matchSuffix:
		return strings.HasSuffix(category, r.text)
	case matchContains:
		return strings.Contains(category, r.text)
	default:
		return category == r.text
	}
}

// FilterRules is a parsed filter-rule document. It is immutable once
// parsed and safe for concurrent use.
type FilterRules struct {
	rules   []filterRule
	doc     string
	skipped int
}

// ParseFilterRules parses lines of the form
// <pattern>[.<debug|info|warning|critical|fatal>]=<true|false>.
// Patterns may carry a '*' wildcard at the start, the end, or both.
// Blank lines and lines starting with '#' are skipped. The first malformed
// line fails the whole document.
func ParseFilterRules(doc string) (*FilterRules, error) {
	return parseFilterRules(doc, false)
}

// parseFilterRulesLenient drops malformed lines and keeps the rest.
func parseFilterRulesLenient(doc string) *FilterRules {
	fr, _ := parseFilterRules(doc, true)
	return fr
}

func parseFilterRules(doc string, lenient bool) (*FilterRules, error) {
	fr := &FilterRules{doc: doc}
	for i, raw := range strings.Split(doc, "\n") {
		line := strings.TrimSpace(raw)
		if line == emptyString || strings.HasPrefix(line, "#") {
			continue
		}
		rule, err := parseRule(line)
		if err != nil {
			if lenient {
				fr.skipped++
				continue
			}
			return nil, fmt.Errorf("%w: line %d: %q", err, i+1, line)
		}
		fr.rules = append(fr.rules, rule)
	}
	return fr, nil
}

func parseRule(line string) (filterRule, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return filterRule{}, ErrInvalidRule
	}
	key = strings.TrimSpace(key)

	var rule filterRule
	switch strings.TrimSpace(value) {
	case "true":
		rule.enabled = true
	case "false":
	default:
		return filterRule{}, ErrInvalidRule
	}

	pattern := key
	for _, name := range backendLevels {
		if trimmed, found := strings.CutSuffix(key, "."+name); found {
			pattern, rule.level = trimmed, name
			break
		}
	}

	switch {
	case pattern == "*":
		rule.kind = matchAll
	case len(pattern) > 2 && strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*"):
		rule.kind, rule.text = matchContains, pattern[1:len(pattern)-1]
	case strings.HasPrefix(pattern, "*"):
		rule.kind, rule.text = matchSuffix, pattern[1:]
	case strings.HasSuffix(pattern, "*"):
		rule.kind, rule.text = matchPrefix, pattern[:len(pattern)-1]
	default:
		rule.kind, rule.text = matchExact, pattern
	}
	if rule.kind != matchAll && (rule.text == emptyString || strings.Contains(rule.text, "*")) {
		return filterRule{}, ErrInvalidRule
	}
	return rule, nil
}

// Allowed reports whether a record of the given category and level
// passes. The last matching rule decides; with no match the record
// passes. OffLevel never passes.
func (fr *FilterRules) Allowed(category string, level Level) bool {
	backend := level.BackendName()
	if backend == emptyString {
		return false
	}
	if fr == nil {
		return true
	}
	allowed := true
	for _, r := range fr.rules {
		if r.level != emptyString && r.level != backend {
			continue
		}
		if r.matches(category) {
			allowed = r.enabled
		}
	}
	return allowed
}

// String returns the document the rules were parsed from.
func (fr *FilterRules) String() string {
	if fr == nil {
		return emptyString
	}
	return fr.doc
}

// Skipped returns the number of malformed lines dropped while parsing.
func (fr *FilterRules) Skipped() int {
	if fr == nil {
		return 0
	}
	return fr.skipped
}

// Len returns the number of parsed rules.
func (fr *FilterRules) Len() int {
	if fr == nil {
		return 0
	}
	return len(fr.rules)
}
