package applogging

import (
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

const (
	maxDumpDepth    = 10
	maxDumpElements = 10
	dumpIndent      = "  "
)

// Dump writes v as a single Debug record of the category, one line per
// field, element or map entry, indented by nesting depth. Only exported
// struct fields are shown. The record carries the location Dump was
// called from.
//
//	Dump: main.service {
//	  Name: api
//	  Ports: []int len=2 [
//	    0: 80
//	    1: 443
//	  ]
//	}
func (c *Category) Dump(v interface{}) {
	if c == nil || !c.Enabled(DebugLevel) {
		return
	}

	loc := Location{Category: c.name}
	if _, file, line, ok := runtime.Caller(1 + c.facade.skipFrames()); ok {
		loc.File, loc.Line = file, line
	}

	d := dumper{onPath: make(map[uintptr]bool)}
	d.value("Dump", reflect.ValueOf(v), 0)
	c.facade.Dispatch(DebugLevel, loc, strings.TrimSuffix(d.b.String(), "\n"))
}

// dumper renders a value tree. onPath holds the pointers between the
// root and the value being rendered; meeting one again is a cycle.
type dumper struct {
	b      strings.Builder
	onPath map[uintptr]bool
}

func (d *dumper) line(depth int, format string, args ...interface{}) {
	d.b.WriteString(strings.Repeat(dumpIndent, depth))
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteByte('\n')
}

func (d *dumper) value(label string, v reflect.Value, depth int) {
	if depth > maxDumpDepth {
		d.line(depth, "%s: <max depth reached>", label)
		return
	}

	for {
		if !v.IsValid() {
			d.line(depth, "%s: <nil>", label)
			return
		}
		k := v.Kind()
		if (k == reflect.Interface || k == reflect.Ptr) && v.IsNil() {
			d.line(depth, "%s: <nil>", label)
			return
		}
		if s, ok := stringerText(v); ok {
			d.line(depth, "%s: %s", label, s)
			return
		}
		if k != reflect.Interface && k != reflect.Ptr {
			break
		}
		if k == reflect.Ptr {
			p := v.Pointer()
			if d.onPath[p] {
				d.line(depth, "%s: <circular reference>", label)
				return
			}
			d.onPath[p] = true
			defer delete(d.onPath, p)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		d.line(depth, "%s: %s {", label, t)
		for i := 0; i < v.NumField(); i++ {
			if t.Field(i).IsExported() {
				d.value(t.Field(i).Name, v.Field(i), depth+1)
			}
		}
		d.line(depth, "}")

	case reflect.Map:
		d.line(depth, "%s: %s len=%d {", label, v.Type(), v.Len())
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})
		for i, k := range keys {
			if i == maxDumpElements {
				d.line(depth+1, "... %d more", len(keys)-i)
				break
			}
			d.value(fmt.Sprint(k), v.MapIndex(k), depth+1)
		}
		d.line(depth, "}")

	case reflect.Slice, reflect.Array:
		d.line(depth, "%s: %s len=%d [", label, v.Type(), v.Len())
		for i := 0; i < v.Len(); i++ {
			if i == maxDumpElements {
				d.line(depth+1, "... %d more", v.Len()-i)
				break
			}
			d.value(strconv.Itoa(i), v.Index(i), depth+1)
		}
		d.line(depth, "]")

	default:
		if v.CanInterface() {
			d.line(depth, "%s: %v", label, v.Interface())
		} else {
			d.line(depth, "%s: %s", label, v.String())
		}
	}
}

// stringerText prefers a value's own String or Error method, so types
// like time.Time print as text instead of their internals.
func stringerText(v reflect.Value) (string, bool) {
	if !v.CanInterface() {
		return emptyString, false
	}
	switch x := v.Interface().(type) {
	case error:
		return x.Error(), true
	case fmt.Stringer:
		return x.String(), true
	}
	return emptyString, false
}
