package colfmt

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Base is the formatter base contract. Every formatter embeds it:
//
//	type AddFormatter struct{ colfmt.Base }
//
//	func (AddFormatter) CSV(args ...any) (any, error) { ... }
//
// Base provides no format methods of its own, so a type's operations are
// exactly the capability interfaces it implements.
type Base struct{}

func (Base) formatter() {}

type formatter interface {
	formatter()
}

// --- Capability Interfaces ---

// CSVFormatter produces values for plain-text outputs.
type CSVFormatter interface {
	CSV(args ...any) (any, error)
}

// HTMLFormatter produces values for HTML outputs. Return template.HTML for
// markup that must not be escaped.
type HTMLFormatter interface {
	HTML(args ...any) (any, error)
}

// JSONFormatter produces values for JSON outputs.
type JSONFormatter interface {
	JSON(args ...any) (any, error)
}

// --- Optional Interfaces ---

// Named overrides the name derived from the formatter's type.
type Named interface {
	Name() string
}

type formatFunc func(args ...any) (any, error)

// methods returns the format methods v implements, keyed by format.
func methods(v any) map[Format]formatFunc {
	m := make(map[Format]formatFunc)
	if c, ok := v.(CSVFormatter); ok {
		m[CSV] = c.CSV
	}
	if h, ok := v.(HTMLFormatter); ok {
		m[HTML] = h.HTML
	}
	if j, ok := v.(JSONFormatter); ok {
		m[JSON] = j.JSON
	}
	return m
}

// Implements reports whether v implements the method for format f.
func Implements(v any, f Format) bool {
	_, ok := methods(v)[f]
	return ok
}

// NameOf returns the registry name of v: its Name method if it has one,
// otherwise its type name with a trailing "Formatter" trimmed and split into
// words.
func NameOf(v any) string {
	if n, ok := v.(Named); ok {
		if name := strings.TrimSpace(n.Name()); name != "" {
			return name
		}
	}
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	name := t.Name()
	if trimmed := strings.TrimSuffix(name, "Formatter"); trimmed != "" {
		name = trimmed
	}
	return splitWords(name)
}

// splitWords turns "ConcatStr" into "Concat Str" and "HTMLLink" into
// "HTML Link". The first letter is upper-cased.
func splitWords(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte(' ')
			}
		}
		sb.WriteRune(r)
	}
	out := sb.String()
	if r, size := utf8.DecodeRuneInString(out); r != utf8.RuneError {
		out = string(unicode.ToUpper(r)) + out[size:]
	}
	return out
}
