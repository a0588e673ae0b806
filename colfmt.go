package colfmt

import (
	"errors"
	"fmt"
	"html/template"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrRegister          = errors.New("cannot register formatter")
	ErrAlreadyRegistered = errors.New("formatter already registered")
	ErrNotRegistered     = errors.New("formatter not registered")
	ErrInstruction       = errors.New("invalid instruction")
	ErrFormat            = errors.New("format error")
	ErrArityMismatch     = errors.New("arity mismatch")
)

// Format identifies the output family a formatter method produces values for.
type Format string

const (
	CSV  Format = "csv"
	HTML Format = "html"
	JSON Format = "json"
)

var formats = []Format{CSV, HTML, JSON}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all known formats.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Defaults holds the sentinels a format substitutes for missing values and
// for cells a formatter could not handle.
type Defaults struct {
	// Null replaces nil output values when HasNull is set.
	Null    any
	HasNull bool
	// Error replaces the output of a formatter that failed.
	Error any
}

// Sentinel values used by the built-in formats.
const (
	FormatErrorText = "[data format error]"

	HTMLNull  template.HTML = `<span class="lg ht">(no data)</span>`
	HTMLError template.HTML = `<span class="data-format-error">[data format error]</span>`
)

func builtinDefaults() map[Format]Defaults {
	return map[Format]Defaults{
		CSV:  {Null: "", HasNull: true, Error: FormatErrorText},
		HTML: {Null: HTMLNull, HasNull: true, Error: HTMLError},
		JSON: {Error: FormatErrorText},
	}
}

// Row is one record of raw or formatted values.
type Row []any

// Values is returned by a formatter that fans out into several output
// columns. An empty Values contributes no columns.
type Values []any

// Instruction tells the engine to pass the next Arity columns of a row to the
// formatter registered as Formatter.
type Instruction struct {
	Formatter string `json:"formatter" yaml:"formatter"`
	Arity     int    `json:"arity" yaml:"arity"`
}

// Choice is a selectable formatter name.
type Choice struct {
	Value string
	Label string
}

// FormatError describes a failure while formatting one group of cells, or a
// row that the instructions do not partition.
type FormatError struct {
	Row       int
	Offset    int
	Formatter string
	Format    Format
	Err       error
}

func (e *FormatError) Error() string {
	if e.Formatter == "" {
		return fmt.Sprintf("%s: row %d: %v", ErrFormat, e.Row, e.Err)
	}
	return fmt.Sprintf("%s: row %d, column %d, %q (%s): %v", ErrFormat, e.Row, e.Offset, e.Formatter, e.Format, e.Err)
}

// Unwrap exposes both ErrFormat and the underlying cause to errors.Is.
func (e *FormatError) Unwrap() []error {
	return []error{ErrFormat, e.Err}
}
