package colfmt

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"iter"
	"strings"
)

// Sentinel errors returned by the renderers.
var (
	ErrUnsupportedOutput = errors.New("unsupported output")
	ErrInvalidTemplate   = errors.New("invalid template")
)

// Output is a rendering target for formatted rows.
type Output string

const (
	OutputCSV      Output = "csv"
	OutputTSV      Output = "tsv"
	OutputHTML     Output = "html"
	OutputJSON     Output = "json"
	OutputJSONL    Output = "jsonl"
	OutputYAML     Output = "yaml"
	OutputTable    Output = "table"
	OutputMarkdown Output = "markdown"
	OutputPlain    Output = "plain"
)

const goTemplatePrefix = "go-template="

var outputs = []Output{OutputCSV, OutputTSV, OutputHTML, OutputJSON, OutputJSONL, OutputYAML, OutputTable, OutputMarkdown, OutputPlain}

// String returns the output name.
func (o Output) String() string { return string(o) }

// Format returns the formatter format whose values o renders.
func (o Output) Format() Format {
	switch o {
	case OutputHTML:
		return HTML
	case OutputJSON, OutputJSONL, OutputYAML:
		return JSON
	default:
		return CSV
	}
}

// Outputs returns all static output names. GoTemplate is not included because
// it is parameterized.
func Outputs() []Output {
	out := make([]Output, len(outputs))
	copy(out, outputs)
	return out
}

// GoTemplate returns an Output that renders each row using a Go
// text/template. The template receives the row as a slice; header labels are
// available through the "col" function.
func GoTemplate(tmpl string) Output {
	return Output(goTemplatePrefix + tmpl)
}

// ParseOutput parses an output name. Recognizes all static outputs and
// go-template=<tmpl> strings.
func ParseOutput(s string) (Output, error) {
	if strings.HasPrefix(s, goTemplatePrefix) {
		return Output(s), nil
	}
	for _, o := range outputs {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedOutput, s)
}

// BorderStyle controls table border characters.
type BorderStyle int

const (
	BorderRounded BorderStyle = iota // ╭─╮╰╯│┬┴├┤┼
	BorderNone                       // No borders, space-separated columns
	BorderASCII                      // +-+|
	BorderHeavy                      // ┏━┓┗┛┃┳┻┣┫╋
	BorderDouble                     // ╔═╗╚╝║╦╩╠╣╬
)

// Alignment controls column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Layout carries the presentation details of a rendered report. Every field
// is optional.
type Layout struct {
	// Header labels the output columns.
	Header []string
	// Title is rendered above tables and as the HTML caption.
	Title string
	// Caption is rendered below tables.
	Caption string
	// Border selects the table border style. Default: BorderRounded.
	Border BorderStyle
	// Alignments sets per-column alignment for table, markdown and html.
	Alignments []Alignment
	// MaxWidths truncates table cells with "...". Zero means no limit.
	MaxWidths []int
	// NumberHeader, when set, prepends a row number column to tables.
	NumberHeader string
	// PageSize repeats the table header every PageSize rows.
	PageSize int
	// Delimiter overrides the CSV field delimiter. Default: comma.
	Delimiter rune
	// Indent controls JSON and YAML indentation.
	Indent string
}

// Render writes rows to w in output o. Outputs whose rows are independent are
// streamed; table, markdown and yaml collect every row first. The first row
// error aborts rendering and is returned.
func Render(w io.Writer, o Output, layout Layout, rows iter.Seq2[Row, error]) error {
	switch o {
	case OutputCSV:
		return writeCSV(w, layout, rows)
	case OutputTSV:
		return writeTSV(w, layout, rows)
	case OutputHTML:
		return writeHTML(w, layout, rows)
	case OutputJSON:
		return writeJSON(w, layout, rows)
	case OutputJSONL:
		return writeJSONL(w, layout, rows)
	case OutputPlain:
		return writePlain(w, rows)
	case OutputYAML, OutputTable, OutputMarkdown:
		collected, err := collect(rows)
		if err != nil {
			return err
		}
		switch o {
		case OutputYAML:
			return writeYAML(w, layout, collected)
		case OutputTable:
			return writeTable(w, layout, collected)
		default:
			return writeMarkdown(w, layout, collected)
		}
	default:
		if tmpl, ok := strings.CutPrefix(string(o), goTemplatePrefix); ok {
			return writeGoTemplate(w, tmpl, layout, rows)
		}
		return fmt.Errorf("%w: %q", ErrUnsupportedOutput, o)
	}
}

// RenderRows renders an already materialized set of rows.
func RenderRows(w io.Writer, o Output, layout Layout, rows []Row) error {
	return Render(w, o, layout, func(yield func(Row, error) bool) {
		for _, row := range rows {
			if !yield(row, nil) {
				return
			}
		}
	})
}

func collect(rows iter.Seq2[Row, error]) ([]Row, error) {
	var out []Row
	for row, err := range rows {
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// CellString returns the text form of a formatted value. nil renders empty.
func CellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case template.HTML:
		return string(c)
	case fmt.Stringer:
		return c.String()
	case []byte:
		return string(c)
	default:
		return fmt.Sprint(c)
	}
}

func rowStrings(row Row) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = CellString(v)
	}
	return out
}
