package colfmt

import (
	"fmt"
	"html"
	"html/template"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Builtins returns the formatters registered by [WithBuiltins].
func Builtins() []any {
	return []any{PassFormatter{}, RemoveFormatter{}, ConcatFormatter{}, CommaFormatter{}}
}

// PassFormatter returns its input unchanged.
type PassFormatter struct{ Base }

func (PassFormatter) pass(args ...any) (any, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return Values(args), nil
}

func (p PassFormatter) CSV(args ...any) (any, error)  { return p.pass(args...) }
func (p PassFormatter) HTML(args ...any) (any, error) { return p.pass(args...) }
func (p PassFormatter) JSON(args ...any) (any, error) { return p.pass(args...) }

// RemoveFormatter drops its columns from the output.
type RemoveFormatter struct{ Base }

func (RemoveFormatter) CSV(...any) (any, error)  { return Values{}, nil }
func (RemoveFormatter) HTML(...any) (any, error) { return Values{}, nil }
func (RemoveFormatter) JSON(...any) (any, error) { return Values{}, nil }

// ConcatFormatter joins its non-nil inputs with a single space. The result is
// nil when every input is nil.
type ConcatFormatter struct{ Base }

func (ConcatFormatter) join(args []any) (string, bool) {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a == nil {
			continue
		}
		parts = append(parts, fmt.Sprint(a))
	}
	return strings.Join(parts, " "), len(parts) > 0
}

func (c ConcatFormatter) CSV(args ...any) (any, error) {
	if s, ok := c.join(args); ok {
		return s, nil
	}
	return nil, nil
}

func (c ConcatFormatter) HTML(args ...any) (any, error) {
	if s, ok := c.join(args); ok {
		return template.HTML(html.EscapeString(s)), nil
	}
	return nil, nil
}

func (c ConcatFormatter) JSON(args ...any) (any, error) { return c.CSV(args...) }

// CommaFormatter renders a single number with thousands separators. JSON
// output keeps the number.
type CommaFormatter struct{ Base }

func (CommaFormatter) comma(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("comma takes one value, got %d", len(args))
	}
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case int:
		return humanize.Comma(int64(v)), nil
	case int32:
		return humanize.Comma(int64(v)), nil
	case int64:
		return humanize.Comma(v), nil
	case float32:
		return commaFloat(float64(v)), nil
	case float64:
		return commaFloat(v), nil
	default:
		return nil, fmt.Errorf("comma: unsupported type %T", v)
	}
}

func commaFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return humanize.Comma(int64(f))
	}
	return humanize.Commaf(f)
}

func (c CommaFormatter) CSV(args ...any) (any, error)  { return c.comma(args) }
func (c CommaFormatter) HTML(args ...any) (any, error) { return c.comma(args) }

func (CommaFormatter) JSON(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("comma takes one value, got %d", len(args))
	}
	return args[0], nil
}
