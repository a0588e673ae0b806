package colfmt

import (
	"fmt"
	"iter"
	"slices"

	"github.com/sirupsen/logrus"
)

// FormatOption configures a single call to [Library.Format].
type FormatOption func(*formatConfig)

type formatConfig struct {
	strict  bool
	onError func(*FormatError)
}

// Strict stops the stream at the first formatter failure instead of
// substituting the format's error sentinel.
func Strict() FormatOption {
	return func(c *formatConfig) { c.strict = true }
}

// OnCellError registers fn to observe every substituted cell group.
func OnCellError(fn func(*FormatError)) FormatOption {
	return func(c *formatConfig) { c.onError = fn }
}

// Format returns a lazy sequence of formatted rows. Each input row is cut into
// consecutive groups of columns, one per instruction, and each group is passed
// to the instruction's formatter method for f. The outputs are concatenated
// in instruction order.
//
// Unknown formats, unregistered formatters and non-positive arities are
// reported immediately. A row whose width differs from the sum of the arities
// yields a *FormatError and ends the sequence. A formatter that fails on a
// group contributes the format's error sentinel as a single cell and the row
// continues, unless [Strict] is given.
//
// The formatters are resolved when Format is called; later registrations do
// not affect the returned sequence.
func (l *Library) Format(rows iter.Seq[Row], instructions []Instruction, f Format, opts ...FormatOption) (iter.Seq2[Row, error], error) {
	fns, defaults, err := l.resolve(f, instructions)
	if err != nil {
		return nil, err
	}
	cfg := formatConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	instructions = slices.Clone(instructions)
	width := 0
	for _, in := range instructions {
		width += in.Arity
	}
	e := &engine{
		log:          l.log,
		format:       f,
		defaults:     defaults,
		instructions: instructions,
		fns:          fns,
		width:        width,
		cfg:          cfg,
	}
	return func(yield func(Row, error) bool) {
		i := 0
		for row := range rows {
			out, err := e.row(i, row)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(out, nil) {
				return
			}
			i++
		}
	}, nil
}

// FormatAll formats rows eagerly.
func (l *Library) FormatAll(rows []Row, instructions []Instruction, f Format, opts ...FormatOption) ([]Row, error) {
	seq, err := l.Format(slices.Values(rows), instructions, f, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(rows))
	for row, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, row)
	}
	return out, nil
}

type engine struct {
	log          logrus.FieldLogger
	format       Format
	defaults     Defaults
	instructions []Instruction
	fns          []formatFunc
	width        int
	cfg          formatConfig
}

// cell is the outcome of one instruction over one row.
type cell struct {
	values []any
	err    error
}

func (e *engine) row(index int, row Row) (Row, error) {
	if len(row) != e.width {
		return nil, &FormatError{
			Row: index,
			Err: fmt.Errorf("%w: instructions consume %d columns, row has %d", ErrArityMismatch, e.width, len(row)),
		}
	}
	out := make(Row, 0, len(row))
	offset := 0
	for i, in := range e.instructions {
		c := e.call(e.fns[i], row[offset:offset+in.Arity])
		if c.err != nil {
			ferr := &FormatError{Row: index, Offset: offset, Formatter: in.Formatter, Format: e.format, Err: c.err}
			if e.cfg.strict {
				return nil, ferr
			}
			e.log.WithError(c.err).WithFields(logrus.Fields{
				"row":       index,
				"offset":    offset,
				"formatter": in.Formatter,
				"format":    e.format,
			}).Debug("substituted error sentinel")
			if e.cfg.onError != nil {
				e.cfg.onError(ferr)
			}
			out = append(out, e.defaults.Error)
		} else {
			out = append(out, c.values...)
		}
		offset += in.Arity
	}
	return out, nil
}

func (e *engine) call(fn formatFunc, args []any) (c cell) {
	defer func() {
		if r := recover(); r != nil {
			c = cell{err: fmt.Errorf("panic: %v", r)}
		}
	}()
	// Formatters receive their own copy of the group.
	v, err := fn(slices.Clone(args)...)
	if err != nil {
		return cell{err: err}
	}
	var values []any
	if vs, ok := v.(Values); ok {
		values = slices.Clone(vs)
	} else {
		values = []any{v}
	}
	if e.defaults.HasNull {
		for i, val := range values {
			if val == nil {
				values[i] = e.defaults.Null
			}
		}
	}
	return cell{values: values}
}
