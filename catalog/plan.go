package catalog

import (
	"errors"
	"fmt"

	"github.com/bjaus/colfmt"
	"github.com/bjaus/colfmt/source"
)

// Formatter names the catalog falls back to.
const (
	DefaultFormatter = "Pass"
	RemoveFormatter  = "Remove"
)

// SortKey orders the source rows by one field.
type SortKey struct {
	Field      Field
	Descending bool
}

// Plan is a perspective compiled for one format.
type Plan struct {
	Perspective  string
	Format       colfmt.Format
	Fields       []Field
	Instructions []colfmt.Instruction
	Header       []string
	Sort         []SortKey
}

// Columns returns the source column names the plan reads, in row order.
func (p *Plan) Columns() []string {
	out := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		out[i] = f.Column
	}
	return out
}

// Width returns the number of raw columns every source row must have.
func (p *Plan) Width() int {
	return len(p.Fields)
}

// FormatterFor returns the formatter the concept uses for f.
func (cn Concept) FormatterFor(f colfmt.Format) string {
	if name, ok := cn.Formatters[f.String()]; ok {
		return name
	}
	return DefaultFormatter
}

// Compile turns the named perspective into instructions and header labels
// for format f. Each concept contributes one instruction whose arity is its
// field count. Header labels come from the concept's Labels, then from the
// field names when Pass fans several fields out, then from the concept name.
// A concept formatted with Remove contributes no label.
func (c *Catalog) Compile(perspective string, f colfmt.Format) (*Plan, error) {
	if _, err := colfmt.ParseFormat(f.String()); err != nil {
		return nil, err
	}
	p, ok := c.Perspective(perspective)
	if !ok {
		return nil, fmt.Errorf("%w: perspective %q", ErrNotFound, perspective)
	}
	plan := &Plan{Perspective: p.Name, Format: f}
	for _, col := range p.Columns {
		cn, ok := c.Concept(col.Concept)
		if !ok {
			return nil, fmt.Errorf("%w: concept %q", ErrNotFound, col.Concept)
		}
		fields := make([]Field, len(cn.Fields))
		for i, id := range cn.Fields {
			field, ok := c.Field(id)
			if !ok {
				return nil, fmt.Errorf("%w: field %q", ErrNotFound, id)
			}
			fields[i] = field
		}
		formatter := cn.FormatterFor(f)
		plan.Fields = append(plan.Fields, fields...)
		plan.Instructions = append(plan.Instructions, colfmt.Instruction{Formatter: formatter, Arity: len(fields)})
		plan.Header = append(plan.Header, labels(cn, formatter, fields)...)
		if col.Sort != "" {
			for _, field := range fields {
				plan.Sort = append(plan.Sort, SortKey{Field: field, Descending: col.Sort == Desc})
			}
		}
	}
	if err := checkColumns(plan.Fields); err != nil {
		return nil, fmt.Errorf("perspective %q: %w", p.Name, err)
	}
	return plan, nil
}

// checkColumns fails when two distinct fields read the same source column.
// Sources match columns by normalized name, so such fields cannot be told
// apart in a row.
func checkColumns(fields []Field) error {
	seen := make(map[string]string, len(fields))
	for _, f := range fields {
		key := source.NormalizeName(f.Column)
		if id, ok := seen[key]; ok && id != f.ID() {
			return fmt.Errorf("%w: fields %q and %q share source column %q", ErrInvalid, id, f.ID(), f.Column)
		}
		seen[key] = f.ID()
	}
	return nil
}

func labels(cn Concept, formatter string, fields []Field) []string {
	switch {
	case len(cn.Labels) > 0:
		return cn.Labels
	case formatter == RemoveFormatter:
		return nil
	case formatter == DefaultFormatter && len(fields) > 1:
		out := make([]string, len(fields))
		for i, f := range fields {
			out[i] = f.Name
		}
		return out
	default:
		return []string{cn.Name}
	}
}

// Registry reports which formatters are available per format.
// *colfmt.Library satisfies it.
type Registry interface {
	Has(name string, f colfmt.Format) bool
}

// CheckFormatters reports every concept of the perspective whose formatter
// for f is not registered. An empty perspective checks every concept.
func (c *Catalog) CheckFormatters(reg Registry, perspective string, f colfmt.Format) error {
	var concepts []string
	if perspective == "" {
		for _, cn := range c.Concepts {
			concepts = append(concepts, cn.ID)
		}
	} else {
		p, ok := c.Perspective(perspective)
		if !ok {
			return fmt.Errorf("%w: perspective %q", ErrNotFound, perspective)
		}
		for _, col := range p.Columns {
			concepts = append(concepts, col.Concept)
		}
	}
	var errs []error
	for _, id := range concepts {
		cn, ok := c.Concept(id)
		if !ok {
			continue
		}
		if name := cn.FormatterFor(f); !reg.Has(name, f) {
			errs = append(errs, fmt.Errorf("%w: concept %q uses %q for %s", colfmt.ErrNotRegistered, id, name, f))
		}
	}
	return errors.Join(errs...)
}
