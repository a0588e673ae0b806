// Package report runs a perspective end to end: it compiles the perspective
// for the output's format, formats rows from a source and renders them.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/bjaus/colfmt"
	"github.com/bjaus/colfmt/catalog"
	"github.com/bjaus/colfmt/internal/logger"
	"github.com/bjaus/colfmt/source"
	"github.com/sirupsen/logrus"
)

// ErrNoRows is returned by Run for a request without a row source.
var ErrNoRows = errors.New("request has no row source")

// Request describes one report run.
type Request struct {
	Perspective string
	Output      colfmt.Output
	// Layout overrides presentation. An empty Header is filled from the
	// perspective.
	Layout colfmt.Layout
	// Rows yields raw rows in the plan's column order. See Reporter.Plan.
	Rows   source.Rows
	Strict bool
}

// Summary reports what a run did.
type Summary struct {
	Rows        int
	Substituted int
	Duration    time.Duration
}

// Reporter runs reports against one catalog and formatter library.
type Reporter struct {
	catalog *catalog.Catalog
	library *colfmt.Library
}

// New returns a Reporter.
func New(c *catalog.Catalog, lib *colfmt.Library) *Reporter {
	return &Reporter{catalog: c, library: lib}
}

// Plan compiles perspective for output o and checks that every formatter it
// names is registered.
func (r *Reporter) Plan(perspective string, o colfmt.Output) (*catalog.Plan, error) {
	f := o.Format()
	plan, err := r.catalog.Compile(perspective, f)
	if err != nil {
		return nil, err
	}
	if err := r.catalog.CheckFormatters(r.library, perspective, f); err != nil {
		return nil, err
	}
	return plan, nil
}

// SelectQuery builds the query that reads plan's columns from table, sorted
// by the plan's sort keys.
func SelectQuery(plan *catalog.Plan, table string) (string, error) {
	order := make([]source.Order, len(plan.Sort))
	for i, k := range plan.Sort {
		order[i] = source.Order{Column: k.Field.Column, Descending: k.Descending}
	}
	return source.SelectQuery(table, plan.Columns(), order...)
}

// Run formats and renders req to w. The first error from the source, the
// engine, the renderer or ctx ends the run; rows rendered before it stay
// written.
func (r *Reporter) Run(ctx context.Context, w io.Writer, req Request) (Summary, error) {
	start := time.Now()
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"perspective": req.Perspective,
		"output":      req.Output,
	})

	plan, err := r.Plan(req.Perspective, req.Output)
	if err != nil {
		return Summary{}, err
	}
	if req.Rows == nil {
		return Summary{}, ErrNoRows
	}

	var sum Summary
	rows, rowsErr := guard(ctx, req.Rows, &sum.Rows)
	opts := []colfmt.FormatOption{
		colfmt.OnCellError(func(e *colfmt.FormatError) {
			sum.Substituted++
			log.WithError(e.Err).WithFields(logrus.Fields{
				"row":       e.Row,
				"formatter": e.Formatter,
			}).Debug("cell substituted")
		}),
	}
	if req.Strict {
		opts = append(opts, colfmt.Strict())
	}
	formatted, err := r.library.Format(rows, plan.Instructions, plan.Format, opts...)
	if err != nil {
		return Summary{}, err
	}

	layout := req.Layout
	if layout.Header == nil {
		layout.Header = plan.Header
	}
	log.WithField("columns", plan.Width()).Debug("rendering")

	err = colfmt.Render(w, req.Output, layout, formatted)
	if err == nil {
		err = rowsErr()
	}
	sum.Duration = time.Since(start)

	entry := log.WithFields(logrus.Fields{
		"rows":        sum.Rows,
		"substituted": sum.Substituted,
		"duration":    sum.Duration,
	})
	if err != nil {
		entry.WithError(err).Error("report failed")
		return sum, fmt.Errorf("report %q: %w", req.Perspective, err)
	}
	entry.Info("report rendered")
	return sum, nil
}

// guard counts the rows pulled from src and stops at the first source error
// or when ctx is done. The returned function reports why the rows ended
// early.
func guard(ctx context.Context, src source.Rows, count *int) (iter.Seq[colfmt.Row], func() error) {
	rows, srcErr := colfmt.Split(src)
	var ctxErr error
	guarded := func(yield func(colfmt.Row) bool) {
		for row := range rows {
			if err := ctx.Err(); err != nil {
				ctxErr = err
				return
			}
			*count++
			if !yield(row) {
				return
			}
		}
	}
	return guarded, func() error {
		if ctxErr != nil {
			return ctxErr
		}
		return srcErr()
	}
}
