package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bjaus/colfmt"
	"github.com/bjaus/colfmt/catalog"
	"github.com/bjaus/colfmt/internal/logger"
	"github.com/bjaus/colfmt/report"
	"github.com/bjaus/colfmt/source"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	errNoSource       = errors.New("one of --input or --dsn is required")
	errTwoSources     = errors.New("--input and --dsn are mutually exclusive")
	errNoTable        = errors.New("--dsn needs --table or --query")
	errUnknownBorder  = errors.New("unknown border style")
	errBadDelimiter   = errors.New("delimiter must be a single character")
	errUnknownColumns = errors.New("input is missing perspective columns")
)

var borders = map[string]colfmt.BorderStyle{
	"rounded": colfmt.BorderRounded,
	"none":    colfmt.BorderNone,
	"ascii":   colfmt.BorderASCII,
	"heavy":   colfmt.BorderHeavy,
	"double":  colfmt.BorderDouble,
}

// Render holds the render command's configuration.
type Render struct {
	Catalog     string
	Perspective string
	Output      string

	Input       string
	InputFormat string
	Delimiter   string
	NoInfer     bool

	Driver string
	DSN    string
	Table  string
	Query  string

	Strict       bool
	Title        string
	Caption      string
	Border       string
	NumberHeader string
	PageSize     int
	Indent       string
}

func (r *Render) flags(fs *pflag.FlagSet) {
	fs.StringVarP(&r.Catalog, "catalog", "c", "catalog.yaml", "catalog file")
	fs.StringVarP(&r.Perspective, "perspective", "p", "", "perspective to render")
	fs.StringVarP(&r.Output, "output", "o", string(colfmt.OutputTable), "output: "+outputList())

	fs.StringVarP(&r.Input, "input", "i", "", "CSV or JSON rows file, - for stdin")
	fs.StringVar(&r.InputFormat, "input-format", "", "csv or json (default from the --input extension)")
	fs.StringVar(&r.Delimiter, "delimiter", ",", "CSV input delimiter")
	fs.BoolVar(&r.NoInfer, "no-infer", false, "keep CSV cells as strings")

	fs.StringVar(&r.Driver, "driver", "sqlite", "database/sql driver (sqlite, postgres, pgx)")
	fs.StringVar(&r.DSN, "dsn", "", "database connection string")
	fs.StringVar(&r.Table, "table", "", "table to select the perspective's columns from")
	fs.StringVar(&r.Query, "query", "", "query returning the perspective's columns in order")

	fs.BoolVar(&r.Strict, "strict", false, "fail on the first formatter error instead of substituting")
	fs.StringVar(&r.Title, "title", "", "table title / html caption")
	fs.StringVar(&r.Caption, "caption", "", "text below tables")
	fs.StringVar(&r.Border, "border", "rounded", "table border: rounded, none, ascii, heavy, double")
	fs.StringVar(&r.NumberHeader, "number", "", "prepend a row number column with this header")
	fs.IntVar(&r.PageSize, "page-size", 0, "repeat the table header every n rows")
	fs.StringVar(&r.Indent, "indent", "", "json and yaml indentation")
}

func outputList() string {
	names := make([]string, 0, len(colfmt.Outputs()))
	for _, o := range colfmt.Outputs() {
		names = append(names, string(o))
	}
	return strings.Join(names, ", ") + ", go-template=..."
}

func (r *Render) layout() (colfmt.Layout, error) {
	border, ok := borders[strings.ToLower(r.Border)]
	if !ok {
		return colfmt.Layout{}, fmt.Errorf("%w: %q", errUnknownBorder, r.Border)
	}
	return colfmt.Layout{
		Title:        r.Title,
		Caption:      r.Caption,
		Border:       border,
		NumberHeader: r.NumberHeader,
		PageSize:     r.PageSize,
		Indent:       r.Indent,
	}, nil
}

// Run renders the configured perspective to stdout.
func (r *Render) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	log := logger.FromContext(ctx)

	output, err := colfmt.ParseOutput(r.Output)
	if err != nil {
		return err
	}
	layout, err := r.layout()
	if err != nil {
		return err
	}
	c, err := catalog.LoadFile(r.Catalog)
	if err != nil {
		return err
	}
	rep := report.New(c, colfmt.New(colfmt.WithBuiltins(), colfmt.WithLogger(log)))
	plan, err := rep.Plan(r.Perspective, output)
	if err != nil {
		return err
	}

	rows, closeFn, err := r.rows(ctx, plan, stdin)
	if err != nil {
		return err
	}
	defer closeFn()

	sum, err := rep.Run(ctx, stdout, report.Request{
		Perspective: r.Perspective,
		Output:      output,
		Layout:      layout,
		Rows:        rows,
		Strict:      r.Strict,
	})
	if err != nil {
		return err
	}
	if sum.Substituted > 0 {
		log.Warnf("%d cells could not be formatted", sum.Substituted)
	}
	return nil
}

// rows opens the configured source for plan's columns.
func (r *Render) rows(ctx context.Context, plan *catalog.Plan, stdin io.Reader) (source.Rows, func(), error) {
	noop := func() {}
	switch {
	case r.Input != "" && r.DSN != "":
		return nil, noop, errTwoSources
	case r.Input != "":
		return r.fileRows(plan, stdin)
	case r.DSN != "":
		db, err := source.Open(ctx, r.Driver, r.DSN)
		if err != nil {
			return nil, noop, err
		}
		query := r.Query
		if query == "" {
			if r.Table == "" {
				db.Close()
				return nil, noop, errNoTable
			}
			if query, err = report.SelectQuery(plan, r.Table); err != nil {
				db.Close()
				return nil, noop, err
			}
		}
		logger.FromContext(ctx).WithField("query", query).Debug("selecting rows")
		return source.SQL(ctx, db, query), func() { db.Close() }, nil
	default:
		return nil, noop, errNoSource
	}
}

func (r *Render) fileRows(plan *catalog.Plan, stdin io.Reader) (source.Rows, func(), error) {
	in, closeFn := stdin, func() {}
	if r.Input != "-" {
		f, err := os.Open(r.Input)
		if err != nil {
			return nil, closeFn, err
		}
		in, closeFn = f, func() { f.Close() }
	}

	format := strings.ToLower(r.InputFormat)
	if format == "" {
		switch strings.ToLower(filepath.Ext(r.Input)) {
		case ".json", ".jsonl", ".ndjson":
			format = "json"
		default:
			format = "csv"
		}
	}

	columns := plan.Columns()
	switch format {
	case "json":
		return source.JSON(in, columns), closeFn, nil
	case "csv":
		delim, size := utf8.DecodeRuneInString(r.Delimiter)
		if size == 0 || size != len(r.Delimiter) {
			closeFn()
			return nil, func() {}, fmt.Errorf("%w: %q", errBadDelimiter, r.Delimiter)
		}
		var missing []string
		opts := source.CSVOptions{
			Delimiter: delim,
			Infer:     !r.NoInfer,
			OnHeader: func(header []string) {
				missing = source.Missing(header, columns)
			},
		}
		return checkMissing(source.CSV(in, columns, opts), &missing, len(columns)), closeFn, nil
	default:
		closeFn()
		return nil, func() {}, fmt.Errorf("unknown input format %q", r.InputFormat)
	}
}

// checkMissing fails the rows when the header has none of the perspective's
// columns. Partially missing columns render as nulls.
func checkMissing(rows source.Rows, missing *[]string, width int) source.Rows {
	return func(yield func(colfmt.Row, error) bool) {
		first := true
		for row, err := range rows {
			if first && err == nil {
				first = false
				if m := *missing; len(m) > 0 && len(m) == width {
					yield(nil, fmt.Errorf("%w: %s", errUnknownColumns, strings.Join(m, ", ")))
					return
				}
			}
			if !yield(row, err) {
				return
			}
		}
	}
}

// NewRenderCommand returns the render command.
func NewRenderCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	r := &Render{}
	renderCommand := &cobra.Command{
		Use:   "render",
		Short: "format and render rows through a catalog perspective",
		Long: `render compiles a perspective from the catalog for the output's format, reads
rows for its columns from a CSV or JSON file or a SQL database and renders the
formatted result to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			ctx, log := logger.ContextWithLogger(cmd.Context())
			if err := r.Run(ctx, stdin, stdout); err != nil {
				return err
			}
			log.WithField("elapsed", time.Since(start)).Debug("done")
			return nil
		},
	}
	r.flags(renderCommand.Flags())
	return renderCommand
}

func init() {
	subcommandFns["render"] = NewRenderCommand
}
