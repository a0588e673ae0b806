package cmd

import (
	"errors"
	"io"

	"github.com/bjaus/colfmt"
	"github.com/bjaus/colfmt/catalog"
	"github.com/spf13/cobra"
)

// Check holds the check command's configuration.
type Check struct {
	Catalog string
	Output  string
}

// Run validates the catalog, checks that every formatter it names is
// registered for its format and lists the perspectives.
func (c *Check) Run(lib *colfmt.Library, stdout io.Writer) error {
	output, err := colfmt.ParseOutput(c.Output)
	if err != nil {
		return err
	}
	cat, err := catalog.LoadFile(c.Catalog)
	if err != nil {
		return err
	}
	var errs []error
	for _, f := range colfmt.Formats() {
		errs = append(errs, cat.CheckFormatters(lib, "", f))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	rows := make([]colfmt.Row, 0, len(cat.Perspectives))
	for _, p := range cat.Perspectives {
		plan, err := cat.Compile(p.Name, colfmt.CSV)
		if err != nil {
			return err
		}
		rows = append(rows, colfmt.Row{p.Name, len(p.Columns), len(plan.Fields), p.Description})
	}
	return colfmt.RenderRows(stdout, output, colfmt.Layout{
		Header: []string{"Perspective", "Concepts", "Fields", "Description"},
		Border: colfmt.BorderNone,
	}, rows)
}

// NewCheckCommand returns the check command.
func NewCheckCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &Check{}
	checkCommand := &cobra.Command{
		Use:   "check",
		Short: "validate a catalog and list its perspectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(colfmt.New(colfmt.WithBuiltins()), stdout)
		},
	}
	flags := checkCommand.Flags()
	flags.StringVarP(&c.Catalog, "catalog", "c", "catalog.yaml", "catalog file")
	flags.StringVarP(&c.Output, "output", "o", string(colfmt.OutputTable), "output: "+outputList())
	return checkCommand
}

func init() {
	subcommandFns["check"] = NewCheckCommand
}
