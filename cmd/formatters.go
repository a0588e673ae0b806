package cmd

import (
	"io"
	"strings"

	"github.com/bjaus/colfmt"
	"github.com/spf13/cobra"
)

// Formatters holds the formatters command's configuration.
type Formatters struct {
	Format string
	Output string
}

// Run lists the built-in formatters and the formats each one supports.
func (f *Formatters) Run(lib *colfmt.Library, stdout io.Writer) error {
	output, err := colfmt.ParseOutput(f.Output)
	if err != nil {
		return err
	}

	var rows []colfmt.Row
	if f.Format != "" {
		format, err := colfmt.ParseFormat(f.Format)
		if err != nil {
			return err
		}
		for _, c := range lib.Choices(format) {
			rows = append(rows, colfmt.Row{c.Value, formatList(lib.Operations(c.Value))})
		}
	} else {
		seen := map[string]bool{}
		for _, format := range colfmt.Formats() {
			for _, name := range lib.Names(format) {
				if seen[name] {
					continue
				}
				seen[name] = true
				rows = append(rows, colfmt.Row{name, formatList(lib.Operations(name))})
			}
		}
	}
	return colfmt.RenderRows(stdout, output, colfmt.Layout{
		Header: []string{"Formatter", "Formats"},
		Border: colfmt.BorderNone,
	}, rows)
}

func formatList(formats []colfmt.Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

// NewFormattersCommand returns the formatters command.
func NewFormattersCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	f := &Formatters{}
	formattersCommand := &cobra.Command{
		Use:   "formatters",
		Short: "list the available formatters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.Run(colfmt.New(colfmt.WithBuiltins()), stdout)
		},
	}
	flags := formattersCommand.Flags()
	flags.StringVarP(&f.Format, "format", "f", "", "only formatters supporting this format (csv, html, json)")
	flags.StringVarP(&f.Output, "output", "o", string(colfmt.OutputTable), "output: "+outputList())
	return formattersCommand
}

func init() {
	subcommandFns["formatters"] = NewFormattersCommand
}
