package colfmt

import (
	"fmt"
	"io"
	"iter"
	"text/template"
)

func writeGoTemplate(w io.Writer, tmplStr string, layout Layout, rows iter.Seq2[Row, error]) error {
	header := layout.Header
	funcs := template.FuncMap{
		"col": func(i int) string {
			if i < 0 || i >= len(header) {
				return ""
			}
			return header[i]
		},
		"cell": CellString,
	}
	tmpl, err := template.New("").Funcs(funcs).Parse(tmplStr)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	for row, err := range rows {
		if err != nil {
			return err
		}
		if err := tmpl.Execute(w, row); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
