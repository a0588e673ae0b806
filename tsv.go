package colfmt

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

var tsvEscaper = strings.NewReplacer("\t", " ", "\n", " ", "\r", "")

func writeTSV(w io.Writer, layout Layout, rows iter.Seq2[Row, error]) error {
	if len(layout.Header) > 0 {
		if err := writeTSVLine(w, layout.Header); err != nil {
			return err
		}
	}
	for row, err := range rows {
		if err != nil {
			return err
		}
		if err := writeTSVLine(w, rowStrings(row)); err != nil {
			return err
		}
	}
	return nil
}

func writeTSVLine(w io.Writer, cells []string) error {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = tsvEscaper.Replace(c)
	}
	_, err := fmt.Fprintln(w, strings.Join(escaped, "\t"))
	return err
}
