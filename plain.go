package colfmt

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

func writePlain(w io.Writer, rows iter.Seq2[Row, error]) error {
	for row, err := range rows {
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, strings.Join(rowStrings(row), " ")); err != nil {
			return err
		}
	}
	return nil
}
