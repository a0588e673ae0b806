package colfmt

import (
	"encoding/csv"
	"io"
	"iter"
)

func writeCSV(w io.Writer, layout Layout, rows iter.Seq2[Row, error]) error {
	cw := csv.NewWriter(w)
	if layout.Delimiter != 0 {
		cw.Comma = layout.Delimiter
	}
	if len(layout.Header) > 0 {
		if err := cw.Write(layout.Header); err != nil {
			return err
		}
	}
	for row, err := range rows {
		if err != nil {
			cw.Flush()
			return err
		}
		if err := cw.Write(rowStrings(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
