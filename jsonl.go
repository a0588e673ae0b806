package colfmt

import (
	"io"
	"iter"
)

func writeJSONL(w io.Writer, layout Layout, rows iter.Seq2[Row, error]) error {
	for row, err := range rows {
		if err != nil {
			return err
		}
		data, err := encodeRow(layout.Header, row)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}
