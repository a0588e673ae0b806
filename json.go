package colfmt

import (
	"bytes"
	"io"
	"iter"

	"github.com/goccy/go-json"
)

// encodeRow encodes row compactly as an object keyed by header when the
// widths match, and as an array otherwise. Keys keep the column order.
func encodeRow(header []string, row Row) ([]byte, error) {
	if len(header) == 0 || len(header) != len(row) {
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = jsonValue(v)
		}
		return json.Marshal(vals)
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range header {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(jsonValue(row[i]))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonValue converts values the encoder cannot represent into their text form.
func jsonValue(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case []any, map[string]any, interface{ MarshalJSON() ([]byte, error) }:
		return v
	default:
		return CellString(v)
	}
}

// writeJSON streams rows as one array. With an indent every element goes on
// its own lines, laid out like json.MarshalIndent.
func writeJSON(w io.Writer, layout Layout, rows iter.Seq2[Row, error]) error {
	open, sep, end := "[", ",", "]\n"
	if layout.Indent != "" {
		open, sep, end = "[\n"+layout.Indent, ",\n"+layout.Indent, "\n]\n"
	}
	first := true
	for row, err := range rows {
		if err != nil {
			return err
		}
		data, err := encodeRow(layout.Header, row)
		if err != nil {
			return err
		}
		if layout.Indent != "" {
			var out bytes.Buffer
			if err := json.Indent(&out, data, layout.Indent, layout.Indent); err != nil {
				return err
			}
			data = out.Bytes()
		}
		lead := sep
		if first {
			lead, first = open, false
		}
		if _, err := io.WriteString(w, lead); err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	if first {
		_, err := io.WriteString(w, "[]\n")
		return err
	}
	_, err := io.WriteString(w, end)
	return err
}
