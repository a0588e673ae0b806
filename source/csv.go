package source

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/bjaus/colfmt"
)

// CSVOptions configures CSV decoding.
type CSVOptions struct {
	// Delimiter separates fields. Default: comma.
	Delimiter rune
	// Infer converts cells that look like integers, floats or booleans.
	Infer bool
	// OnHeader, when set, receives the header as read.
	OnHeader func(header []string)
}

// CSV streams rows from r. The first record is the header; columns are matched
// against it by NormalizeName. With no columns, every header column is read in
// order. Empty cells and absent columns read as nil.
func CSV(r io.Reader, columns []string, opts CSVOptions) Rows {
	return func(yield func(colfmt.Row, error) bool) {
		cr := csv.NewReader(r)
		if opts.Delimiter != 0 {
			cr.Comma = opts.Delimiter
		}
		cr.FieldsPerRecord = -1
		cr.ReuseRecord = true

		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			yield(nil, ErrNoHeader)
			return
		}
		if err != nil {
			yield(nil, err)
			return
		}
		header = stripUTF8BOM(append([]string(nil), header...))
		if opts.OnHeader != nil {
			opts.OnHeader(header)
		}
		if len(columns) == 0 {
			columns = header
		}
		idx := index(header, columns)

		for {
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			row := make(colfmt.Row, len(idx))
			for i, p := range idx {
				if p < 0 || p >= len(rec) || rec[p] == "" {
					continue
				}
				if opts.Infer {
					row[i] = infer(rec[p])
				} else {
					row[i] = rec[p]
				}
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

// stripUTF8BOM removes a UTF-8 BOM from the first header field if present.
func stripUTF8BOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	return header
}

func infer(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strings.ContainsAny(s, "0123456789") {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
