package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/bjaus/colfmt"
	"github.com/goccy/go-json"
)

// JSON streams rows from r, which holds either a top-level array of objects,
// an object wrapping such an array in one of its fields, or a stream of
// objects (JSONL). Object keys are matched against columns by NormalizeName.
// With no columns, the keys of the first record are used in sorted order.
// Integral numbers decode as int64, others as float64.
func JSON(r io.Reader, columns []string) Rows {
	return func(yield func(colfmt.Row, error) bool) {
		br := bufio.NewReader(r)
		first, err := peekNonSpace(br)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			yield(nil, err)
			return
		}

		if first != '[' && first != '{' {
			yield(nil, fmt.Errorf("%w: input starts with %q", ErrNotRecord, first))
			return
		}

		line := 0
		emit := func(obj map[string]any) bool {
			line++
			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if len(columns) == 0 {
				columns = keys
			}
			row := make(colfmt.Row, len(columns))
			for i, p := range index(keys, columns) {
				if p >= 0 {
					row[i] = jsonValue(obj[keys[p]])
				}
			}
			return yield(row, nil)
		}

		dec := json.NewDecoder(br)
		dec.UseNumber()

		var root any
		if err := dec.Decode(&root); err != nil {
			yield(nil, fmt.Errorf("json: decode: %w", err))
			return
		}
		records, err := recordsOf(root)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, obj := range records {
			if !emit(obj) {
				return
			}
		}
		if first == '[' {
			return
		}

		// A leading object may be the first line of a JSONL stream.
		for {
			var obj map[string]any
			err := dec.Decode(&obj)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("json: record %d: %w", line+1, err))
				return
			}
			if !emit(obj) {
				return
			}
		}
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// recordsOf unwraps the records of a decoded top-level value. An object with
// exactly one array-of-objects field is an envelope; any other object is a
// single record.
func recordsOf(root any) ([]map[string]any, error) {
	switch v := root.(type) {
	case []any:
		return objects(v)
	case map[string]any:
		var envelope []any
		found := 0
		for _, field := range v {
			if arr, ok := field.([]any); ok && len(arr) > 0 {
				if _, ok := arr[0].(map[string]any); ok {
					envelope = arr
					found++
				}
			}
		}
		if found == 1 {
			return objects(envelope)
		}
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotRecord, root)
	}
}

func objects(arr []any) ([]map[string]any, error) {
	out := make([]map[string]any, len(arr))
	for i, elem := range arr {
		obj, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T", ErrNotRecord, i, elem)
		}
		out[i] = obj
	}
	return out, nil
}

func jsonValue(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case []any:
		for i := range n {
			n[i] = jsonValue(n[i])
		}
		return n
	case map[string]any:
		for k := range n {
			n[k] = jsonValue(n[k])
		}
		return n
	default:
		return v
	}
}
