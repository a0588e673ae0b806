package colfmt

import "iter"

// Rows returns a sequence over rows.
func Rows(rows ...Row) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, row := range rows {
			if !yield(row) {
				return
			}
		}
	}
}

// FromChan returns a single-use sequence that drains ch.
func FromChan(ch <-chan Row) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for row := range ch {
			if !yield(row) {
				return
			}
		}
	}
}

// Split separates a fallible source into plain rows and a function that
// reports the error, if any, that ended the rows early. Call the function only
// after the rows are consumed.
func Split(seq iter.Seq2[Row, error]) (iter.Seq[Row], func() error) {
	var srcErr error
	rows := func(yield func(Row) bool) {
		for row, err := range seq {
			if err != nil {
				srcErr = err
				return
			}
			if !yield(row) {
				return
			}
		}
	}
	return rows, func() error { return srcErr }
}
