// Package source reads raw report rows from CSV, JSON and SQL databases. Every
// source returns a single-use iter.Seq2 whose rows hold one value per
// requested column; a column the input lacks reads as nil.
package source

import (
	"errors"
	"iter"
	"strings"
	"unicode"

	"github.com/bjaus/colfmt"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Sentinel errors for programmatic error handling.
var (
	ErrNoHeader   = errors.New("input has no header")
	ErrNotRecord  = errors.New("record is not an object")
	ErrIdentifier = errors.New("invalid identifier")
)

// Rows is a fallible row stream.
type Rows = iter.Seq2[colfmt.Row, error]

// NormalizeName folds a column name to the key used for matching: lower case,
// accents removed, runs of spaces, dashes and dots collapsed to one
// underscore. "Visit Date" and "visit_date" match.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	var b strings.Builder
	prevUnderscore := false
	for _, r := range s {
		switch {
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			b.WriteRune(r)
			prevUnderscore = false
		}
	}
	return strings.Trim(b.String(), "_")
}

// index maps each requested column to its position in names, or -1.
func index(names, columns []string) []int {
	pos := make(map[string]int, len(names))
	for i, n := range names {
		key := NormalizeName(n)
		if _, ok := pos[key]; !ok {
			pos[key] = i
		}
	}
	out := make([]int, len(columns))
	for i, c := range columns {
		p, ok := pos[NormalizeName(c)]
		if !ok {
			p = -1
		}
		out[i] = p
	}
	return out
}

// Missing returns the requested columns that names does not provide.
func Missing(names, columns []string) []string {
	var out []string
	for i, p := range index(names, columns) {
		if p < 0 {
			out = append(out, columns[i])
		}
	}
	return out
}
