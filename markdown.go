package colfmt

import (
	"io"
	"strings"
)

var markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

// writeMarkdown writes a GitHub flavored pipe table. Columns are at least
// three characters wide so every alignment marker fits.
func writeMarkdown(w io.Writer, layout Layout, rows []Row) error {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = escapeMarkdown(rowStrings(row))
	}
	header := escapeMarkdown(layout.Header)
	n := colCount(header, cells)
	if n == 0 {
		return nil
	}

	widths := computeWidths(n, header, cells)
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}
	aligns := extendAligns(layout.Alignments, n)

	markers := make([]string, n)
	for i, width := range widths {
		markers[i] = alignMarker(aligns[i], width)
	}

	lw := &lineWriter{w: w}
	lw.line(markdownRow(header, widths, aligns))
	lw.line("| " + strings.Join(markers, " | ") + " |")
	for _, row := range cells {
		lw.line(markdownRow(row, widths, aligns))
	}
	return lw.err
}

func alignMarker(a Alignment, width int) string {
	switch a {
	case AlignRight:
		return strings.Repeat("-", width-1) + ":"
	case AlignCenter:
		return ":" + strings.Repeat("-", width-2) + ":"
	default:
		return strings.Repeat("-", width)
	}
}

func markdownRow(cells []string, widths []int, aligns []Alignment) string {
	padded := make([]string, len(widths))
	for i, width := range widths {
		var s string
		if i < len(cells) {
			s = cells[i]
		}
		padded[i] = alignCell(s, width, aligns[i])
	}
	return "| " + strings.Join(padded, " | ") + " |"
}

func escapeMarkdown(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = markdownEscaper.Replace(c)
	}
	return out
}
