package colfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// tableFrame holds the characters a bordered table is drawn with: the
// top, middle and bottom rules each have a left, a joint and a right piece.
type tableFrame struct {
	h, v       string
	tl, tm, tr string
	ml, mm, mr string
	bl, bm, br string
}

var frames = map[BorderStyle]tableFrame{
	BorderRounded: {h: "─", v: "│", tl: "╭", tm: "┬", tr: "╮", ml: "├", mm: "┼", mr: "┤", bl: "╰", bm: "┴", br: "╯"},
	BorderASCII:   {h: "-", v: "|", tl: "+", tm: "+", tr: "+", ml: "+", mm: "+", mr: "+", bl: "+", bm: "+", br: "+"},
	BorderHeavy:   {h: "━", v: "┃", tl: "┏", tm: "┳", tr: "┓", ml: "┣", mm: "╋", mr: "┫", bl: "┗", bm: "┻", br: "┛"},
	BorderDouble:  {h: "═", v: "║", tl: "╔", tm: "╦", tr: "╗", ml: "╠", mm: "╬", mr: "╣", bl: "╚", bm: "╩", br: "╝"},
}

// lineWriter writes lines until the first error and keeps it.
type lineWriter struct {
	w   io.Writer
	err error
}

func (lw *lineWriter) line(s string) {
	if lw.err == nil {
		_, lw.err = fmt.Fprintln(lw.w, s)
	}
}

// tableGrid is a table of text cells with its column widths resolved.
type tableGrid struct {
	header []string
	rows   [][]string
	widths []int
	aligns []Alignment
}

func newTableGrid(layout Layout, items []Row) *tableGrid {
	g := &tableGrid{
		header: layout.Header,
		rows:   make([][]string, len(items)),
		aligns: layout.Alignments,
	}
	for i, item := range items {
		g.rows[i] = rowStrings(item)
	}

	limits := layout.MaxWidths
	if layout.NumberHeader != "" {
		if len(g.header) > 0 {
			g.header = append([]string{layout.NumberHeader}, g.header...)
		}
		for i, row := range g.rows {
			g.rows[i] = append([]string{strconv.Itoa(i + 1)}, row...)
		}
		g.aligns = append([]Alignment{AlignRight}, g.aligns...)
		if len(limits) > 0 {
			limits = append([]int{0}, limits...)
		}
	}

	n := colCount(g.header, g.rows)
	g.widths = computeWidths(n, g.header, g.rows)
	for i, limit := range limits {
		if i < n && limit > 0 && g.widths[i] > limit {
			g.widths[i] = limit
		}
	}
	g.aligns = extendAligns(g.aligns, n)
	return g
}

func writeTable(w io.Writer, layout Layout, items []Row) error {
	g := newTableGrid(layout, items)
	if len(g.widths) == 0 {
		return nil
	}
	lw := &lineWriter{w: w}
	if layout.Border == BorderNone {
		g.paintPlain(lw, layout.PageSize)
	} else {
		g.paintFramed(lw, layout.Title, layout.Border, layout.PageSize)
	}
	if layout.Caption != "" {
		lw.line(layout.Caption)
	}
	return lw.err
}

// cells truncates and pads row to the grid's widths.
func (g *tableGrid) cells(row []string) []string {
	out := make([]string, len(g.widths))
	for i, width := range g.widths {
		var s string
		if i < len(row) {
			s = row[i]
		}
		out[i] = formatTableCell(s, width, g.aligns[i])
	}
	return out
}

// body writes the header and the rows, repeating the header between rules
// every pageSize rows.
func (g *tableGrid) body(lw *lineWriter, pageSize int, rule string, format func([]string) string) {
	if len(g.header) > 0 {
		lw.line(format(g.header))
		lw.line(rule)
	}
	for i, row := range g.rows {
		if repeatHeader(g.header, i, pageSize) {
			lw.line(rule)
			lw.line(format(g.header))
			lw.line(rule)
		}
		lw.line(format(row))
	}
}

func (g *tableGrid) paintPlain(lw *lineWriter, pageSize int) {
	dashes := make([]string, len(g.widths))
	for i, width := range g.widths {
		dashes[i] = strings.Repeat("-", width)
	}
	g.body(lw, pageSize, strings.Join(dashes, "  "), func(row []string) string {
		return strings.TrimRight(strings.Join(g.cells(row), "  "), " ")
	})
}

func (g *tableGrid) paintFramed(lw *lineWriter, title string, style BorderStyle, pageSize int) {
	f, ok := frames[style]
	if !ok {
		f = frames[BorderRounded]
	}
	if title != "" {
		lw.line(g.rule(f.tl, f.h, f.h, f.tr))
		lw.line(f.v + " " + alignCell(title, g.innerWidth()-2, AlignCenter) + " " + f.v)
		lw.line(g.rule(f.ml, f.h, f.tm, f.mr))
	} else {
		lw.line(g.rule(f.tl, f.h, f.tm, f.tr))
	}
	sep := " " + f.v + " "
	g.body(lw, pageSize, g.rule(f.ml, f.h, f.mm, f.mr), func(row []string) string {
		return f.v + " " + strings.Join(g.cells(row), sep) + " " + f.v
	})
	lw.line(g.rule(f.bl, f.h, f.bm, f.br))
}

// rule draws a horizontal line across every column, one cell of padding on
// each side.
func (g *tableGrid) rule(left, fill, joint, right string) string {
	segments := make([]string, len(g.widths))
	for i, width := range g.widths {
		segments[i] = strings.Repeat(fill, width+2)
	}
	return left + strings.Join(segments, joint) + right
}

// innerWidth is the width between the outer borders of a framed table.
func (g *tableGrid) innerWidth() int {
	n := len(g.widths) - 1
	for _, width := range g.widths {
		n += width + 2
	}
	return n
}

func colCount(header []string, rows [][]string) int {
	n := len(header)
	for _, row := range rows {
		n = max(n, len(row))
	}
	return n
}

func computeWidths(n int, header []string, rows [][]string) []int {
	widths := make([]int, n)
	measure := func(cells []string) {
		for i, c := range cells {
			if i < n {
				widths[i] = max(widths[i], runewidth.StringWidth(c))
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}
	return widths
}

func extendAligns(aligns []Alignment, n int) []Alignment {
	if len(aligns) >= n {
		return aligns[:n]
	}
	extended := make([]Alignment, n)
	copy(extended, aligns)
	return extended
}

// repeatHeader reports whether the header is re-printed before row i.
func repeatHeader(header []string, i, pageSize int) bool {
	return pageSize > 0 && len(header) > 0 && i > 0 && i%pageSize == 0
}

// formatTableCell truncates s to width, ending in "..." when there is room
// for it, and pads it to width.
func formatTableCell(s string, width int, align Alignment) string {
	if width > 0 && runewidth.StringWidth(s) > width {
		tail := "..."
		if width <= len(tail) {
			tail = ""
		}
		s = runewidth.Truncate(s, width, tail)
	}
	return alignCell(s, width, align)
}

func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	var left int
	switch align {
	case AlignRight:
		left = pad
	case AlignCenter:
		left = pad / 2
	}
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
