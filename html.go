package colfmt

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"iter"
)

// writeHTML streams rows into a <table>. Cells are escaped unless they are
// template.HTML, which is how the html sentinels and HTML formatters pass
// markup through.
func writeHTML(w io.Writer, layout Layout, rows iter.Seq2[Row, error]) error {
	lw := &lineWriter{w: w}
	lw.line("<table>")
	if layout.Title != "" {
		lw.line("  <caption>" + html.EscapeString(layout.Title) + "</caption>")
	}
	if len(layout.Header) > 0 {
		lw.line("  <thead>")
		lw.line("    <tr>")
		for i, col := range layout.Header {
			lw.line(htmlTag("th", alignStyle(layout.Alignments, i), html.EscapeString(col)))
		}
		lw.line("    </tr>")
		lw.line("  </thead>")
	}
	lw.line("  <tbody>")
	if lw.err != nil {
		return lw.err
	}

	for row, err := range rows {
		if err != nil {
			return err
		}
		lw.line("    <tr>")
		for i, v := range row {
			lw.line(htmlTag("td", alignStyle(layout.Alignments, i), htmlCell(v)))
		}
		lw.line("    </tr>")
		if lw.err != nil {
			return lw.err
		}
	}

	lw.line("  </tbody>")
	lw.line("</table>")
	return lw.err
}

func htmlTag(tag, style, body string) string {
	return fmt.Sprintf("      <%s%s>%s</%s>", tag, style, body, tag)
}

// htmlCell escapes v unless it is already markup.
func htmlCell(v any) string {
	if h, ok := v.(template.HTML); ok {
		return string(h)
	}
	return html.EscapeString(CellString(v))
}

func alignStyle(aligns []Alignment, col int) string {
	if col >= len(aligns) {
		return ""
	}
	switch aligns[col] {
	case AlignRight:
		return ` style="text-align: right"`
	case AlignCenter:
		return ` style="text-align: center"`
	default:
		return ""
	}
}
