// Package colfmt formats tabular query results column by column and renders
// them in multiple output formats.
//
// A [Library] holds named formatters. The engine cuts every row into
// consecutive groups of columns, one group per [Instruction], hands each group
// to the instruction's formatter and concatenates the results:
//
//	lib := colfmt.New(colfmt.WithBuiltins())
//	lib.MustRegister(AddFormatter{})
//
//	rows, err := lib.Format(colfmt.Rows(raw...), []colfmt.Instruction{
//		{Formatter: "Add", Arity: 2},
//		{Formatter: "Pass", Arity: 1},
//		{Formatter: "Remove", Arity: 2},
//	}, colfmt.CSV)
//
// # Formatters
//
// A formatter embeds [Base] and implements one method per format it supports:
//
//   - [CSVFormatter] → plain text outputs (csv, tsv, table, markdown, plain)
//   - [HTMLFormatter] → html
//   - [JSONFormatter] → json, jsonl, yaml
//
// Implement [Named] to choose the registry name. Without it the name is
// derived from the type: ConcatStrFormatter is registered as "Concat Str".
// Return [Values] to produce several output columns, or an empty Values to
// produce none.
//
// The built-in formatters are Pass, Remove, Concat and Comma.
//
// # Sentinels
//
// Each format carries [Defaults]. A formatter that fails on a group of cells
// contributes the format's Error sentinel in place of its output and the row
// carries on; use [Strict] to stop instead. Nil output values are replaced by
// the Null sentinel for formats that declare one (csv and html).
//
// # Rendering
//
// [Render] writes formatted rows as CSV, TSV, HTML, JSON, JSONL, YAML, Table,
// Markdown, Plain or a [GoTemplate]. [Output.Format] names the formatter
// format whose values an output expects.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrRegister]: value is not a formatter or has no format methods
//   - [ErrAlreadyRegistered]: name bound to a different type
//   - [ErrNotRegistered]: instruction names an unknown formatter
//   - [ErrFormat], [ErrArityMismatch]: row-level failures, see [FormatError]
//   - [ErrUnsupportedFormat], [ErrUnsupportedOutput], [ErrInvalidTemplate]
package colfmt
