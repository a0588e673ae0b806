package catalog_test

import (
	"testing"

	"github.com/bjaus/colfmt"
	"github.com/bjaus/colfmt/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	t.Parallel()
	c := loadClinic(t)
	tests := map[string]struct {
		perspective  string
		format       colfmt.Format
		instructions []colfmt.Instruction
		header       []string
		columns      []string
	}{
		"roster csv": {
			perspective: "roster",
			format:      colfmt.CSV,
			instructions: []colfmt.Instruction{
				{Formatter: "Concat", Arity: 2},
				{Formatter: "Remove", Arity: 1},
				{Formatter: "Comma", Arity: 1},
			},
			header:  []string{"Full Name", "Charge"},
			columns: []string{"first_name", "last_name", "mrn", "charge"},
		},
		"roster json": {
			perspective: "roster",
			format:      colfmt.JSON,
			instructions: []colfmt.Instruction{
				{Formatter: "Concat", Arity: 2},
				{Formatter: "Pass", Arity: 1},
				{Formatter: "Pass", Arity: 1},
			},
			header:  []string{"Full Name", "MRN", "Charge"},
			columns: []string{"first_name", "last_name", "mrn", "charge"},
		},
		"visits labels and fan-out": {
			perspective: "visits",
			format:      colfmt.HTML,
			instructions: []colfmt.Instruction{
				{Formatter: "Pass", Arity: 2},
				{Formatter: "Pass", Arity: 2},
			},
			header:  []string{"Given", "Family", "Visit Date", "Charge"},
			columns: []string{"first_name", "last_name", "visit_date", "charge"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			plan, err := c.Compile(tt.perspective, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.format, plan.Format)
			assert.Equal(t, tt.instructions, plan.Instructions)
			assert.Equal(t, tt.header, plan.Header)
			assert.Equal(t, tt.columns, plan.Columns())
			assert.Equal(t, len(tt.columns), plan.Width())
		})
	}
}

func TestCompileSort(t *testing.T) {
	t.Parallel()
	c := loadClinic(t)
	plan, err := c.Compile("roster", colfmt.CSV)
	require.NoError(t, err)
	require.Len(t, plan.Sort, 3)
	assert.Equal(t, "first_name", plan.Sort[0].Field.Column)
	assert.False(t, plan.Sort[0].Descending)
	assert.Equal(t, "last_name", plan.Sort[1].Field.Column)
	assert.Equal(t, "charge", plan.Sort[2].Field.Column)
	assert.True(t, plan.Sort[2].Descending)

	plan, err = c.Compile("visits", colfmt.CSV)
	require.NoError(t, err)
	assert.Empty(t, plan.Sort)
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()
	c := loadClinic(t)

	_, err := c.Compile("missing", colfmt.CSV)
	require.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = c.Compile("roster", colfmt.Format("xml"))
	require.ErrorIs(t, err, colfmt.ErrUnsupportedFormat)
}

func sharedColumnCatalog(doctorColumn string) *catalog.Catalog {
	return &catalog.Catalog{
		Fields: []catalog.Field{
			{App: "a", Model: "patient", Column: "name"},
			{App: "a", Model: "doctor", Column: doctorColumn},
		},
		Concepts: []catalog.Concept{
			{ID: "patient", Fields: []string{"a.patient.name"}},
			{ID: "doctor", Fields: []string{"a.doctor." + doctorColumn}},
			{ID: "patient_again", Fields: []string{"a.patient.name"}},
		},
		Perspectives: []catalog.Perspective{
			{Name: "care", Columns: []catalog.Column{{Concept: "patient"}, {Concept: "doctor"}}},
			{Name: "repeat", Columns: []catalog.Column{{Concept: "patient"}, {Concept: "patient_again"}}},
		},
	}
}

func TestSharedSourceColumn(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"same column":       "name",
		"normalized column": "Name",
	}
	for name, column := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := sharedColumnCatalog(column)
			err := c.Validate()
			require.ErrorIs(t, err, catalog.ErrInvalid)
			assert.ErrorContains(t, err, `perspective "care"`)
			assert.ErrorContains(t, err, `"a.patient.name" and "a.doctor.`+column+`"`)
			assert.NotContains(t, err.Error(), `perspective "repeat"`)

			_, err = c.Compile("care", colfmt.CSV)
			require.ErrorIs(t, err, catalog.ErrInvalid)

			plan, err := c.Compile("repeat", colfmt.CSV)
			require.NoError(t, err)
			assert.Equal(t, []string{"name", "name"}, plan.Columns())
		})
	}
}

func TestCheckFormatters(t *testing.T) {
	t.Parallel()
	c := loadClinic(t)

	lib := colfmt.New(colfmt.WithBuiltins())
	for _, f := range colfmt.Formats() {
		assert.NoError(t, c.CheckFormatters(lib, "", f), f)
	}

	empty := colfmt.New()
	err := c.CheckFormatters(empty, "roster", colfmt.CSV)
	require.ErrorIs(t, err, colfmt.ErrNotRegistered)
	assert.Contains(t, err.Error(), `concept "full_name" uses "Concat"`)
	assert.Contains(t, err.Error(), `concept "charge" uses "Comma"`)

	err = c.CheckFormatters(lib, "missing", colfmt.CSV)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCompiledPlanFormatsRows(t *testing.T) {
	t.Parallel()
	c := loadClinic(t)
	lib := colfmt.New(colfmt.WithBuiltins())

	plan, err := c.Compile("roster", colfmt.CSV)
	require.NoError(t, err)
	rows, err := lib.FormatAll([]colfmt.Row{
		{"Ada", "Lovelace", "M-1", 1815},
		{"Alan", nil, "M-2", 1912000},
	}, plan.Instructions, plan.Format)
	require.NoError(t, err)
	assert.Equal(t, []colfmt.Row{
		{"Ada Lovelace", "1,815"},
		{"Alan", "1,912,000"},
	}, rows)
	for _, row := range rows {
		assert.Len(t, row, len(plan.Header))
	}
}
