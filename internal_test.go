package colfmt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitWords(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input string
		want  string
	}{
		"single":      {input: "Pass", want: "Pass"},
		"camel":       {input: "ConcatStr", want: "Concat Str"},
		"acronym":     {input: "HTMLLink", want: "HTML Link"},
		"trailing":    {input: "LinkHTML", want: "Link HTML"},
		"digit":       {input: "Add2Numbers", want: "Add2 Numbers"},
		"lower start": {input: "splitName", want: "Split Name"},
		"empty":       {input: "", want: ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, splitWords(tt.input))
		})
	}
}

func TestFormatTableCellTruncates(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Al...", formatTableCell("Alice Liddell", 5, AlignLeft))
	assert.Equal(t, "Ali", formatTableCell("Alice", 3, AlignLeft))
	assert.Equal(t, "hi   ", formatTableCell("hi", 5, AlignLeft))
}

func TestAlignCellWide(t *testing.T) {
	t.Parallel()
	// "你" is two columns wide.
	assert.Equal(t, "你  ", alignCell("你", 4, AlignLeft))
	assert.Equal(t, "  你", alignCell("你", 4, AlignRight))
	assert.Equal(t, " 你 ", alignCell("你", 4, AlignCenter))
	assert.Equal(t, "toolong", alignCell("toolong", 3, AlignCenter))
}

func TestRepeatHeader(t *testing.T) {
	t.Parallel()
	header := []string{"a"}
	assert.False(t, repeatHeader(header, 0, 2))
	assert.False(t, repeatHeader(header, 1, 2))
	assert.True(t, repeatHeader(header, 2, 2))
	assert.False(t, repeatHeader(nil, 2, 2))
	assert.False(t, repeatHeader(header, 2, 0))
}

func TestEncodeRow(t *testing.T) {
	t.Parallel()
	data, err := encodeRow([]string{"b", "a"}, Row{1, "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":"x"}`, string(data))

	data, err = encodeRow([]string{"a"}, Row{1, 2})
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))
}

func TestJSONValue(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 3, jsonValue(3))
	assert.Nil(t, jsonValue(nil))
	assert.Equal(t, "[3 4]", jsonValue([]int{3, 4}))
	assert.Equal(t, map[string]any{"k": 1}, jsonValue(map[string]any{"k": 1}))
}

func TestEngineCallClonesValues(t *testing.T) {
	t.Parallel()
	shared := Values{nil, "b"}
	e := &engine{defaults: builtinDefaults()[CSV]}
	c := e.call(func(...any) (any, error) { return shared, nil }, nil)
	require.NoError(t, c.err)
	assert.Equal(t, []any{"", "b"}, c.values)
	assert.Nil(t, shared[0])
}

func TestEngineCallRecoversPanic(t *testing.T) {
	t.Parallel()
	e := &engine{defaults: builtinDefaults()[JSON]}
	c := e.call(func(...any) (any, error) { panic("boom") }, nil)
	require.Error(t, c.err)
	assert.Contains(t, c.err.Error(), "boom")

	errBad := errors.New("bad")
	c = e.call(func(...any) (any, error) { return nil, errBad }, nil)
	assert.ErrorIs(t, c.err, errBad)
}

func TestCommaFloat(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1,234", commaFloat(1234))
	assert.Equal(t, "1,234.5", commaFloat(1234.5))
	assert.Equal(t, "-12,000", commaFloat(-12000))
}
