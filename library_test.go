package colfmt_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bjaus/colfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Test formatters ---

type ConcatStrFormatter struct{ colfmt.Base }

func (ConcatStrFormatter) CSV(args ...any) (any, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, " "), nil
}

func sum(args []any) (any, error) {
	ints, floats, isFloat := 0, 0.0, false
	for _, a := range args {
		switch v := a.(type) {
		case int:
			ints += v
		case float64:
			floats += v
			isFloat = true
		default:
			return nil, fmt.Errorf("cannot add %T", a)
		}
	}
	if isFloat {
		return float64(ints) + floats, nil
	}
	return ints, nil
}

type add struct{ colfmt.Base }

func (add) Name() string                 { return "Add Numbers" }
func (add) CSV(args ...any) (any, error) { return sum(args) }

type add2 struct{ colfmt.Base }

func (add2) Name() string                  { return "Add Numbers" }
func (add2) CSV(args ...any) (any, error)  { return sum(args) }
func (add2) HTML(args ...any) (any, error) { return sum(args) }

type AddOneFormatter struct{ colfmt.Base }

// CSV panics on anything but an int; the engine recovers.
func (AddOneFormatter) CSV(args ...any) (any, error) {
	return args[0].(int) + 1, nil
}

type HTMLLinkFormatter struct{ colfmt.Base }

func (HTMLLinkFormatter) HTML(args ...any) (any, error) { return args[0], nil }

type splitFormatter struct{ colfmt.Base }

func (splitFormatter) Name() string { return "Split" }

func (splitFormatter) JSON(args ...any) (any, error) {
	s, ok := args[0].(string)
	if !ok {
		return nil, errors.New("not a string")
	}
	first, last, _ := strings.Cut(s, " ")
	return colfmt.Values{first, last}, nil
}

type BadConcatFormatter struct{}

func (BadConcatFormatter) CSV(args ...any) (any, error) { return fmt.Sprint(args...), nil }

type EmptyFormatter struct{ colfmt.Base }

// --- Helpers ---

func setupLibrary(t *testing.T, opts ...colfmt.Option) *colfmt.Library {
	t.Helper()
	lib := colfmt.New(opts...)
	require.NoError(t, lib.Register(ConcatStrFormatter{}))
	require.NoError(t, lib.Register(add{}))
	// Same type again replaces the registration.
	require.NoError(t, lib.Register(add{}))

	err := lib.Register(add2{})
	require.ErrorIs(t, err, colfmt.ErrAlreadyRegistered)
	return lib
}

// ============================================================
// Tests
// ============================================================

func TestNewLibraryHasNoFormatters(t *testing.T) {
	t.Parallel()
	lib := colfmt.New()
	tests := map[string]struct {
		format colfmt.Format
		want   colfmt.Defaults
	}{
		"csv": {
			format: colfmt.CSV,
			want:   colfmt.Defaults{Null: "", HasNull: true, Error: "[data format error]"},
		},
		"html": {
			format: colfmt.HTML,
			want: colfmt.Defaults{
				Null:    colfmt.HTMLNull,
				HasNull: true,
				Error:   colfmt.HTMLError,
			},
		},
		"json": {
			format: colfmt.JSON,
			want:   colfmt.Defaults{Error: "[data format error]"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Empty(t, lib.Names(tt.format))
			assert.Empty(t, lib.Choices(tt.format))
			got, ok := lib.Defaults(tt.format)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, `<span class="lg ht">(no data)</span>`, string(colfmt.HTMLNull))
	assert.Equal(t, `<span class="data-format-error">[data format error]</span>`, string(colfmt.HTMLError))
}

func TestRegisterRejectsInvalid(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		value any
	}{
		"no base":       {value: BadConcatFormatter{}},
		"no operations": {value: EmptyFormatter{}},
		"nil":           {value: nil},
		"not a struct":  {value: "Pass"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			lib := colfmt.New()
			err := lib.Register(tt.value)
			require.ErrorIs(t, err, colfmt.ErrRegister)
			for _, f := range colfmt.Formats() {
				assert.Empty(t, lib.Names(f))
			}
		})
	}
}

func TestMustRegisterPanics(t *testing.T) {
	t.Parallel()
	lib := colfmt.New()
	assert.Panics(t, func() { lib.MustRegister(BadConcatFormatter{}) })
	assert.NotPanics(t, func() { lib.MustRegister(ConcatStrFormatter{}) })
}

func TestRegisterIsIdempotent(t *testing.T) {
	t.Parallel()
	lib := colfmt.New()
	require.NoError(t, lib.Register(add{}))
	require.NoError(t, lib.Register(add{}))
	assert.Equal(t, []string{"Add Numbers"}, lib.Names(colfmt.CSV))
	assert.True(t, lib.Has("Add Numbers", colfmt.CSV))
}

func TestRegisterCollisionKeepsOriginal(t *testing.T) {
	t.Parallel()
	lib := colfmt.New()
	require.NoError(t, lib.Register(add{}))

	err := lib.Register(add2{})
	require.ErrorIs(t, err, colfmt.ErrAlreadyRegistered)
	assert.Contains(t, err.Error(), "Add Numbers")

	// add2 also implements HTML; the failed registration must not leak it.
	assert.Equal(t, []colfmt.Format{colfmt.CSV}, lib.Operations("Add Numbers"))
	assert.Empty(t, lib.Names(colfmt.HTML))
}

func TestChoicesSorted(t *testing.T) {
	t.Parallel()
	lib := setupLibrary(t)
	assert.Equal(t, []colfmt.Choice{
		{Value: "Add Numbers", Label: "Add Numbers"},
		{Value: "Concat Str", Label: "Concat Str"},
	}, lib.Choices(colfmt.CSV))
	assert.Nil(t, lib.Choices("xml"))
	assert.Empty(t, lib.Choices(colfmt.HTML))
}

func TestOperations(t *testing.T) {
	t.Parallel()
	lib := colfmt.New(colfmt.WithBuiltins())
	require.NoError(t, lib.Register(HTMLLinkFormatter{}))
	require.NoError(t, lib.Register(splitFormatter{}))

	assert.Equal(t, colfmt.Formats(), lib.Operations("Pass"))
	assert.Equal(t, []colfmt.Format{colfmt.HTML}, lib.Operations("HTML Link"))
	assert.Equal(t, []colfmt.Format{colfmt.JSON}, lib.Operations("Split"))
	assert.Nil(t, lib.Operations("Missing"))
}

func TestWithBuiltins(t *testing.T) {
	t.Parallel()
	lib := colfmt.New(colfmt.WithBuiltins())
	for _, f := range colfmt.Formats() {
		assert.Equal(t, []string{"Comma", "Concat", "Pass", "Remove"}, lib.Names(f), f)
	}
}

func TestWithDefaults(t *testing.T) {
	t.Parallel()
	lib := colfmt.New(colfmt.WithDefaults(colfmt.JSON, colfmt.Defaults{Null: "n/a", HasNull: true, Error: "!"}))
	got, ok := lib.Defaults(colfmt.JSON)
	require.True(t, ok)
	assert.Equal(t, "!", got.Error)

	assert.Panics(t, func() {
		colfmt.New(colfmt.WithDefaults("xml", colfmt.Defaults{}))
	})
	_, ok = lib.Defaults("xml")
	assert.False(t, ok)
}

func TestNameOf(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		value any
		want  string
	}{
		"camel case":   {value: ConcatStrFormatter{}, want: "Concat Str"},
		"acronym":      {value: HTMLLinkFormatter{}, want: "HTML Link"},
		"pointer":      {value: &AddOneFormatter{}, want: "Add One"},
		"named":        {value: add{}, want: "Add Numbers"},
		"builtin pass": {value: colfmt.PassFormatter{}, want: "Pass"},
		"anonymous":    {value: struct{ colfmt.Base }{}, want: ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, colfmt.NameOf(tt.value))
		})
	}
}

func TestImplements(t *testing.T) {
	t.Parallel()
	assert.True(t, colfmt.Implements(add{}, colfmt.CSV))
	assert.False(t, colfmt.Implements(add{}, colfmt.HTML))
	assert.True(t, colfmt.Implements(add2{}, colfmt.HTML))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input   string
		want    colfmt.Format
		wantErr require.ErrorAssertionFunc
	}{
		"csv":     {input: "csv", want: colfmt.CSV, wantErr: require.NoError},
		"html":    {input: "html", want: colfmt.HTML, wantErr: require.NoError},
		"json":    {input: "json", want: colfmt.JSON, wantErr: require.NoError},
		"unknown": {input: "xml", want: "", wantErr: require.Error},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := colfmt.ParseFormat(tt.input)
			tt.wantErr(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormats(t *testing.T) {
	t.Parallel()
	got := colfmt.Formats()
	assert.Equal(t, []colfmt.Format{colfmt.CSV, colfmt.HTML, colfmt.JSON}, got)
	// Returned slice must be a copy.
	got[0] = "modified"
	assert.Equal(t, colfmt.CSV, colfmt.Formats()[0])
	assert.Equal(t, "csv", colfmt.CSV.String())
}
