package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovanwin/axconfiggen/internal/model"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		input string
		kind  model.ValueKind
		toml  string
		typ   string
	}{
		{"true", model.ValueBool, "true", "bool"},
		{"0", model.ValueInteger, "0", "uint"},
		{"-1", model.ValueInteger, "-1", "int"},
		{"0b1010", model.ValueInteger, "0b1010", "uint"},
		{"0xdead_beef", model.ValueInteger, "0xdead_beef", "uint"},
		{`"0xff"`, model.ValueString, `"0xff"`, "uint"},
		{`"hello, world!"`, model.ValueString, `"hello, world!"`, "str"},
		{`'C:\path'`, model.ValueString, `'C:\path'`, "str"},
		{"[1, 2, 3]", model.ValueArray, "[1, 2, 3]", "[uint]"},
		{`[1, "a", 3]`, model.ValueArray, `[1, "a", 3]`, "(uint, str, uint)"},
		{"[\n  [1, 2], # first\n  [3, 4],\n]", model.ValueArray, "[\n    [1, 2],\n    [3, 4]\n]", "[[uint]]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseLiteral(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.toml, v.TOML())

			typ, err := model.Infer(v)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, typ.String())
		})
	}
}

func TestParseLiteralErrors(t *testing.T) {
	tests := []struct {
		input string
		err   error
	}{
		{"", model.ErrParse},
		{"x86_64", model.ErrParse},
		{"1.5", model.ErrInvalidValue},
		{"1979-05-27", model.ErrInvalidValue},
		{"{ a = 1 }", model.ErrInvalidValue},
		{"[1.5]", model.ErrInvalidValue},
		{"1\nw = 2", model.ErrParse},
		{`"unterminated`, model.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseLiteral(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "получено: %v", err)
		})
	}
}

func TestParseLiteralEscapes(t *testing.T) {
	v, err := ParseLiteral(`"tab\tquote\"end"`)
	require.NoError(t, err)
	assert.Equal(t, "tab\tquote\"end", v.Str)
	assert.Equal(t, `"tab\tquote\"end"`, v.Raw)
}
