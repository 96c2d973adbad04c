package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"max int64", int64(9223372036854775807), "9223372036854775807"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"string slice", []string{"a", "b"}, `["a","b"]`},
		{"string map", map[string]string{"b": "2", "a": "1"}, `{"a":"1","b":"2"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalNestedSortedKeys(t *testing.T) {
	obj := map[string]any{
		"z": map[string]any{
			"b": 1,
			"a": 2,
		},
		"a": []any{"x", int64(3)},
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":["x",3],"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalUTF16Ordering(t *testing.T) {
	// U+10000 encodes as a surrogate pair starting 0xD800, below 0xE000.
	obj := map[string]any{
		"":     1,
		"\U00010000": 2,
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"`+"\U00010000"+`":2,"`+""+`":1}`, string(result))
}

func TestMarshalNoHTMLEscaping(t *testing.T) {
	result, err := Marshal("<a> & <b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a> & <b>"`, string(result))
}

func TestMarshalNFC(t *testing.T) {
	// "e" + combining acute accent composes to U+00E9.
	result, err := Marshal("café")
	require.NoError(t, err)
	assert.Equal(t, "\"café\"", string(result))
}

func TestMarshalLineSeparators(t *testing.T) {
	result, err := Marshal("a b c")
	require.NoError(t, err)
	assert.Equal(t, "\"a b c\"", string(result))

	// An escaped backslash followed by the text u2028 stays as written.
	result, err = Marshal(` `)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(result))
}

func TestMarshalControlCharacters(t *testing.T) {
	result, err := Marshal("line\nbreak\t\"quoted\"")
	require.NoError(t, err)
	assert.Equal(t, `"line\nbreak\t\"quoted\""`, string(result))
}

func TestMarshalRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"null", nil},
		{"float64", 1.5},
		{"float32", float32(2)},
		{"nested float", map[string]any{"a": []any{1, 2.5}}},
		{"nested null", []any{"a", nil}},
		{"unsupported", struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys(map[string]any{"b": 1, "a": 2, "ab": 3})
	assert.Equal(t, []string{"a", "ab", "b"}, keys)
}
