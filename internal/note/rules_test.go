package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulebook_Default(t *testing.T) {
	rb := DefaultRulebook()
	require.Greater(t, rb.Len(), 0)

	first, err := rb.Rule(1)
	require.NoError(t, err)
	assert.Equal(t, "The human whose name is written in this note shall die.", first)

	last, err := rb.Rule(rb.Len())
	require.NoError(t, err)
	assert.NotEmpty(t, last)
}

func TestRulebook_DefaultIsIsolated(t *testing.T) {
	a := DefaultRulebook()
	rules := a.Rules()
	rules[0] = "tampered"

	first, err := DefaultRulebook().Rule(1)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", first)

	first, err = a.Rule(1)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", first)
}

func TestNewRulebook(t *testing.T) {
	tests := []struct {
		name    string
		rules   []string
		wantErr bool
	}{
		{"single rule", []string{"a"}, false},
		{"several rules", []string{"a", "b", "c"}, false},
		{"empty", nil, true},
		{"blank rule", []string{"a", "   "}, true},
		{"empty rule", []string{""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb, err := NewRulebook(tt.rules...)
			if tt.wantErr {
				assert.True(t, IsInvalidArgument(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rules, rb.Rules())
		})
	}
}

func TestNewRulebook_CopiesInput(t *testing.T) {
	in := []string{"a", "b"}
	rb, err := NewRulebook(in...)
	require.NoError(t, err)

	in[0] = "changed"
	rule, err := rb.Rule(1)
	require.NoError(t, err)
	assert.Equal(t, "a", rule)
}

func TestRulebook_RuleRange(t *testing.T) {
	rb, err := NewRulebook("one", "two")
	require.NoError(t, err)

	for _, index := range []int{-5, 0, 3} {
		_, err := rb.Rule(index)
		assert.True(t, IsInvalidArgument(err), "index %d: got %v", index, err)
	}

	rule, err := rb.Rule(2)
	require.NoError(t, err)
	assert.Equal(t, "two", rule)
}
