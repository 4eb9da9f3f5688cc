package runner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeInput(strings.Repeat("1", tt.inputSize))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeInput_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Keypad Text", "sin⁻¹(0.5)×π", "sin⁻¹(0.5)×π"},
		{"Safe Controls", "1+2\n3\t4\r", "1+2\n3\t4\r"},
		{"ANSI Code", "\x1b[31m7\x1b[0m", "[31m7[0m"},
		{"Null Byte", "1\x00+2", "1+2"},
		{"Bell", "9\x07", "9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeInput(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeInput_InvalidUTF8(t *testing.T) {
	_, err := SanitizeInput("1+\xff")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestSanitizeInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	_, err := SanitizeInput("12345678901")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	_, err = SanitizeInput("12345")
	assert.NoError(t, err)
}

func TestSanitizer_ExplicitLimitWins(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "100")

	s := Sanitizer{MaxSize: 3}
	_, err := s.Clean("1234")
	assert.ErrorIs(t, err, ErrInputTooLarge)

	got, err := s.Clean("123")
	require.NoError(t, err)
	assert.Equal(t, "123", got)
}
