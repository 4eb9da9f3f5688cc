package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 4KB, far more than any keypad line needs.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default.
	EnvMaxInputSize = "ABACUS_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer cleans text typed by humans or sent over the wire before it is
// split into keys. A zero MaxSize falls back to the environment, then to
// DefaultMaxInputSize.
type Sanitizer struct {
	MaxSize int
}

// SanitizeInput is Sanitizer{}.Clean.
func SanitizeInput(input string) (string, error) {
	return Sanitizer{}.Clean(input)
}

// Clean enforces the size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
func (s Sanitizer) Clean(input string) (string, error) {
	limit := s.limit()
	if len(input) > limit {
		// Reject rather than truncate: half a line is a different calculation.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// ESC, NUL, BEL and friends would poison logs and terminals.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func (s Sanitizer) limit() int {
	if s.MaxSize > 0 {
		return s.MaxSize
	}
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
