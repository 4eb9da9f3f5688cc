package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownKey is returned for labels outside the keypad vocabulary.
var ErrUnknownKey = errors.New("unknown key")

// ErrEmptySessionID is returned by stores and the facade when no session ID is given.
var ErrEmptySessionID = errors.New("session ID cannot be empty")

// Messages shown in the result display.
const (
	MsgError        = "Error"
	MsgInvalidInput = "Invalid input"
	MsgDivideByZero = "Cannot divide by zero"
)

// DomainError reports an operand outside the domain of a unary key (x!, 1/x).
// Message is what the display shows.
type DomainError struct {
	Op      string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
