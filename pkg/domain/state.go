package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// AngleMode selects how trigonometric functions interpret their arguments.
type AngleMode int

const (
	Radians AngleMode = iota
	Degrees
)

// String returns the short label shown next to the display ("RAD" or "DEG").
func (m AngleMode) String() string {
	if m == Degrees {
		return "DEG"
	}
	return "RAD"
}

// Toggle returns the other mode.
func (m AngleMode) Toggle() AngleMode {
	if m == Degrees {
		return Radians
	}
	return Degrees
}

// ParseAngleMode accepts "RAD"/"DEG" as well as the long names, case-insensitively.
func ParseAngleMode(s string) (AngleMode, error) {
	switch s {
	case "RAD", "rad", "RADIANS", "radians", "":
		return Radians, nil
	case "DEG", "deg", "DEGREES", "degrees":
		return Degrees, nil
	}
	return Radians, fmt.Errorf("invalid angle mode %q", s)
}

func (m AngleMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *AngleMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	mode, err := ParseAngleMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Status tells whether the session is showing a regular value or an error message.
type Status string

const (
	StatusNormal Status = "normal"
	StatusError  Status = "error"
)

// Initial display values.
const (
	InitialResult     = "0"
	InitialLastResult = "0"
)

// State is the snapshot of one calculator session.
type State struct {
	SessionID string `json:"session_id"`

	// Equation is the text the user has composed.
	Equation string `json:"equation"`

	// Result is the live preview, the final value or an error message.
	Result string `json:"result"`

	AngleMode  AngleMode `json:"angle_mode"`
	LastResult string    `json:"last_result"`
	Status     Status    `json:"status"`

	// Message repeats the user-facing error text while Status is StatusError.
	Message string `json:"message,omitempty"`

	// Sealed holds an encrypted snapshot of the real state. Only envelopes
	// written by an encrypting store carry it.
	Sealed string `json:"sealed,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a cleared session.
func NewState(sessionID string) *State {
	return &State{
		SessionID:  sessionID,
		Result:     InitialResult,
		AngleMode:  Radians,
		LastResult: InitialLastResult,
		Status:     StatusNormal,
	}
}

// Reset clears every field back to its initial value, keeping the session ID.
func (s *State) Reset() {
	*s = State{
		SessionID:  s.SessionID,
		Result:     InitialResult,
		AngleMode:  Radians,
		LastResult: InitialLastResult,
		Status:     StatusNormal,
		UpdatedAt:  s.UpdatedAt,
	}
}

// ErrorFlag reports whether the session is in the Error state.
func (s *State) ErrorFlag() bool {
	return s.Status == StatusError
}

// Fail moves the session into the Error state with the given display message.
func (s *State) Fail(message string) {
	s.Result = message
	s.Message = message
	s.Status = StatusError
}

// Recover leaves the Error state without touching the display.
func (s *State) Recover() {
	s.Status = StatusNormal
	s.Message = ""
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
