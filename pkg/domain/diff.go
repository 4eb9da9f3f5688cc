package domain

// StateDiff represents the changes between two states.
// It is serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Equation  *string    `json:"equation,omitempty"`
	Result    *string    `json:"result,omitempty"`
	AngleMode *AngleMode `json:"angle_mode,omitempty"`
	Status    *Status    `json:"status,omitempty"`
	Message   *string    `json:"message,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, every field of newState is reported (initial load).
// It returns nil when nothing observable changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: newState.SessionID}

	if oldState == nil || oldState.Equation != newState.Equation {
		diff.Equation = &newState.Equation
	}
	if oldState == nil || oldState.Result != newState.Result {
		diff.Result = &newState.Result
	}
	if oldState == nil || oldState.AngleMode != newState.AngleMode {
		diff.AngleMode = &newState.AngleMode
	}
	if oldState == nil || oldState.Status != newState.Status {
		diff.Status = &newState.Status
	}
	if oldState == nil || oldState.Message != newState.Message {
		diff.Message = &newState.Message
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Equation == nil &&
		d.Result == nil &&
		d.AngleMode == nil &&
		d.Status == nil &&
		d.Message == nil
}
