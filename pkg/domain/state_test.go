package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	s := domain.NewState("s1")
	assert.Equal(t, "s1", s.SessionID)
	assert.Equal(t, "", s.Equation)
	assert.Equal(t, "0", s.Result)
	assert.Equal(t, "0", s.LastResult)
	assert.Equal(t, domain.Radians, s.AngleMode)
	assert.False(t, s.ErrorFlag())
}

func TestState_ResetKeepsSessionID(t *testing.T) {
	s := domain.NewState("s1")
	s.Equation = "1÷0"
	s.AngleMode = domain.Degrees
	s.LastResult = "42"
	s.Fail(domain.MsgError)

	s.Reset()
	assert.Equal(t, domain.NewState("s1"), s)
}

func TestState_JSON(t *testing.T) {
	s := domain.NewState("s1")
	s.AngleMode = domain.Degrees

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"angle_mode":"DEG"`)

	var back domain.State
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, domain.Degrees, back.AngleMode)
}

func TestParseAngleMode(t *testing.T) {
	m, err := domain.ParseAngleMode("deg")
	require.NoError(t, err)
	assert.Equal(t, domain.Degrees, m)
	assert.Equal(t, domain.Radians, m.Toggle())

	_, err = domain.ParseAngleMode("grad")
	assert.Error(t, err)
}
