package domain_test

import (
	"testing"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	t.Run("Initial load reports everything", func(t *testing.T) {
		d := domain.Diff(nil, domain.NewState("s"))
		require.NotNil(t, d)
		assert.Equal(t, "s", d.SessionID)
		assert.NotNil(t, d.Equation)
		assert.NotNil(t, d.Result)
		assert.NotNil(t, d.AngleMode)
	})

	t.Run("No change", func(t *testing.T) {
		s := domain.NewState("s")
		assert.Nil(t, domain.Diff(s, s.Clone()))
	})

	t.Run("Only changed fields", func(t *testing.T) {
		old := domain.NewState("s")
		next := old.Clone()
		next.Equation = "7"
		next.Result = "7"

		d := domain.Diff(old, next)
		require.NotNil(t, d)
		assert.Equal(t, "7", *d.Equation)
		assert.Equal(t, "7", *d.Result)
		assert.Nil(t, d.AngleMode)
		assert.Nil(t, d.Status)
	})

	t.Run("Error transition", func(t *testing.T) {
		old := domain.NewState("s")
		next := old.Clone()
		next.Fail(domain.MsgDivideByZero)

		d := domain.Diff(old, next)
		require.NotNil(t, d)
		assert.Equal(t, domain.StatusError, *d.Status)
		assert.Equal(t, domain.MsgDivideByZero, *d.Message)
	})
}
