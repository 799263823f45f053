package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverride(t *testing.T) {
	t.Run("administrator grants everything", func(t *testing.T) {
		o := NewOverride(true)

		assert.True(t, o.IsAdministrator())
		assert.True(t, o.Allow(false))
		assert.True(t, o.AllowFunc(func() bool { return false }))
		assert.True(t, o.AllowFunc(nil))
	})

	t.Run("non administrator falls back to decision", func(t *testing.T) {
		o := NewOverride(false)

		assert.False(t, o.IsAdministrator())
		assert.True(t, o.Allow(true))
		assert.False(t, o.Allow(false))
		assert.True(t, o.AllowFunc(func() bool { return true }))
		assert.False(t, o.AllowFunc(nil))
	})

	t.Run("zero value is not administrator", func(t *testing.T) {
		var o Override
		assert.False(t, o.Allow(false))
	})

	t.Run("decision is not evaluated for administrator", func(t *testing.T) {
		called := false
		NewOverride(true).AllowFunc(func() bool {
			called = true
			return false
		})
		assert.False(t, called)
	})
}
