package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	t.Run("it should add and remove values", func(t *testing.T) {
		// GIVEN
		s := New[string]()

		// WHEN
		s.Add("foo")
		s.Add("bar")
		s.Add("foo")
		s.Remove("bar")

		// THEN
		assert.True(t, s.Contains("foo"))
		assert.False(t, s.Contains("bar"))
		assert.Equal(t, 1, s.Size())
	})

	t.Run("it should be empty once all values are removed", func(t *testing.T) {
		// GIVEN
		s := NewFromSlice([]int{1, 2})

		// WHEN
		s.Remove(1)
		s.Remove(2)

		// THEN
		assert.True(t, s.IsEmpty())
	})
}
