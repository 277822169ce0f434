package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelector_PickIsMemberOfSet(t *testing.T) {
	s := NewSelector(nil, nil)
	for i := 0; i < 50; i++ {
		assert.Contains(t, FallbackMessages, s.Pick())
	}
}

func TestSelector_InjectedSource(t *testing.T) {
	var gotN int
	s := NewSelector([]string{"a", "b", "c"}, func(n int) int {
		gotN = n
		return 2
	})

	assert.Equal(t, "c", s.Pick())
	assert.Equal(t, 3, gotN)
}

func TestSelector_OutOfRangeSourceIsClamped(t *testing.T) {
	s := NewSelector([]string{"a", "b"}, func(int) int { return 7 })
	assert.Equal(t, "a", s.Pick())
}

func TestNewSelector_CopiesMessages(t *testing.T) {
	msgs := []string{"a", "b"}
	s := NewSelector(msgs, func(int) int { return 0 })
	msgs[0] = "changed"
	assert.Equal(t, "a", s.Pick())
}
