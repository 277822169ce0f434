package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "error with cause",
			err:      Wrap(KindProvider, "chat.complete", "request failed", errors.New("connection refused")),
			contains: []string{"[provider:chat.complete]", "request failed", "connection refused"},
		},
		{
			name:     "error without cause",
			err:      New(KindValidation, "chat.handle", "Empty message"),
			contains: []string{"[validation:chat.handle]", "Empty message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, substr := range tt.contains {
				assert.Contains(t, msg, substr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil error stays nil", func(t *testing.T) {
		assert.Nil(t, Wrap(KindProvider, "op", "msg", nil))
	})

	t.Run("unwraps to cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		assert.ErrorIs(t, Wrap(KindProvider, "op", "msg", cause), cause)
	})

	t.Run("keeps innermost kind", func(t *testing.T) {
		inner := New(KindValidation, "inner", "bad input")
		outer := Wrap(KindProvider, "outer", "wrapped", fmt.Errorf("context: %w", inner))
		assert.Equal(t, KindValidation, outer.Kind)
	})
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{"direct match", New(KindConfig, "op", "msg"), KindConfig, true},
		{"wrapped match", fmt.Errorf("outer: %w", Wrap(KindProvider, "op", "msg", errors.New("x"))), KindProvider, true},
		{"mismatch", New(KindConfig, "op", "msg"), KindProvider, false},
		{"plain error", errors.New("plain"), KindInternal, false},
		{"nil", nil, KindInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsKind(tt.err, tt.kind))
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindProvider, KindOf(New(KindProvider, "op", "msg")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}
