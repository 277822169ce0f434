package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"MediBot/internal/apperr"
	"MediBot/internal/triage"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

func newService(c Completer) *Service {
	return New(triage.New(triage.MatchSubstring), c, NewSelector(nil, nil))
}

func TestHandle_RejectsEmptyMessage(t *testing.T) {
	completer := new(MockCompleter)
	svc := newService(completer)

	for _, msg := range []string{"", "   ", "\n\t"} {
		_, err := svc.Handle(context.Background(), msg)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	completer.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestHandle_CannedRepliesSkipModel(t *testing.T) {
	tests := []struct {
		msg    string
		reply  string
		source Source
	}{
		{"I want to die", CrisisMessage, SourceCrisis},
		{"my friend is unconscious", EmergencyMessage, SourceEmergency},
		{"I feel so hopeless", DistressMessage, SourceDistress},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			completer := new(MockCompleter)
			svc := newService(completer)

			got, err := svc.Handle(context.Background(), tt.msg)
			require.NoError(t, err)
			assert.Equal(t, Reply{Reply: tt.reply, Source: tt.source}, got)
			completer.AssertNumberOfCalls(t, "Complete", 0)
		})
	}
}

func TestHandle_ModelReply(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("Complete", mock.Anything, "I have a question about diet").Return("Eat more vegetables.", nil)
	svc := newService(completer)

	got, err := svc.Handle(context.Background(), "  I have a question about diet  ")
	require.NoError(t, err)
	assert.Equal(t, Reply{Reply: "Eat more vegetables.", Source: SourceAIModel}, got)
	completer.AssertNumberOfCalls(t, "Complete", 1)
}

func TestHandle_RepeatedCallsAreStable(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("Complete", mock.Anything, "How much water should I drink?").Return("About 2 litres a day.", nil)
	svc := newService(completer)

	first, err := svc.Handle(context.Background(), "How much water should I drink?")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.Handle(context.Background(), "How much water should I drink?")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestHandle_FallbackOnModelFailure(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
	}{
		{"provider error", "", apperr.Wrap(apperr.KindProvider, "chat.complete", "request failed", errors.New("timeout"))},
		{"empty text", "", nil},
		{"whitespace text", "  \n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(MockCompleter)
			completer.On("Complete", mock.Anything, mock.Anything).Return(tt.text, tt.err)
			svc := newService(completer)

			got, err := svc.Handle(context.Background(), "Is coffee bad for me?")
			require.NoError(t, err)
			assert.Equal(t, SourceFallback, got.Source)
			assert.Contains(t, FallbackMessages, got.Reply)
		})
	}
}

func TestHandle_DisabledProviderFallsBack(t *testing.T) {
	svc := New(nil, nil, NewSelector(nil, func(int) int { return 1 }))

	got, err := svc.Handle(context.Background(), "Tips for better sleep?")
	require.NoError(t, err)
	assert.Equal(t, Reply{Reply: FallbackMessages[1], Source: SourceFallback}, got)
}
