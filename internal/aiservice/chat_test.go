package aiservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MediBot/internal/apperr"
)

func TestNewChatClient_RequiresAPIKey(t *testing.T) {
	_, err := NewChatClient(ChatConfig{Model: "m"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConfig))
}

func TestChatClient_Complete(t *testing.T) {
	srv := newFakeCompletionServer(t, http.StatusOK, "Eat more vegetables.")

	client, err := NewChatClient(ChatConfig{
		APIKey:  "hf-test",
		BaseURL: srv.URL + "/v1/",
		Model:   "test-model",
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)

	got, err := client.Complete(context.Background(), "What should I eat?")
	require.NoError(t, err)
	assert.Equal(t, "Eat more vegetables.", got)

	assert.Equal(t, "/v1/chat/completions", srv.path)
	assert.Equal(t, "Bearer hf-test", srv.auth)
	assert.Equal(t, "test-model", srv.payload["model"])

	messages, ok := srv.payload["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	system := messages[0].(map[string]any)
	user := messages[1].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, ChatSystemPrompt, system["content"])
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "What should I eat?", user["content"])
}

func TestChatClient_ProviderErrorIsSingleAttempt(t *testing.T) {
	srv := newFakeCompletionServer(t, http.StatusInternalServerError, "")

	client, err := NewChatClient(ChatConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProvider))
	assert.EqualValues(t, 1, srv.calls.Load())
}

func TestChatClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	client, err := NewChatClient(ChatConfig{APIKey: "k", BaseURL: srv.URL, Model: "m", Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProvider))
	assert.Less(t, time.Since(start), time.Second)
}

func TestChatClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewChatClient(ChatConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindProvider))
}
