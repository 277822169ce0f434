package aiservice

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), []byte("fake-png-body")...)

func pngBase64() string {
	return base64.StdEncoding.EncodeToString(pngBytes)
}

// fakeCompletionServer mimics an OpenAI-compatible /chat/completions endpoint.
type fakeCompletionServer struct {
	*httptest.Server
	calls   atomic.Int32
	payload map[string]any
	auth    string
	path    string
}

func newFakeCompletionServer(t *testing.T, status int, content string) *fakeCompletionServer {
	t.Helper()
	f := &fakeCompletionServer{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.path = r.URL.Path
		f.auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&f.payload); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "upstream exploded", "type": "server_error"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []any{
				map[string]any{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		})
	}))
	t.Cleanup(f.Close)
	return f
}
