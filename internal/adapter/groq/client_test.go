package groq

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github-portfolio/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	server := httptest.NewServer(handler)
	client, err := NewClient(Config{APIKey: "gsk_test", BaseURL: server.URL + "/"})
	require.NoError(t, err)
	client.retryDelay = 10 * time.Millisecond
	return server, client
}

func TestClient_Generate(t *testing.T) {
	server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		raw, _ := io.ReadAll(r.Body)
		var req chatRequest
		require.NoError(t, json.Unmarshal(raw, &req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, 0.3, req.Temperature)
		assert.Equal(t, 500, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[0].Content)

		io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"  I build reliable systems.  "}}]}`)
	})
	defer server.Close()

	out, err := client.Generate(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, "I build reliable systems.", out)
}

func TestClient_Generate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
	}{
		{name: "401 不重试", status: http.StatusUnauthorized, body: `{"error":{"message":"invalid key"}}`, wantCalls: 1},
		{name: "429 重试一次", status: http.StatusTooManyRequests, body: `{}`, wantCalls: 2},
		{name: "500 重试一次", status: http.StatusInternalServerError, body: `{}`, wantCalls: 2},
		{name: "没有候选结果", status: http.StatusOK, body: `{"choices":[]}`, wantCalls: 1},
		{name: "响应体里带 error", status: http.StatusOK, body: `{"error":{"message":"model overloaded"}}`, wantCalls: 1},
		{name: "非法 JSON", status: http.StatusOK, body: `not json`, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server, client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			defer server.Close()

			out, err := client.Generate(context.Background(), "hello")

			assert.Error(t, err)
			assert.Empty(t, out)
			assert.Equal(t, common.ErrCodeAIProcessing, common.CodeOf(err))
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	client, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.cfg.BaseURL)
	assert.Equal(t, DefaultModel, client.cfg.Model)
	assert.Equal(t, 500, client.cfg.MaxTokens)
}
