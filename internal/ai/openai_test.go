package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompleter(url string) *OpenAICompleter {
	return NewOpenAICompleter(&config.Config{
		OpenAIBaseURL:    url,
		OpenAIAPIKey:     "sk-test",
		OpenAIModel:      "gpt-4o-mini",
		AITemperature:    0.7,
		AITimeoutSeconds: 5,
	})
}

func TestOpenAICompleter_Success(t *testing.T) {
	var got chatCompletionsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  [{\"day\":1}]\n "}},{"message":{"content":"ignored"}}]}`))
	}))
	defer srv.Close()

	text, err := newTestCompleter(srv.URL).Complete(context.Background(), "plan please")
	require.NoError(t, err)

	assert.Equal(t, `[{"day":1}]`, text)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 0.7, got.Temperature)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "plan please", got.Messages[0].Content)
}

func TestOpenAICompleter_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"garbage body", http.StatusOK, `not json`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := newTestCompleter(srv.URL).Complete(context.Background(), "p")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCompletionFailed), "got %v", err)
		})
	}
}

func TestOpenAICompleter_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestCompleter(srv.URL).Complete(ctx, "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompletionFailed)
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}

func TestMockCompleter(t *testing.T) {
	m := NewMockCompleter()
	text, err := m.Complete(context.Background(), "anything")
	require.NoError(t, err)

	var days []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &days))
	assert.Len(t, days, 7)
	assert.Equal(t, "mock", m.Model())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Complete(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewCompleter(t *testing.T) {
	_, ok := NewCompleter(&config.Config{AIMode: config.AIModeMock}).(*MockCompleter)
	assert.True(t, ok)

	_, ok = NewCompleter(&config.Config{AIMode: config.AIModeOpenAI, OpenAIBaseURL: "http://localhost"}).(*OpenAICompleter)
	assert.True(t, ok)
}
