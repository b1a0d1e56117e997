package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","model":"gpt-4o",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"tips\":[]}"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`)
	}))
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL}, nil)
	text, err := p.Generate(context.Background(), GenerateRequest{
		System: "sys", Prompt: "user", MaxTokens: 800, Temperature: 0.8, JSON: true,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"tips":[]}`, text)
	assert.Equal(t, "gpt-4o", got["model"])
	assert.EqualValues(t, 800, got["max_tokens"])
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["content"])
}

func TestOpenAIServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer srv.Close()

	p := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL}, nil)
	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "q"})
	assert.Error(t, err)
}

func TestProvidersWithoutKey(t *testing.T) {
	_, err := NewOpenAI(OpenAIConfig{}, nil).Generate(context.Background(), GenerateRequest{Prompt: "q"})
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = NewGemini(GeminiConfig{}, nil).Generate(context.Background(), GenerateRequest{Prompt: "q"})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestGeminiGenerate(t *testing.T) {
	var got geminiGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "g-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Hello "},{"text":"there"}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	g := NewGemini(GeminiConfig{APIKey: "g-key", Endpoint: srv.URL + "/"}, nil)
	text, err := g.Generate(context.Background(), GenerateRequest{System: "You are a tutor.", Prompt: "What is EDA?"})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "You are a tutor.\n\nUser Question: What is EDA?", got.Contents[0].Parts[0].Text)
	assert.Nil(t, got.GenerationConfig)
}

func TestGeminiErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "http error", status: http.StatusTooManyRequests, body: `{"error":{"message":"quota"}}`},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`},
		{name: "bad json", status: http.StatusOK, body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			g := NewGemini(GeminiConfig{APIKey: "k", Endpoint: srv.URL}, nil)
			_, err := g.Generate(context.Background(), GenerateRequest{Prompt: "q", JSON: true})
			assert.Error(t, err)
		})
	}
}
