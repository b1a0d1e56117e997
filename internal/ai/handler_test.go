package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dataprosimx/dataprosim/internal/domain"
	"github.com/dataprosimx/dataprosim/internal/identity"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, o *Orchestrator, limiter *RateLimiter) http.Handler {
	t.Helper()
	h := NewHandler(o, limiter, nil)
	t.Cleanup(h.Close)

	r := chi.NewRouter()
	r.Use(identity.Middleware("user-1"))
	h.RegisterRoutes(r)
	return r
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func unavailable() *Orchestrator {
	return NewOrchestrator([]Provider{
		NewOpenAI(OpenAIConfig{}, nil),
		NewGemini(GeminiConfig{}, nil),
	})
}

func TestHandleMentorFallback(t *testing.T) {
	r := newTestRouter(t, NewOrchestrator([]Provider{failing("openai"), failing("gemini")}), nil)

	rec := post(t, r, "/api/ai/mentor", `{"message":"How do I handle missing values?","context":{"userLevel":1}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]string{"response": FallbackMentorResponse}, got)
}

func TestHandleMentorMalformedBody(t *testing.T) {
	r := newTestRouter(t, unavailable(), nil)
	rec := post(t, r, "/api/ai/mentor", `{"message":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTipsFallback(t *testing.T) {
	r := newTestRouter(t, unavailable(), nil)

	rec := post(t, r, "/api/ai/tips", `{"type":"eda"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got TipsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Tips, 1)
	assert.Equal(t, domain.CategoryEDA, got.Tips[0].Type)
	assert.Equal(t, domain.Beginner, got.Tips[0].Difficulty)
	assert.Equal(t, "Start with Summary Statistics", got.Tips[0].Title)
}

func TestHandleTipsValidation(t *testing.T) {
	r := newTestRouter(t, unavailable(), nil)

	for _, body := range []string{`{}`, `{"type":"deployment"}`, `{"type":"eda","userLevel":-1}`} {
		rec := post(t, r, "/api/ai/tips", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHandleChallengeFallback(t *testing.T) {
	r := newTestRouter(t, unavailable(), nil)

	first := post(t, r, "/api/ai/challenge", `{"userLevel":7,"skillArea":"modeling"}`)
	require.Equal(t, http.StatusOK, first.Code)
	var a domain.MicroChallenge
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	assert.Equal(t, domain.Advanced, a.Difficulty)
	assert.Equal(t, domain.Analyze, a.BloomLevel)
	assert.NotEmpty(t, a.ID)

	second := post(t, r, "/api/ai/challenge", `{"userLevel":7,"skillArea":"modeling"}`)
	var b domain.MicroChallenge
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestHandleChallengeValidation(t *testing.T) {
	r := newTestRouter(t, unavailable(), nil)

	for _, body := range []string{`{"skillArea":"eda"}`, `{"userLevel":0,"skillArea":"eda"}`, `{"userLevel":2}`} {
		rec := post(t, r, "/api/ai/challenge", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	r := newTestRouter(t, unavailable(), limiter)

	assert.Equal(t, http.StatusOK, post(t, r, "/api/ai/tips", `{"type":"eda"}`).Code)
	assert.Equal(t, http.StatusOK, post(t, r, "/api/ai/tips", `{"type":"eda"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, post(t, r, "/api/ai/tips", `{"type":"eda"}`).Code)

	other := httptest.NewRequest(http.MethodPost, "/api/ai/tips", strings.NewReader(`{"type":"eda"}`))
	other.RemoteAddr = "198.51.100.7:4711"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per client address")
}

func TestRateLimitIgnoresRotatedIdentity(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	r := newTestRouter(t, unavailable(), limiter)

	send := func(userID, sessionID string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/ai/mentor", strings.NewReader(`{"message":"hi"}`))
		req.Header.Set(identity.UserHeaderName, userID)
		req.Header.Set(identity.SessionHeaderName, sessionID)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("user-a", "tab-a"))
	assert.Equal(t, http.StatusTooManyRequests, send("user-b", "tab-b"))
	assert.Equal(t, http.StatusTooManyRequests, send("user-c", "tab-c"))
}
