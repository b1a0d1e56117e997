package api

import (
	"net/http"
	"slices"
	"testing"
)

func TestActivityEndpoints(t *testing.T) {
	h, _ := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/mentor/chat", `{"message":"hi"}`)
	chat := decode[map[string]string](t, rec)
	if !slices.Contains(mentorChatReplies, chat["message"]) || chat["timestamp"] == "" {
		t.Fatalf("unexpected chat reply: %v", chat)
	}

	rec = do(t, h, http.MethodPost, "/api/challenges/ch-9/start", "")
	started := decode[map[string]any](t, rec)
	if started["challengeId"] != "ch-9" || started["xp"] != float64(0) || started["message"] != "Challenge started successfully" {
		t.Fatalf("unexpected challenge start: %v", started)
	}

	rec = do(t, h, http.MethodPost, "/api/real-world-projects/rw-1/start", "")
	if got := decode[map[string]string](t, rec); got["projectId"] != "rw-1" {
		t.Fatalf("unexpected project start: %v", got)
	}

	rec = do(t, h, http.MethodPost, "/api/projects/1/execute-code", `{"code":"print(1)","language":"python"}`)
	if got := decode[map[string]string](t, rec); got["status"] != "success" || got["executionTime"] != "2.34s" {
		t.Fatalf("unexpected execute result: %v", got)
	}

	rec = do(t, h, http.MethodPost, "/api/projects/1/export-code", `{"code":"x","format":"py"}`)
	if got := decode[map[string]string](t, rec); got["downloadUrl"] != "/downloads/code.py" || got["message"] != "Code exported as py" {
		t.Fatalf("unexpected export result: %v", got)
	}

	if rec := do(t, h, http.MethodPost, "/api/projects/1/export-code", `{"format":"exe"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", rec.Code)
	}
}
