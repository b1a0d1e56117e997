package api

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

var mentorChatReplies = []string{
	"That's a great question! For data cleaning, I recommend starting with null value analysis.",
	"Consider using feature scaling for better model performance.",
	"Have you tried cross-validation to assess model stability?",
	"Outlier detection might reveal interesting patterns in your data.",
	"Remember to check for data leakage in your feature engineering process.",
}

// ActivityHandler serves the lightweight learning-activity endpoints whose
// results are canned.
type ActivityHandler struct {
	*Handler
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(base *Handler) *ActivityHandler {
	return &ActivityHandler{Handler: base}
}

// RegisterRoutes registers activity routes.
func (h *ActivityHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/mentor/chat", h.MentorChat)
	r.Post("/api/challenges/{challengeId}/start", h.StartChallenge)
	r.Post("/api/real-world-projects/{projectId}/start", h.StartRealWorldProject)
}

type mentorChatRequest struct {
	Message string `json:"message"`
}

// MentorChat handles POST /api/mentor/chat with a canned reply.
func (h *ActivityHandler) MentorChat(w http.ResponseWriter, r *http.Request) {
	var req mentorChatRequest
	if !Decode(w, r, &req) {
		return
	}
	JSON(w, http.StatusOK, map[string]string{
		"message":   mentorChatReplies[rand.IntN(len(mentorChatReplies))],
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// StartChallenge handles POST /api/challenges/{challengeId}/start.
func (h *ActivityHandler) StartChallenge(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"message":     "Challenge started successfully",
		"challengeId": chi.URLParam(r, "challengeId"),
		"xp":          0,
	})
}

// StartRealWorldProject handles POST /api/real-world-projects/{projectId}/start.
func (h *ActivityHandler) StartRealWorldProject(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{
		"message":   "Real-world project started",
		"projectId": chi.URLParam(r, "projectId"),
	})
}

type executeCodeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// ExecuteCode handles POST /api/projects/{id}/execute-code. Code is not run.
func (h *ProjectHandler) ExecuteCode(w http.ResponseWriter, r *http.Request) {
	var req executeCodeRequest
	if !Decode(w, r, &req) {
		return
	}
	JSON(w, http.StatusOK, map[string]string{
		"output":        "Code executed successfully",
		"executionTime": "2.34s",
		"status":        "success",
	})
}

type exportCodeRequest struct {
	Code   string `json:"code"`
	Format string `json:"format" validate:"required,oneof=py ipynb r sql txt"`
}

// ExportCode handles POST /api/projects/{id}/export-code.
func (h *ProjectHandler) ExportCode(w http.ResponseWriter, r *http.Request) {
	var req exportCodeRequest
	if !Decode(w, r, &req) {
		return
	}
	JSON(w, http.StatusOK, map[string]string{
		"message":     "Code exported as " + req.Format,
		"downloadUrl": "/downloads/code." + req.Format,
	})
}
