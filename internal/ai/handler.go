package ai

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dataprosimx/dataprosim/internal/api"
	"github.com/dataprosimx/dataprosim/internal/identity"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handler serves the AI endpoints.
type Handler struct {
	orchestrator *Orchestrator
	rateLimiter  *RateLimiter
	log          ConversationLogger
}

// NewHandler creates an AI handler. A nil limiter disables rate limiting and
// a nil logger discards conversations.
func NewHandler(orchestrator *Orchestrator, limiter *RateLimiter, conversationLogger ConversationLogger) *Handler {
	if conversationLogger == nil {
		conversationLogger = noopConversationLogger{}
	}
	return &Handler{
		orchestrator: orchestrator,
		rateLimiter:  limiter,
		log:          conversationLogger,
	}
}

// RegisterRoutes registers the AI routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/ai", func(r chi.Router) {
		r.Use(h.limit)
		r.Post("/mentor", h.HandleMentor)
		r.Post("/tips", h.HandleTips)
		r.Post("/challenge", h.HandleChallenge)
	})
}

// Close releases handler resources.
func (h *Handler) Close() {
	if h.rateLimiter != nil {
		h.rateLimiter.Stop()
	}
	if err := h.log.Close(); err != nil {
		slog.Warn("failed to close conversation logger", "error", err)
	}
}

// limit rejects requests over the per-client budget. User and session IDs
// are client-chosen headers, so the key is the client address.
func (h *Handler) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.rateLimiter != nil && !h.rateLimiter.Allow(identity.IPFromRequest(r)) {
			api.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleMentor handles POST /api/ai/mentor.
func (h *Handler) HandleMentor(w http.ResponseWriter, r *http.Request) {
	var req MentorRequest
	if !api.Decode(w, r, &req) {
		return
	}

	userID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	reqID := chiMiddleware.GetReqID(r.Context())

	slog.Info("AI mentor request", "user_id", userID, "session_id", sessionID, "message_length", len(req.Message))
	h.log.Log(ConversationLogEvent{
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		UserID:     userID,
		SessionID:  sessionID,
		Channel:    "mentor_http",
		Direction:  "outbound",
		EventType:  "mentor_user_message",
		ContentRaw: req.Message,
		Meta: map[string]any{
			"request_id": reqID,
			"remote_ip":  identity.IPFromRequest(r),
		},
	})

	reply := h.orchestrator.Mentor(r.Context(), req)

	h.log.Log(ConversationLogEvent{
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		UserID:     userID,
		SessionID:  sessionID,
		Channel:    "mentor_http",
		Direction:  "inbound",
		EventType:  "mentor_assistant_message",
		ContentRaw: reply.Response,
		Meta: map[string]any{
			"request_id": reqID,
			"source":     reply.Source,
		},
	})

	api.JSON(w, http.StatusOK, MentorReply{Response: reply.Response})
}

// HandleTips handles POST /api/ai/tips.
func (h *Handler) HandleTips(w http.ResponseWriter, r *http.Request) {
	var req TipsRequest
	if !api.Decode(w, r, &req) {
		return
	}
	api.JSON(w, http.StatusOK, TipsResponse{Tips: h.orchestrator.ContextualTips(r.Context(), req)})
}

// HandleChallenge handles POST /api/ai/challenge.
func (h *Handler) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	var req ChallengeRequest
	if !api.Decode(w, r, &req) {
		return
	}
	api.JSON(w, http.StatusOK, h.orchestrator.MicroChallenge(r.Context(), req))
}
