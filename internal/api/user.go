package api

import (
	"net/http"

	"github.com/dataprosimx/dataprosim/internal/identity"
	"github.com/go-chi/chi/v5"
)

// UserHandler serves the current user's profile and progress.
type UserHandler struct {
	*Handler
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(base *Handler) *UserHandler {
	return &UserHandler{Handler: base}
}

// RegisterRoutes registers user routes.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/user", h.GetUser)
	r.Post("/api/user/xp", h.AddXP)
	r.Get("/api/user/achievements", h.ListAchievements)
}

// GetUser handles GET /api/user.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.repo.GetUser(r.Context(), identity.UserIDFromContext(r.Context()))
	if err != nil {
		storeError(w, err, "user")
		return
	}
	JSON(w, http.StatusOK, user)
}

type addXPRequest struct {
	XP int `json:"xp"`
}

// AddXP handles POST /api/user/xp.
func (h *UserHandler) AddXP(w http.ResponseWriter, r *http.Request) {
	var req addXPRequest
	if !Decode(w, r, &req) {
		return
	}

	user, err := h.repo.GetUser(r.Context(), identity.UserIDFromContext(r.Context()))
	if err != nil {
		storeError(w, err, "user")
		return
	}
	user.AddXP(req.XP)

	updated, err := h.repo.UpdateUser(r.Context(), user)
	if err != nil {
		storeError(w, err, "user")
		return
	}
	JSON(w, http.StatusOK, updated)
}

// ListAchievements handles GET /api/user/achievements.
func (h *UserHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.repo.ListAchievementsByUser(r.Context(), identity.UserIDFromContext(r.Context()))
	if err != nil {
		storeError(w, err, "achievements")
		return
	}
	JSON(w, http.StatusOK, achievements)
}
