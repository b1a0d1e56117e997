package api

import (
	"net/http"
	"strconv"

	"github.com/dataprosimx/dataprosim/internal/domain"
	"github.com/dataprosimx/dataprosim/internal/identity"
	"github.com/go-chi/chi/v5"
)

// CommunityHandler serves community posts.
type CommunityHandler struct {
	*Handler
}

// NewCommunityHandler creates a CommunityHandler.
func NewCommunityHandler(base *Handler) *CommunityHandler {
	return &CommunityHandler{Handler: base}
}

// RegisterRoutes registers community routes.
func (h *CommunityHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/community/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Post("/", h.CreatePost)
		r.Post("/{postId}/like", h.LikePost)
	})
}

type createPostRequest struct {
	ProjectID *int     `json:"projectId"`
	Title     string   `json:"title" validate:"required,max=200"`
	Content   string   `json:"content" validate:"required"`
	Type      string   `json:"type"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags" validate:"max=10,dive,max=40"`
}

// ListPosts handles GET /api/community/posts.
func (h *CommunityHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListPosts(r.Context())
	if err != nil {
		storeError(w, err, "posts")
		return
	}
	JSON(w, http.StatusOK, posts)
}

// CreatePost handles POST /api/community/posts.
func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !Decode(w, r, &req) {
		return
	}
	post, err := h.repo.CreatePost(r.Context(), &domain.CommunityPost{
		UserID:    identity.UserIDFromContext(r.Context()),
		ProjectID: req.ProjectID,
		Title:     req.Title,
		Content:   req.Content,
		Type:      req.Type,
		Category:  req.Category,
		Tags:      req.Tags,
	})
	if err != nil {
		storeError(w, err, "post")
		return
	}
	JSON(w, http.StatusCreated, post)
}

// LikePost handles POST /api/community/posts/{postId}/like.
func (h *CommunityHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "postId"))
	if err != nil || id <= 0 {
		Error(w, http.StatusBadRequest, "invalid post id")
		return
	}
	post, err := h.repo.LikePost(r.Context(), id)
	if err != nil {
		storeError(w, err, "post")
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"message": "Post liked",
		"postId":  id,
		"likes":   post.Likes,
	})
}
