package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dataprosimx/dataprosim/internal/domain"
	"github.com/dataprosimx/dataprosim/internal/identity"
	"github.com/go-chi/chi/v5"
)

// ProjectHandler serves project CRUD, dataset upload and charting.
type ProjectHandler struct {
	*Handler
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(base *Handler) *ProjectHandler {
	return &ProjectHandler{Handler: base}
}

// RegisterRoutes registers project routes.
func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Update)
			r.Post("/upload", h.Upload)
			r.Post("/chart", h.Chart)
			r.Post("/execute-code", h.ExecuteCode)
			r.Post("/export-code", h.ExportCode)
		})
	})
}

type createProjectRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description"`
	Type        string          `json:"type" validate:"required"`
	Status      string          `json:"status" validate:"omitempty,oneof=in_progress completed paused"`
	CurrentStep string          `json:"currentStep"`
	Progress    int             `json:"progress" validate:"min=0,max=100"`
	DatasetInfo json.RawMessage `json:"datasetInfo"`
	Config      json.RawMessage `json:"config"`
}

// projectID parses the {id} URL parameter, writing a 400 on failure.
func projectID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		Error(w, http.StatusBadRequest, "invalid project id")
		return 0, false
	}
	return id, true
}

// List handles GET /api/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.repo.ListProjectsByUser(r.Context(), identity.UserIDFromContext(r.Context()))
	if err != nil {
		storeError(w, err, "projects")
		return
	}
	JSON(w, http.StatusOK, projects)
}

// Create handles POST /api/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !Decode(w, r, &req) {
		return
	}

	p := &domain.Project{
		UserID:      identity.UserIDFromContext(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		CurrentStep: req.CurrentStep,
		Progress:    req.Progress,
		DatasetInfo: req.DatasetInfo,
		Config:      req.Config,
	}
	if p.Status == "" {
		p.Status = domain.ProjectInProgress
	}
	if p.CurrentStep == "" {
		p.CurrentStep = domain.DefaultProjectStep
	}

	created, err := h.repo.CreateProject(r.Context(), p)
	if err != nil {
		slog.Error("Project creation failed", "error", err)
		storeError(w, err, "project")
		return
	}
	slog.Info("Project created", "project_id", created.ID, "user_id", created.UserID)
	JSON(w, http.StatusCreated, created)
}

// Get handles GET /api/projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	p, err := h.repo.GetProject(r.Context(), id)
	if err != nil {
		storeError(w, err, "project")
		return
	}
	JSON(w, http.StatusOK, p)
}

// Update handles PATCH /api/projects/{id}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	var update domain.ProjectUpdate
	if !Decode(w, r, &update) {
		return
	}
	p, err := h.repo.UpdateProject(r.Context(), id, update)
	if err != nil {
		storeError(w, err, "project")
		return
	}
	JSON(w, http.StatusOK, p)
}
