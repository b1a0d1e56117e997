package domain

import (
	"encoding/json"
	"time"
)

// Project statuses.
const (
	ProjectInProgress = "in_progress"
	ProjectCompleted  = "completed"
	ProjectPaused     = "paused"
)

// DefaultProjectStep is the workflow step a new project starts in.
const DefaultProjectStep = "data_ingestion"

// Project is a user's simulated data-science project.
type Project struct {
	ID          int             `json:"id"`
	UserID      string          `json:"userId"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	CurrentStep string          `json:"currentStep"`
	Progress    int             `json:"progress"`
	DatasetInfo json.RawMessage `json:"datasetInfo"`
	Config      json.RawMessage `json:"config"`
	Results     json.RawMessage `json:"results"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProjectUpdate carries a partial project update. Nil fields are left untouched.
type ProjectUpdate struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Type        *string         `json:"type,omitempty"`
	Status      *string         `json:"status,omitempty" validate:"omitempty,oneof=in_progress completed paused"`
	CurrentStep *string         `json:"currentStep,omitempty"`
	Progress    *int            `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
	DatasetInfo json.RawMessage `json:"datasetInfo,omitempty"`
	Config      json.RawMessage `json:"config,omitempty"`
	Results     json.RawMessage `json:"results,omitempty"`
}

// Apply copies the set fields of u onto p.
func (u ProjectUpdate) Apply(p *Project) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Type != nil {
		p.Type = *u.Type
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.CurrentStep != nil {
		p.CurrentStep = *u.CurrentStep
	}
	if u.Progress != nil {
		p.Progress = *u.Progress
	}
	if len(u.DatasetInfo) > 0 {
		p.DatasetInfo = u.DatasetInfo
	}
	if len(u.Config) > 0 {
		p.Config = u.Config
	}
	if len(u.Results) > 0 {
		p.Results = u.Results
	}
}

// Dataset is the metadata of a file uploaded to a project.
type Dataset struct {
	ID         int       `json:"id"`
	ProjectID  int       `json:"projectId"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	Columns    []string  `json:"columns"`
	Rows       int       `json:"rows"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DatasetSummary is the dataset description stored on a project after upload.
type DatasetSummary struct {
	Filename string   `json:"filename"`
	Rows     int      `json:"rows"`
	Columns  int      `json:"columns"`
	Features []string `json:"features"`
}
