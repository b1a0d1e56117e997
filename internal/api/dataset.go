package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dataprosimx/dataprosim/internal/domain"
)

const (
	maxUploadSize  = 10 << 20
	previewLines   = 6
	uploadFormFile = "file"
)

type uploadResponse struct {
	Dataset *domain.Dataset `json:"dataset"`
	Preview []string        `json:"preview"`
}

// csvSummary splits raw CSV text into non-blank lines and header names.
// Quoting is not interpreted; the header is split on commas.
func csvSummary(data string) (lines, headers []string) {
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}
	for _, h := range strings.Split(lines[0], ",") {
		headers = append(headers, strings.TrimSpace(h))
	}
	return lines, headers
}

// Upload handles POST /api/projects/{id}/upload.
func (h *ProjectHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	if _, err := h.repo.GetProject(r.Context(), id); err != nil {
		storeError(w, err, "project")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+(1<<20))
	file, header, err := r.FormFile(uploadFormFile)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			Error(w, http.StatusRequestEntityTooLarge, "file exceeds 10MB limit")
			return
		}
		Error(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxUploadSize {
		Error(w, http.StatusRequestEntityTooLarge, "file exceeds 10MB limit")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		Error(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	lines, headers := csvSummary(string(data))
	if len(lines) == 0 {
		Error(w, http.StatusBadRequest, "uploaded file is empty")
		return
	}
	rows := len(lines) - 1

	dataset, err := h.repo.CreateDataset(r.Context(), &domain.Dataset{
		ProjectID: id,
		Filename:  header.Filename,
		Size:      int64(len(data)),
		Columns:   headers,
		Rows:      rows,
	})
	if err != nil {
		slog.Error("Dataset creation failed", "project_id", id, "error", err)
		storeError(w, err, "dataset")
		return
	}

	info, err := json.Marshal(domain.DatasetSummary{
		Filename: header.Filename,
		Rows:     rows,
		Columns:  len(headers),
		Features: headers,
	})
	if err != nil {
		Error(w, http.StatusInternalServerError, "failed to encode dataset info")
		return
	}
	if _, err := h.repo.UpdateProject(r.Context(), id, domain.ProjectUpdate{DatasetInfo: info}); err != nil {
		storeError(w, err, "project")
		return
	}

	slog.Info("Dataset uploaded", "project_id", id, "filename", header.Filename, "rows", rows, "columns", len(headers))
	JSON(w, http.StatusOK, uploadResponse{
		Dataset: dataset,
		Preview: lines[:min(previewLines, len(lines))],
	})
}
