package api

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
)

const maxChartPoints = 100

type chartRequest struct {
	ChartType string `json:"chartType"`
	XAxis     string `json:"xAxis"`
	YAxis     string `json:"yAxis"`
}

type chartDataset struct {
	Filename string   `json:"filename"`
	Rows     int      `json:"rows"`
	Columns  []string `json:"columns"`
}

type chartResponse struct {
	Data     []map[string]any `json:"data"`
	Insights []string         `json:"insights"`
	Dataset  chartDataset     `json:"dataset"`
}

// axisValue draws a plausible value for a column from its name.
func axisValue(column string, allowPosition bool) int {
	c := strings.ToLower(column)
	switch {
	case strings.Contains(c, "score"), strings.Contains(c, "runs"), strings.Contains(c, "wickets"):
		return rand.IntN(100) + 1
	case strings.Contains(c, "rate"), strings.Contains(c, "average"):
		return rand.IntN(50) + 10
	case allowPosition && strings.Contains(c, "position"):
		return rand.IntN(20) + 1
	default:
		return rand.IntN(50) + 1
	}
}

func chartPoints(n int, xAxis, yAxis string) []map[string]any {
	points := make([]map[string]any, 0, n)
	for i := range n {
		p := map[string]any{"id": i}
		if xAxis != "" && yAxis != "" {
			p[xAxis] = axisValue(xAxis, true)
			p[yAxis] = axisValue(yAxis, false)
		} else {
			p["value"] = rand.IntN(100) + 1
			p["label"] = fmt.Sprintf("Item %d", i+1)
		}
		points = append(points, p)
	}
	return points
}

func chartInsights(req chartRequest, filename string, rows int, columns []string) []string {
	shown := strings.Join(columns[:min(5, len(columns))], ", ")
	if len(columns) > 5 {
		shown += "..."
	}
	focus := "Distribution analysis of selected columns"
	switch {
	case req.ChartType == "scatter":
		focus = fmt.Sprintf("Correlation analysis between %s and %s", req.XAxis, req.YAxis)
	case req.XAxis != "":
		focus = "Distribution analysis of " + req.XAxis
	}
	return []string{
		fmt.Sprintf("Analysis of %s with %d records", filename, rows),
		fmt.Sprintf("Dataset contains %d columns: %s", len(columns), shown),
		focus,
		fmt.Sprintf("Data quality: %d rows processed successfully", rows),
	}
}

// Chart handles POST /api/projects/{id}/chart. The points are synthetic;
// only their count and column names come from the project's first dataset.
func (h *ProjectHandler) Chart(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}
	var req chartRequest
	if !Decode(w, r, &req) {
		return
	}

	if _, err := h.repo.GetProject(r.Context(), id); err != nil {
		storeError(w, err, "project")
		return
	}
	datasets, err := h.repo.ListDatasetsByProject(r.Context(), id)
	if err != nil {
		storeError(w, err, "datasets")
		return
	}
	if len(datasets) == 0 {
		Error(w, http.StatusBadRequest, "No dataset found for this project")
		return
	}

	ds := datasets[0]
	columns := ds.Columns
	if columns == nil {
		columns = []string{}
	}
	JSON(w, http.StatusOK, chartResponse{
		Data:     chartPoints(min(ds.Rows, maxChartPoints), req.XAxis, req.YAxis),
		Insights: chartInsights(req, ds.Filename, ds.Rows, columns),
		Dataset: chartDataset{
			Filename: ds.Filename,
			Rows:     ds.Rows,
			Columns:  columns,
		},
	})
}
