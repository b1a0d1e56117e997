package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dataprosimx/dataprosim/internal/domain"
)

// DemoUserID is the ID of the seeded demo user that requests act as by default.
const DemoUserID = "user-1"

// Seed installs the demo user and sample project when they are missing.
// It is safe to call on every start-up.
func Seed(ctx context.Context, repo Repository) error {
	_, err := repo.GetUser(ctx, DemoUserID)
	if err == nil {
		slog.Info("Demo user already exists", "user_id", DemoUserID)
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("look up demo user: %w", err)
	}

	now := time.Now()
	if _, err := repo.CreateUser(ctx, &domain.User{
		ID:       DemoUserID,
		Username: "johnsmith",
		Password: "password",
		Name:     "John Smith",
		Email:    "john@example.com",
		Role:     "ml_engineer",
		Level:    3,
		XP:       2450,
		Badges: []domain.Badge{
			{Type: "data_janitor", Title: "Data Janitor", EarnedAt: now},
			{Type: "viz_master", Title: "Viz Master", EarnedAt: now},
			{Type: "model_builder", Title: "Model Builder", EarnedAt: now},
		},
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}

	datasetInfo, err := json.Marshal(domain.DatasetSummary{
		Filename: "telecom_churn.csv",
		Rows:     10000,
		Columns:  18,
		Features: []string{"customer_id", "tenure", "monthly_charges", "total_charges", "churn"},
	})
	if err != nil {
		return fmt.Errorf("encode sample dataset info: %w", err)
	}

	if _, err := repo.CreateProject(ctx, &domain.Project{
		ID:          1,
		UserID:      DemoUserID,
		Title:       "Customer Churn Prediction Analysis",
		Description: "Telecom industry classification problem",
		Type:        "classification",
		Status:      domain.ProjectInProgress,
		CurrentStep: "eda",
		Progress:    65,
		DatasetInfo: datasetInfo,
		Config:      json.RawMessage(`{}`),
	}); err != nil {
		return fmt.Errorf("create sample project: %w", err)
	}

	slog.Info("Demo data seeded", "user_id", DemoUserID)
	return nil
}
