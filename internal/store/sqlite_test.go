package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/dataprosimx/dataprosim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreSeedAndUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	require.NoError(t, Seed(ctx, s))
	require.NoError(t, Seed(ctx, s))

	u, err := s.GetUser(ctx, DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, "johnsmith", u.Username)
	require.Len(t, u.Badges, 3)
	assert.Equal(t, "viz_master", u.Badges[1].Type)

	u.AddXP(600)
	updated, err := s.UpdateUser(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 3050, updated.XP)
	assert.Equal(t, 4, updated.Level)

	_, err = s.CreateUser(ctx, &domain.User{Username: "johnsmith", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreProjects(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	require.NoError(t, Seed(ctx, s))

	p, err := s.CreateProject(ctx, &domain.Project{
		UserID: DemoUserID, Title: "Fraud", Status: domain.ProjectInProgress, CurrentStep: domain.DefaultProjectStep,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, p.ID)
	assert.Nil(t, p.Results)

	info := json.RawMessage(`{"filename":"f.csv","rows":3}`)
	step := "modeling"
	updated, err := s.UpdateProject(ctx, p.ID, domain.ProjectUpdate{CurrentStep: &step, DatasetInfo: info})
	require.NoError(t, err)
	assert.Equal(t, "modeling", updated.CurrentStep)
	assert.JSONEq(t, string(info), string(updated.DatasetInfo))

	list, err := s.ListProjectsByUser(ctx, DemoUserID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Customer Churn Prediction Analysis", list[0].Title)

	_, err = s.GetProject(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStoreDatasetsAchievementsPosts(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)
	require.NoError(t, Seed(ctx, s))

	d, err := s.CreateDataset(ctx, &domain.Dataset{ProjectID: 1, Filename: "churn.csv", Size: 42, Columns: []string{"a", "b"}, Rows: 2})
	require.NoError(t, err)
	got, err := s.GetDataset(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Columns)

	_, err = s.CreateAchievement(ctx, &domain.Achievement{UserID: DemoUserID, BadgeType: "first_upload", Title: "First Upload", Description: "Uploaded a dataset"})
	require.NoError(t, err)
	achievements, err := s.ListAchievementsByUser(ctx, DemoUserID)
	require.NoError(t, err)
	require.Len(t, achievements, 1)

	post, err := s.CreatePost(ctx, &domain.CommunityPost{UserID: DemoUserID, Title: "Insight", Content: "Tenure matters", Tags: []string{"churn"}})
	require.NoError(t, err)
	liked, err := s.LikePost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.Equal(t, []string{"churn"}, liked.Tags)

	_, err = s.LikePost(ctx, 1234)
	assert.ErrorIs(t, err, ErrNotFound)
}
