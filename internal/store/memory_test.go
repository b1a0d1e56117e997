package store

import (
	"context"
	"testing"

	"github.com/dataprosimx/dataprosim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	created, err := s.CreateUser(ctx, &domain.User{Username: "ada", Email: "ada@example.com", Level: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.Badges)

	byName, err := s.GetUserByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = s.CreateUser(ctx, &domain.User{Username: "ada", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.CreateUser(ctx, &domain.User{Username: "grace", Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	u, err := s.CreateUser(ctx, &domain.User{Username: "ada", Email: "ada@example.com"})
	require.NoError(t, err)
	u.XP = 9999

	again, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, again.XP)
}

func TestMemoryStoreProjectIDsIncrement(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	first, err := s.CreateProject(ctx, &domain.Project{UserID: "u", Title: "one"})
	require.NoError(t, err)
	second, err := s.CreateProject(ctx, &domain.Project{UserID: "u", Title: "two"})
	require.NoError(t, err)
	_, err = s.CreateProject(ctx, &domain.Project{UserID: "someone-else", Title: "three"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	list, err := s.ListProjectsByUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "one", list[0].Title)
}

func TestMemoryStoreUpdateProject(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	p, err := s.CreateProject(ctx, &domain.Project{UserID: "u", Title: "churn", Progress: 10})
	require.NoError(t, err)

	progress := 80
	updated, err := s.UpdateProject(ctx, p.ID, domain.ProjectUpdate{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, 80, updated.Progress)
	assert.Equal(t, "churn", updated.Title)
	assert.False(t, updated.UpdatedAt.Before(p.UpdatedAt))

	_, err = s.UpdateProject(ctx, 404, domain.ProjectUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDatasetsAndPosts(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.CreateDataset(ctx, &domain.Dataset{ProjectID: 1, Filename: "a.csv", Columns: []string{"x"}})
	require.NoError(t, err)
	_, err = s.CreateDataset(ctx, &domain.Dataset{ProjectID: 2, Filename: "b.csv"})
	require.NoError(t, err)

	ds, err := s.ListDatasetsByProject(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "a.csv", ds[0].Filename)

	first, err := s.CreatePost(ctx, &domain.CommunityPost{Title: "first"})
	require.NoError(t, err)
	_, err = s.CreatePost(ctx, &domain.CommunityPost{Title: "second"})
	require.NoError(t, err)

	liked, err := s.LikePost(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Title)

	_, err = s.LikePost(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, Seed(ctx, s))
	require.NoError(t, Seed(ctx, s))

	u, err := s.GetUser(ctx, DemoUserID)
	require.NoError(t, err)
	assert.Equal(t, "johnsmith", u.Username)
	assert.Len(t, u.Badges, 3)

	projects, err := s.ListProjectsByUser(ctx, DemoUserID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, 1, projects[0].ID)

	next, err := s.CreateProject(ctx, &domain.Project{UserID: DemoUserID, Title: "next"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.ID)
}
