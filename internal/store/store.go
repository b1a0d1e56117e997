// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/dataprosimx/dataprosim/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique field (username, email) is already taken.
	ErrConflict = errors.New("conflict")
)

// Repository defines the interface for persisting platform records.
type Repository interface {
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// CreateUser stores a new user. An empty ID is replaced with a fresh UUID.
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// UpdateUser replaces a user record wholesale.
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, id int) (*domain.Project, error)

	// ListProjectsByUser returns the projects owned by a user, ordered by ID.
	ListProjectsByUser(ctx context.Context, userID string) ([]*domain.Project, error)

	// CreateProject stores a new project and assigns its ID.
	CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error)

	// UpdateProject applies a partial update and bumps UpdatedAt.
	UpdateProject(ctx context.Context, id int, update domain.ProjectUpdate) (*domain.Project, error)

	// GetDataset retrieves a dataset by ID.
	GetDataset(ctx context.Context, id int) (*domain.Dataset, error)

	// ListDatasetsByProject returns the datasets uploaded to a project, ordered by ID.
	ListDatasetsByProject(ctx context.Context, projectID int) ([]*domain.Dataset, error)

	// CreateDataset stores dataset metadata and assigns its ID.
	CreateDataset(ctx context.Context, dataset *domain.Dataset) (*domain.Dataset, error)

	// ListAchievementsByUser returns a user's achievements, ordered by ID.
	ListAchievementsByUser(ctx context.Context, userID string) ([]*domain.Achievement, error)

	// CreateAchievement stores an achievement and assigns its ID.
	CreateAchievement(ctx context.Context, achievement *domain.Achievement) (*domain.Achievement, error)

	// ListPosts returns community posts, newest first.
	ListPosts(ctx context.Context) ([]*domain.CommunityPost, error)

	// CreatePost stores a community post and assigns its ID.
	CreatePost(ctx context.Context, post *domain.CommunityPost) (*domain.CommunityPost, error)

	// LikePost increments a post's like counter.
	LikePost(ctx context.Context, id int) (*domain.CommunityPost, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases store resources.
	Close() error
}
