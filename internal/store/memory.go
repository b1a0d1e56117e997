package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dataprosimx/dataprosim/internal/domain"
	"github.com/google/uuid"
)

// MemoryStore implements Repository with in-process maps. Nothing survives a restart.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]*domain.User
	projects     map[int]*domain.Project
	datasets     map[int]*domain.Dataset
	achievements map[int]*domain.Achievement
	posts        map[int]*domain.CommunityPost

	nextProjectID     int
	nextDatasetID     int
	nextAchievementID int
	nextPostID        int
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		users:             make(map[string]*domain.User),
		projects:          make(map[int]*domain.Project),
		datasets:          make(map[int]*domain.Dataset),
		achievements:      make(map[int]*domain.Achievement),
		posts:             make(map[int]*domain.CommunityPost),
		nextProjectID:     1,
		nextDatasetID:     1,
		nextAchievementID: 1,
		nextPostID:        1,
	}
}

var _ Repository = (*MemoryStore)(nil)

// GetUser retrieves a user by ID.
func (s *MemoryStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return cloneUser(u), nil
}

// GetUserByUsername retrieves a user by username.
func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
}

// CreateUser stores a new user.
func (s *MemoryStore) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := cloneUser(user)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, exists := s.users[u.ID]; exists {
		return nil, fmt.Errorf("user id %s: %w", u.ID, ErrConflict)
	}
	if err := s.checkUniqueLocked(u); err != nil {
		return nil, err
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.Badges == nil {
		u.Badges = []domain.Badge{}
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

// UpdateUser replaces a user record.
func (s *MemoryStore) UpdateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil, fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	u := cloneUser(user)
	if err := s.checkUniqueLocked(u); err != nil {
		return nil, err
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

func (s *MemoryStore) checkUniqueLocked(u *domain.User) error {
	for id, other := range s.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username {
			return fmt.Errorf("username %q: %w", u.Username, ErrConflict)
		}
		if other.Email == u.Email {
			return fmt.Errorf("email %q: %w", u.Email, ErrConflict)
		}
	}
	return nil
}

// GetProject retrieves a project by ID.
func (s *MemoryStore) GetProject(_ context.Context, id int) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return cloneProject(p), nil
}

// ListProjectsByUser returns a user's projects ordered by ID.
func (s *MemoryStore) ListProjectsByUser(_ context.Context, userID string) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.Project{}
	for _, p := range s.projects {
		if p.UserID == userID {
			out = append(out, cloneProject(p))
		}
	}
	slices.SortFunc(out, func(a, b *domain.Project) int { return a.ID - b.ID })
	return out, nil
}

// CreateProject stores a new project.
func (s *MemoryStore) CreateProject(_ context.Context, project *domain.Project) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := cloneProject(project)
	if p.ID == 0 {
		p.ID = s.nextProjectID
	} else if _, exists := s.projects[p.ID]; exists {
		return nil, fmt.Errorf("project %d: %w", p.ID, ErrConflict)
	}
	if p.ID >= s.nextProjectID {
		s.nextProjectID = p.ID + 1
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.projects[p.ID] = p
	return cloneProject(p), nil
}

// UpdateProject applies a partial update.
func (s *MemoryStore) UpdateProject(_ context.Context, id int, update domain.ProjectUpdate) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	updated := cloneProject(p)
	update.Apply(updated)
	updated.UpdatedAt = time.Now()
	s.projects[id] = updated
	return cloneProject(updated), nil
}

// GetDataset retrieves a dataset by ID.
func (s *MemoryStore) GetDataset(_ context.Context, id int) (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.datasets[id]
	if !ok {
		return nil, fmt.Errorf("dataset %d: %w", id, ErrNotFound)
	}
	return cloneDataset(d), nil
}

// ListDatasetsByProject returns a project's datasets ordered by ID.
func (s *MemoryStore) ListDatasetsByProject(_ context.Context, projectID int) ([]*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.Dataset{}
	for _, d := range s.datasets {
		if d.ProjectID == projectID {
			out = append(out, cloneDataset(d))
		}
	}
	slices.SortFunc(out, func(a, b *domain.Dataset) int { return a.ID - b.ID })
	return out, nil
}

// CreateDataset stores dataset metadata.
func (s *MemoryStore) CreateDataset(_ context.Context, dataset *domain.Dataset) (*domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := cloneDataset(dataset)
	d.ID = s.nextDatasetID
	s.nextDatasetID++
	d.UploadedAt = time.Now()
	s.datasets[d.ID] = d
	return cloneDataset(d), nil
}

// ListAchievementsByUser returns a user's achievements ordered by ID.
func (s *MemoryStore) ListAchievementsByUser(_ context.Context, userID string) ([]*domain.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*domain.Achievement{}
	for _, a := range s.achievements {
		if a.UserID == userID {
			c := *a
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *domain.Achievement) int { return a.ID - b.ID })
	return out, nil
}

// CreateAchievement stores an achievement.
func (s *MemoryStore) CreateAchievement(_ context.Context, achievement *domain.Achievement) (*domain.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := *achievement
	a.ID = s.nextAchievementID
	s.nextAchievementID++
	a.EarnedAt = time.Now()
	s.achievements[a.ID] = &a
	out := a
	return &out, nil
}

// ListPosts returns community posts, newest first.
func (s *MemoryStore) ListPosts(_ context.Context) ([]*domain.CommunityPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.CommunityPost, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, clonePost(p))
	}
	slices.SortFunc(out, func(a, b *domain.CommunityPost) int { return b.ID - a.ID })
	return out, nil
}

// CreatePost stores a community post.
func (s *MemoryStore) CreatePost(_ context.Context, post *domain.CommunityPost) (*domain.CommunityPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := clonePost(post)
	p.ID = s.nextPostID
	s.nextPostID++
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.posts[p.ID] = p
	return clonePost(p), nil
}

// LikePost increments a post's like counter.
func (s *MemoryStore) LikePost(_ context.Context, id int) (*domain.CommunityPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	p.Likes++
	p.UpdatedAt = time.Now()
	return clonePost(p), nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Badges = slices.Clone(u.Badges)
	return &c
}

func cloneProject(p *domain.Project) *domain.Project {
	c := *p
	c.DatasetInfo = slices.Clone(p.DatasetInfo)
	c.Config = slices.Clone(p.Config)
	c.Results = slices.Clone(p.Results)
	return &c
}

func cloneDataset(d *domain.Dataset) *domain.Dataset {
	c := *d
	c.Columns = slices.Clone(d.Columns)
	return &c
}

func clonePost(p *domain.CommunityPost) *domain.CommunityPost {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if p.ProjectID != nil {
		id := *p.ProjectID
		c.ProjectID = &id
	}
	return &c
}
