package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dataprosimx/dataprosim/internal/domain"
	"github.com/dataprosimx/dataprosim/internal/shared"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Repository = (*SQLiteStore)(nil)

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'data_analyst',
		level INTEGER NOT NULL DEFAULT 1,
		xp INTEGER NOT NULL DEFAULT 0,
		badges TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'in_progress',
		current_step TEXT NOT NULL DEFAULT 'data_ingestion',
		progress INTEGER NOT NULL DEFAULT 0,
		dataset_info TEXT,
		config TEXT,
		results TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_projects_user ON projects(user_id);

	CREATE TABLE IF NOT EXISTS datasets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL,
		filename TEXT NOT NULL,
		size INTEGER NOT NULL,
		columns TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		uploaded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_datasets_project ON datasets(project_id);

	CREATE TABLE IF NOT EXISTS achievements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		badge_type TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		earned_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS community_posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		project_id INTEGER,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		likes INTEGER NOT NULL DEFAULT 0,
		views INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// exec runs a write statement with busy retries and maps constraint errors.
func (s *SQLiteStore) exec(ctx context.Context, name, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := shared.RetryOnConflict(ctx, shared.DefaultRetryPolicy, name, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		if shared.IsSQLiteUniqueError(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return res, nil
}

const userColumns = `id, username, password, name, email, role, level, xp, badges, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var badges string
	var createdAt int64
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Name, &u.Email,
		&u.Role, &u.Level, &u.XP, &badges, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(badges), &u.Badges); err != nil {
		return nil, fmt.Errorf("decode badges: %w", err)
	}
	if u.Badges == nil {
		u.Badges = []domain.Badge{}
	}
	u.CreatedAt = time.UnixMilli(createdAt)
	return &u, nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}
	return u, nil
}

// GetUserByUsername retrieves a user by username.
func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}
	return u, nil
}

// CreateUser stores a new user.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	u := *user
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.Badges == nil {
		u.Badges = []domain.Badge{}
	}
	badges, err := json.Marshal(u.Badges)
	if err != nil {
		return nil, fmt.Errorf("encode badges: %w", err)
	}

	_, err = s.exec(ctx, "insert user",
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Password, u.Name, u.Email, u.Role, u.Level, u.XP,
		string(badges), u.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, u.ID)
}

// UpdateUser replaces a user record.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	badges, err := json.Marshal(user.Badges)
	if err != nil {
		return nil, fmt.Errorf("encode badges: %w", err)
	}
	res, err := s.exec(ctx, "update user",
		`UPDATE users SET username = ?, password = ?, name = ?, email = ?, role = ?,
		 level = ?, xp = ?, badges = ? WHERE id = ?`,
		user.Username, user.Password, user.Name, user.Email, user.Role,
		user.Level, user.XP, string(badges), user.ID,
	)
	if err != nil {
		return nil, err
	}
	if err := expectRow(res, "user", user.ID); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, user.ID)
}

const projectColumns = `id, user_id, title, description, type, status, current_step,
	progress, dataset_info, config, results, created_at, updated_at`

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var datasetInfo, config, results sql.NullString
	var createdAt, updatedAt int64
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.Type, &p.Status,
		&p.CurrentStep, &p.Progress, &datasetInfo, &config, &results, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.DatasetInfo = rawJSON(datasetInfo)
	p.Config = rawJSON(config)
	p.Results = rawJSON(results)
	p.CreatedAt = time.UnixMilli(createdAt)
	p.UpdatedAt = time.UnixMilli(updatedAt)
	return &p, nil
}

// GetProject retrieves a project by ID.
func (s *SQLiteStore) GetProject(ctx context.Context, id int) (*domain.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan project row: %w", err)
	}
	return p, nil
}

// ListProjectsByUser returns a user's projects ordered by ID.
func (s *SQLiteStore) ListProjectsByUser(ctx context.Context, userID string) ([]*domain.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer closeRows(rows)

	projects := []*domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// CreateProject stores a new project. A non-zero ID is kept as given.
func (s *SQLiteStore) CreateProject(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	now := time.Now().UnixMilli()
	var id any
	if project.ID != 0 {
		id = project.ID
	}
	res, err := s.exec(ctx, "insert project",
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, project.UserID, project.Title, project.Description, project.Type, project.Status,
		project.CurrentStep, project.Progress, nullJSON(project.DatasetInfo),
		nullJSON(project.Config), nullJSON(project.Results), now, now,
	)
	if err != nil {
		return nil, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("project last insert id: %w", err)
	}
	return s.GetProject(ctx, int(newID))
}

// UpdateProject applies a partial update.
func (s *SQLiteStore) UpdateProject(ctx context.Context, id int, update domain.ProjectUpdate) (*domain.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(p)

	res, err := s.exec(ctx, "update project",
		`UPDATE projects SET title = ?, description = ?, type = ?, status = ?, current_step = ?,
		 progress = ?, dataset_info = ?, config = ?, results = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Description, p.Type, p.Status, p.CurrentStep, p.Progress,
		nullJSON(p.DatasetInfo), nullJSON(p.Config), nullJSON(p.Results),
		time.Now().UnixMilli(), id,
	)
	if err != nil {
		return nil, err
	}
	if err := expectRow(res, "project", id); err != nil {
		return nil, err
	}
	return s.GetProject(ctx, id)
}

func scanDataset(row rowScanner) (*domain.Dataset, error) {
	var d domain.Dataset
	var columns string
	var uploadedAt int64
	if err := row.Scan(&d.ID, &d.ProjectID, &d.Filename, &d.Size, &columns, &d.Rows, &uploadedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(columns), &d.Columns); err != nil {
		return nil, fmt.Errorf("decode columns: %w", err)
	}
	d.UploadedAt = time.UnixMilli(uploadedAt)
	return &d, nil
}

// GetDataset retrieves a dataset by ID.
func (s *SQLiteStore) GetDataset(ctx context.Context, id int) (*domain.Dataset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, filename, size, columns, row_count, uploaded_at FROM datasets WHERE id = ?`, id)
	d, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dataset %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan dataset row: %w", err)
	}
	return d, nil
}

// ListDatasetsByProject returns a project's datasets ordered by ID.
func (s *SQLiteStore) ListDatasetsByProject(ctx context.Context, projectID int) ([]*domain.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, filename, size, columns, row_count, uploaded_at
		 FROM datasets WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer closeRows(rows)

	datasets := []*domain.Dataset{}
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		datasets = append(datasets, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datasets: %w", err)
	}
	return datasets, nil
}

// CreateDataset stores dataset metadata.
func (s *SQLiteStore) CreateDataset(ctx context.Context, dataset *domain.Dataset) (*domain.Dataset, error) {
	columns, err := json.Marshal(dataset.Columns)
	if err != nil {
		return nil, fmt.Errorf("encode columns: %w", err)
	}
	res, err := s.exec(ctx, "insert dataset",
		`INSERT INTO datasets (project_id, filename, size, columns, row_count, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		dataset.ProjectID, dataset.Filename, dataset.Size, string(columns), dataset.Rows, time.Now().UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("dataset last insert id: %w", err)
	}
	return s.GetDataset(ctx, int(id))
}

// ListAchievementsByUser returns a user's achievements ordered by ID.
func (s *SQLiteStore) ListAchievementsByUser(ctx context.Context, userID string) ([]*domain.Achievement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, badge_type, title, description, earned_at
		 FROM achievements WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer closeRows(rows)

	achievements := []*domain.Achievement{}
	for rows.Next() {
		var a domain.Achievement
		var earnedAt int64
		if err := rows.Scan(&a.ID, &a.UserID, &a.BadgeType, &a.Title, &a.Description, &earnedAt); err != nil {
			return nil, fmt.Errorf("scan achievement row: %w", err)
		}
		a.EarnedAt = time.UnixMilli(earnedAt)
		achievements = append(achievements, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}
	return achievements, nil
}

// CreateAchievement stores an achievement.
func (s *SQLiteStore) CreateAchievement(ctx context.Context, achievement *domain.Achievement) (*domain.Achievement, error) {
	a := *achievement
	a.EarnedAt = time.Now()
	res, err := s.exec(ctx, "insert achievement",
		`INSERT INTO achievements (user_id, badge_type, title, description, earned_at) VALUES (?, ?, ?, ?, ?)`,
		a.UserID, a.BadgeType, a.Title, a.Description, a.EarnedAt.UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("achievement last insert id: %w", err)
	}
	a.ID = int(id)
	return &a, nil
}

const postColumns = `id, user_id, project_id, title, content, type, category, tags, likes, views, created_at, updated_at`

func scanPost(row rowScanner) (*domain.CommunityPost, error) {
	var p domain.CommunityPost
	var projectID sql.NullInt64
	var tags string
	var createdAt, updatedAt int64
	if err := row.Scan(&p.ID, &p.UserID, &projectID, &p.Title, &p.Content, &p.Type, &p.Category,
		&tags, &p.Likes, &p.Views, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if projectID.Valid {
		id := int(projectID.Int64)
		p.ProjectID = &id
	}
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.CreatedAt = time.UnixMilli(createdAt)
	p.UpdatedAt = time.UnixMilli(updatedAt)
	return &p, nil
}

func (s *SQLiteStore) getPost(ctx context.Context, id int) (*domain.CommunityPost, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM community_posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan post row: %w", err)
	}
	return p, nil
}

// ListPosts returns community posts, newest first.
func (s *SQLiteStore) ListPosts(ctx context.Context) ([]*domain.CommunityPost, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM community_posts ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer closeRows(rows)

	posts := []*domain.CommunityPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

// CreatePost stores a community post.
func (s *SQLiteStore) CreatePost(ctx context.Context, post *domain.CommunityPost) (*domain.CommunityPost, error) {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	var projectID any
	if post.ProjectID != nil {
		projectID = *post.ProjectID
	}
	now := time.Now().UnixMilli()
	res, err := s.exec(ctx, "insert post",
		`INSERT INTO community_posts (user_id, project_id, title, content, type, category, tags, likes, views, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.UserID, projectID, post.Title, post.Content, post.Type, post.Category,
		string(encoded), post.Likes, post.Views, now, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("post last insert id: %w", err)
	}
	return s.getPost(ctx, int(id))
}

// LikePost increments a post's like counter.
func (s *SQLiteStore) LikePost(ctx context.Context, id int) (*domain.CommunityPost, error) {
	res, err := s.exec(ctx, "like post",
		`UPDATE community_posts SET likes = likes + 1, updated_at = ? WHERE id = ?`,
		time.Now().UnixMilli(), id,
	)
	if err != nil {
		return nil, err
	}
	if err := expectRow(res, "post", id); err != nil {
		return nil, err
	}
	return s.getPost(ctx, id)
}

func expectRow(res sql.Result, kind string, id any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
	}
	return nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Warn("failed to close rows", "error", err)
	}
}

func rawJSON(ns sql.NullString) json.RawMessage {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.RawMessage(ns.String)
}

func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
