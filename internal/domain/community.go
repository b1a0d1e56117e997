package domain

import "time"

// CommunityPost is a forum post shared with the community.
type CommunityPost struct {
	ID        int       `json:"id"`
	UserID    string    `json:"userId"`
	ProjectID *int      `json:"projectId,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type,omitempty"`
	Category  string    `json:"category,omitempty"`
	Tags      []string  `json:"tags"`
	Likes     int       `json:"likes"`
	Views     int       `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
