// Package domain contains core domain types for the DataProSim platform.
package domain

import (
	"time"
)

// XPPerLevel is the amount of experience needed to advance one level.
const XPPerLevel = 1000

// Badge is an earned gamification badge embedded in a user record.
type Badge struct {
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	EarnedAt time.Time `json:"earnedAt"`
}

// User represents a learner on the platform.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Level     int       `json:"level"`
	XP        int       `json:"xp"`
	Badges    []Badge   `json:"badges"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddXP adds experience points and recomputes the level from the new total.
func (u *User) AddXP(xp int) {
	u.XP += xp
	if u.XP < 0 {
		u.XP = 0
	}
	u.Level = LevelForXP(u.XP)
}

// LevelForXP returns the level reached with the given experience total.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/XPPerLevel + 1
}

// Achievement is a badge award recorded for a user.
type Achievement struct {
	ID          int       `json:"id"`
	UserID      string    `json:"userId"`
	BadgeType   string    `json:"badgeType"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earnedAt"`
}
