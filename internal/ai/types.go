// Package ai produces mentor answers, contextual tips and micro-challenges
// from an ordered chain of generation providers with static fallbacks.
package ai

import (
	"encoding/json"

	"github.com/dataprosimx/dataprosim/internal/domain"
)

// MentorRequest is a question for the AI mentor.
type MentorRequest struct {
	Message string         `json:"message"`
	Context *MentorContext `json:"context,omitempty"`
}

// MentorContext describes where the user is in their project.
type MentorContext struct {
	ProjectTitle string          `json:"projectTitle,omitempty"`
	CurrentStep  string          `json:"currentStep,omitempty"`
	DatasetInfo  json.RawMessage `json:"datasetInfo,omitempty"`
	UserLevel    int             `json:"userLevel,omitempty" validate:"omitempty,min=0"`
}

// MentorReply is a mentor answer and the provider that served it.
type MentorReply struct {
	Response string `json:"response"`
	// Source is a provider name or "fallback".
	Source string `json:"-"`
}

// TipsRequest asks for tips for one workflow stage.
type TipsRequest struct {
	Type          domain.TipCategory `json:"type" validate:"required,oneof=data_upload data_cleaning eda modeling chart_generation"`
	DatasetInfo   json.RawMessage    `json:"datasetInfo,omitempty"`
	UserLevel     int                `json:"userLevel,omitempty" validate:"omitempty,min=0"`
	RecentActions []string           `json:"recentActions,omitempty"`
}

// TipsResponse wraps generated tips.
type TipsResponse struct {
	Tips []domain.ContextualTip `json:"tips"`
}

// ChallengeRequest asks for a micro-challenge.
type ChallengeRequest struct {
	UserLevel   int             `json:"userLevel" validate:"required,min=1"`
	SkillArea   string          `json:"skillArea" validate:"required"`
	DatasetInfo json.RawMessage `json:"datasetInfo,omitempty"`
	// CompletedChallenges is accepted but does not influence generation.
	CompletedChallenges []string `json:"completedChallenges,omitempty"`
}

const (
	opMentor    = "mentor"
	opTips      = "tips"
	opChallenge = "challenge"

	// SourceFallback marks a reply served from static content.
	SourceFallback = "fallback"
)
