package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/dataprosimx/dataprosim/internal/domain"
	"github.com/google/uuid"
)

// FallbackMentorResponse is returned when no provider answers.
const FallbackMentorResponse = "I'm currently having trouble connecting to AI services. " +
	"Please try again in a moment, or contact support if the issue persists."

const (
	defaultTimeLimit = 10
	defaultXPReward  = 50
)

var fallbackTipTable = map[domain.TipCategory]struct {
	title, content string
	difficulty     domain.Difficulty
}{
	domain.CategoryDataUpload: {
		"Check Data Quality First",
		"Always examine your dataset for missing values, duplicates, and data types before analysis.",
		domain.Beginner,
	},
	domain.CategoryDataCleaning: {
		"Handle Missing Values Strategically",
		"Choose appropriate imputation methods based on data type and missingness patterns.",
		domain.Intermediate,
	},
	domain.CategoryEDA: {
		"Start with Summary Statistics",
		"Use describe() and info() to understand your data distribution and basic characteristics.",
		domain.Beginner,
	},
	domain.CategoryModeling: {
		"Split Data Before Preprocessing",
		"Always split your data into train/test sets before applying transformations to prevent data leakage.",
		domain.Intermediate,
	},
	domain.CategoryChartGeneration: {
		"Choose the Right Chart Type",
		"Use bar charts for categories, line charts for trends, and scatter plots for relationships.",
		domain.Beginner,
	},
}

// FallbackTips returns the canned tip for category, or an empty list for an
// unknown category.
func FallbackTips(category domain.TipCategory) []domain.ContextualTip {
	t, ok := fallbackTipTable[category]
	if !ok {
		return []domain.ContextualTip{}
	}
	return []domain.ContextualTip{{
		Type:       category,
		Title:      t.title,
		Content:    t.content,
		Actionable: true,
		Difficulty: t.difficulty,
	}}
}

// FallbackChallenge returns the fixed exploration challenge at difficulty.
func FallbackChallenge(difficulty domain.Difficulty, now time.Time) domain.MicroChallenge {
	return domain.MicroChallenge{
		ID:    challengeID("fallback", now),
		Title: "Data Exploration Challenge",
		Description: "Explore your dataset and identify the top 3 most interesting patterns or insights. " +
			"Document your findings with supporting evidence.",
		Difficulty: difficulty,
		BloomLevel: domain.Analyze,
		TimeLimit:  defaultTimeLimit,
		XPReward:   defaultXPReward,
		Hints: []string{
			"Look for correlations between variables",
			"Check for outliers or unusual patterns",
			"Examine the distribution of key variables",
		},
		ExpectedAnswer: "Three documented insights with supporting data",
		ValidationCriteria: []string{
			"Identified at least 3 patterns",
			"Provided supporting evidence",
			"Used appropriate analysis methods",
		},
	}
}

// challengeID builds "<prefix>_<unix-ms>_<9 random chars>".
func challengeID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), suffix)
}
