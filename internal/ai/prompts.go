package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dataprosimx/dataprosim/internal/domain"
)

// Sampling parameters per operation.
const (
	mentorMaxTokens      = 500
	mentorTemperature    = 0.7
	tipsMaxTokens        = 800
	tipsTemperature      = 0.8
	challengeMaxTokens   = 600
	challengeTemperature = 0.9
)

var tipPrompts = map[domain.TipCategory]string{
	domain.CategoryDataUpload:      "Generate 3 actionable tips for someone who just uploaded a dataset for data analysis.",
	domain.CategoryDataCleaning:    "Generate 3 tips for data cleaning and preprocessing based on common data quality issues.",
	domain.CategoryEDA:             "Generate 3 tips for effective exploratory data analysis and pattern discovery.",
	domain.CategoryModeling:        "Generate 3 tips for model selection, training, and evaluation best practices.",
	domain.CategoryChartGeneration: "Generate 3 tips for creating effective data visualizations and charts.",
}

func levelOrDefault(level int) int {
	if level <= 0 {
		return 1
	}
	return level
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// compactJSON renders raw as a single line, or as-is when it is not valid JSON.
func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func hasJSON(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null"
}

func mentorSystemPrompt(c *MentorContext) string {
	var b strings.Builder
	b.WriteString("You are DataProSimX AI Mentor, an expert data science tutor.\n\n")
	b.WriteString("Guidelines:\n")
	b.WriteString("- Provide clear, actionable guidance for data science tasks\n")
	b.WriteString("- Adapt your language to the user's experience level\n")
	b.WriteString("- Focus on practical, hands-on learning\n")
	b.WriteString("- Encourage exploration and experimentation\n")
	b.WriteString("- Use encouraging but professional tone\n")
	if c == nil {
		return b.String()
	}

	b.WriteString("\nContext:\n")
	fmt.Fprintf(&b, "- Project: %s\n", orDefault(c.ProjectTitle, "Data Analysis Project"))
	fmt.Fprintf(&b, "- Current Step: %s\n", orDefault(c.CurrentStep, "Getting Started"))
	fmt.Fprintf(&b, "- User Level: %d\n", levelOrDefault(c.UserLevel))
	if hasJSON(c.DatasetInfo) {
		fmt.Fprintf(&b, "- Dataset: %s\n", compactJSON(c.DatasetInfo))
	}
	return b.String()
}

func tipsSystemPrompt(req TipsRequest) string {
	var b strings.Builder
	b.WriteString("Generate contextual tips for data science workflow.\n\n")
	b.WriteString("Return a JSON array of exactly 3 tips with this structure:\n")
	b.WriteString(`[
  {
    "title": "Short actionable title",
    "content": "Detailed explanation (max 100 words)",
    "actionable": true/false,
    "difficulty": "beginner/intermediate/advanced"
  }
]`)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Context: %s\n", req.Type)
	fmt.Fprintf(&b, "User Level: %d\n", levelOrDefault(req.UserLevel))
	if hasJSON(req.DatasetInfo) {
		fmt.Fprintf(&b, "Dataset Info: %s\n", compactJSON(req.DatasetInfo))
	}
	return b.String()
}

func challengeSystemPrompt(req ChallengeRequest, difficulty domain.Difficulty, bloom domain.BloomLevel) string {
	var b strings.Builder
	b.WriteString("Generate a micro-challenge for data science learning.\n\n")
	b.WriteString("Return JSON with this exact structure:\n")
	b.WriteString(`{
  "title": "Challenge title",
  "description": "Clear challenge description with specific task",
  "timeLimit": 5,
  "xpReward": 50,
  "hints": ["hint1", "hint2", "hint3"],
  "expectedAnswer": "expected outcome or approach",
  "validationCriteria": ["criteria1", "criteria2"]
}`)
	b.WriteString("\n\nRequirements:\n")
	fmt.Fprintf(&b, "- Skill Area: %s\n", req.SkillArea)
	fmt.Fprintf(&b, "- Difficulty: %s\n", difficulty)
	fmt.Fprintf(&b, "- Bloom's Level: %s\n", bloom)
	fmt.Fprintf(&b, "- User Level: %d\n", req.UserLevel)
	if hasJSON(req.DatasetInfo) {
		fmt.Fprintf(&b, "- Dataset Available: %s\n", compactJSON(req.DatasetInfo))
	}
	b.WriteString("\nMake it practical, achievable in 5-15 minutes, and educational.")
	return b.String()
}

func challengePrompt(skillArea string, difficulty domain.Difficulty, bloom domain.BloomLevel) string {
	return fmt.Sprintf("Create a %s %s challenge focusing on %s level skills.", difficulty, skillArea, bloom)
}
