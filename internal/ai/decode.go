package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dataprosimx/dataprosim/internal/domain"
)

var errUnexpectedShape = errors.New("unexpected JSON shape")

type tipPayload struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Actionable bool   `json:"actionable"`
	Difficulty string `json:"difficulty"`
}

// tipList accepts either a bare array of tips or an object wrapping them
// under "tips".
type tipList []tipPayload

func (l *tipList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errUnexpectedShape
	}
	switch data[0] {
	case '[':
		var tips []tipPayload
		if err := json.Unmarshal(data, &tips); err != nil {
			return fmt.Errorf("decode tip array: %w", err)
		}
		*l = tips
	case '{':
		var wrapped struct {
			Tips []tipPayload `json:"tips"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fmt.Errorf("decode tip object: %w", err)
		}
		*l = wrapped.Tips
	default:
		return errUnexpectedShape
	}
	return nil
}

func decodeTips(text string, category domain.TipCategory) ([]domain.ContextualTip, error) {
	var list tipList
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &list); err != nil {
		return nil, err
	}
	tips := make([]domain.ContextualTip, 0, len(list))
	for _, t := range list {
		tips = append(tips, domain.ContextualTip{
			Type:       category,
			Title:      t.Title,
			Content:    t.Content,
			Actionable: t.Actionable,
			Difficulty: domain.Difficulty(t.Difficulty),
		})
	}
	return tips, nil
}

type challengePayload struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	TimeLimit          int      `json:"timeLimit"`
	XPReward           int      `json:"xpReward"`
	Hints              []string `json:"hints"`
	ExpectedAnswer     string   `json:"expectedAnswer"`
	ValidationCriteria []string `json:"validationCriteria"`
}

func decodeChallenge(text string) (challengePayload, error) {
	var p challengePayload
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &p); err != nil {
		return p, fmt.Errorf("decode challenge: %w", err)
	}
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" {
		return p, errors.New("challenge missing title or description")
	}
	return p, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
