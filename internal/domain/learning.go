package domain

// Difficulty is the beginner/intermediate/advanced tier of tips and challenges.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// BloomLevel is a step of Bloom's taxonomy used to label challenges.
type BloomLevel string

const (
	Remember   BloomLevel = "remember"
	Understand BloomLevel = "understand"
	Apply      BloomLevel = "apply"
	Analyze    BloomLevel = "analyze"
	Evaluate   BloomLevel = "evaluate"
	Create     BloomLevel = "create"
)

var bloomLevels = []BloomLevel{Remember, Understand, Apply, Analyze, Evaluate, Create}

// TipCategory is the workflow stage a contextual tip belongs to.
type TipCategory string

const (
	CategoryDataUpload      TipCategory = "data_upload"
	CategoryDataCleaning    TipCategory = "data_cleaning"
	CategoryEDA             TipCategory = "eda"
	CategoryModeling        TipCategory = "modeling"
	CategoryChartGeneration TipCategory = "chart_generation"
)

// Valid reports whether c is one of the known categories.
func (c TipCategory) Valid() bool {
	switch c {
	case CategoryDataUpload, CategoryDataCleaning, CategoryEDA, CategoryModeling, CategoryChartGeneration:
		return true
	}
	return false
}

// ContextualTip is a short piece of workflow advice.
type ContextualTip struct {
	Type       TipCategory `json:"type"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Actionable bool        `json:"actionable"`
	Difficulty Difficulty  `json:"difficulty"`
}

// MicroChallenge is a short, timed learning exercise.
type MicroChallenge struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Difficulty         Difficulty `json:"difficulty"`
	BloomLevel         BloomLevel `json:"bloomLevel"`
	TimeLimit          int        `json:"timeLimit"`
	XPReward           int        `json:"xpReward"`
	Hints              []string   `json:"hints"`
	ExpectedAnswer     string     `json:"expectedAnswer,omitempty"`
	ValidationCriteria []string   `json:"validationCriteria"`
}

// DifficultyForLevel maps a user level onto a difficulty tier.
func DifficultyForLevel(level int) Difficulty {
	switch {
	case level <= 2:
		return Beginner
	case level <= 5:
		return Intermediate
	default:
		return Advanced
	}
}

// BloomLevelForLevel maps a user level onto Bloom's taxonomy, saturating at Create.
func BloomLevelForLevel(level int) BloomLevel {
	idx := min(level-1, len(bloomLevels)-1)
	if idx < 0 {
		idx = 0
	}
	return bloomLevels[idx]
}
