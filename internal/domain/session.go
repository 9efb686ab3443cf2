package domain

import "time"

// Stage is the wizard position of an intake session.
type Stage string

const (
	StageBasicInfo       Stage = "basic_info"
	StageScoredQuestions Stage = "scored_questions"
	StageConfirmation    Stage = "confirmation"
	StageSubmitted       Stage = "submitted"
)

// stageOrder fixes the linear wizard progression.
var stageOrder = []Stage{StageBasicInfo, StageScoredQuestions, StageConfirmation, StageSubmitted}

// StepIndex returns the zero-based wizard step of the stage.
func (s Stage) StepIndex() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return 0
}

// TotalSteps is the number of user-visible wizard steps (submitted is terminal,
// not a step of its own).
const TotalSteps = 3

// Outcome is the derived result fixed at submission time.
type Outcome struct {
	TotalScore     int       `json:"totalScore"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	SubmittedAt    time.Time `json:"submittedAt"`
	DispatchFailed bool      `json:"dispatchFailed"`
}

// Session is the server-held intake session: one draft, one locale, one
// wizard position. It has no identity beyond its lifetime in the store.
type Session struct {
	ID        string    `json:"id"`
	Locale    string    `json:"locale"`
	Stage     Stage     `json:"stage"`
	Draft     Draft     `json:"draft"`
	Outcome   *Outcome  `json:"outcome,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
