package domain

import "strings"

// Unanswered is the sentinel for a scored question without a selection yet.
// It is valid only while the draft is being filled in; a submitted draft
// never carries it.
const Unanswered = -1

// Draft is the single mutable record of an intake session. Basic fields are
// kept text-encoded as entered; scored answers carry the selected option's
// point value directly.
type Draft struct {
	Address           string `json:"address"`
	BuildingType      string `json:"buildingType"`
	FloorLevel        string `json:"floorLevel"`
	WindowCount       string `json:"windowCount"`
	DoorCount         string `json:"doorCount"`
	HeaviestCatWeight string `json:"heaviestCatWeight"`

	CatCount           int `json:"catCount"`
	WindowBehavior     int `json:"windowBehavior"`
	WindowStructure    int `json:"windowStructure"`
	CatPersonality     int `json:"catPersonality"`
	HighRiskEnv        int `json:"highRiskEnvironment"`
	InstallExpectation int `json:"installExpectation"`
}

// NewDraft returns a draft with empty basic fields and every scored answer
// at the unanswered sentinel.
func NewDraft() Draft {
	return Draft{
		CatCount:           Unanswered,
		WindowBehavior:     Unanswered,
		WindowStructure:    Unanswered,
		CatPersonality:     Unanswered,
		HighRiskEnv:        Unanswered,
		InstallExpectation: Unanswered,
	}
}

// Answer returns the stored value for the given scored question.
func (d Draft) Answer(id QuestionID) int {
	switch id {
	case QuestionCatCount:
		return d.CatCount
	case QuestionWindowBehavior:
		return d.WindowBehavior
	case QuestionWindowStructure:
		return d.WindowStructure
	case QuestionCatPersonality:
		return d.CatPersonality
	case QuestionHighRiskEnv:
		return d.HighRiskEnv
	case QuestionInstallExpectation:
		return d.InstallExpectation
	}
	return Unanswered
}

// SetAnswer stores the value for the given scored question. Unknown IDs are
// ignored; domain validation happens at the stage transition, not here.
func (d *Draft) SetAnswer(id QuestionID, value int) {
	switch id {
	case QuestionCatCount:
		d.CatCount = value
	case QuestionWindowBehavior:
		d.WindowBehavior = value
	case QuestionWindowStructure:
		d.WindowStructure = value
	case QuestionCatPersonality:
		d.CatPersonality = value
	case QuestionHighRiskEnv:
		d.HighRiskEnv = value
	case QuestionInstallExpectation:
		d.InstallExpectation = value
	}
}

// TotalScore sums the six scored answers. It does not validate; callers
// finalize a draft only after every answer passed its question's domain check.
func (d Draft) TotalScore() int {
	return d.CatCount +
		d.WindowBehavior +
		d.WindowStructure +
		d.CatPersonality +
		d.HighRiskEnv +
		d.InstallExpectation
}

// MissingBasicFields returns the required basic fields that are still empty
// after trimming. DoorCount is optional and defaults to "0" at payload build.
func (d Draft) MissingBasicFields() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("address", d.Address)
	check("buildingType", d.BuildingType)
	check("floorLevel", d.FloorLevel)
	check("windowCount", d.WindowCount)
	check("heaviestCatWeight", d.HeaviestCatWeight)
	return missing
}

// InvalidAnswers returns the IDs of scored questions whose stored value is
// outside the question's declared domain (including the unanswered sentinel).
func (d Draft) InvalidAnswers() []QuestionID {
	var invalid []QuestionID
	for _, q := range Questions {
		if !q.Accepts(d.Answer(q.ID)) {
			invalid = append(invalid, q.ID)
		}
	}
	return invalid
}
