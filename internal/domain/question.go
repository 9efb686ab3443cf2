package domain

// QuestionID identifies one of the six scored questions.
type QuestionID string

const (
	QuestionCatCount           QuestionID = "catCount"
	QuestionWindowBehavior     QuestionID = "windowBehavior"
	QuestionWindowStructure    QuestionID = "windowStructure"
	QuestionCatPersonality     QuestionID = "catPersonality"
	QuestionHighRiskEnv        QuestionID = "highRiskEnvironment"
	QuestionInstallExpectation QuestionID = "installExpectation"
)

// Option is one selectable answer. The option's value IS the stored score,
// not an index into the option list.
type Option struct {
	Value    int    `json:"value"`
	LabelKey string `json:"labelKey"`
}

// Question describes one scored question: its option set, the lowest value
// that counts as answered, and the value at which the report flags the row.
type Question struct {
	ID       QuestionID `json:"id"`
	TitleKey string     `json:"titleKey"`
	Options  []Option   `json:"options"`
	Min      int        `json:"min"`
	FlagAt   int        `json:"flagAt"`
}

// Questions holds the six scored questions in presentation order.
// Cat count starts at 1 because there is no "zero cats" household to assess.
var Questions = []Question{
	{
		ID:       QuestionCatCount,
		TitleKey: "q.catCount.title",
		Min:      1,
		FlagAt:   FlagThreshold,
		Options: []Option{
			{Value: 1, LabelKey: "q.catCount.opt1"},
			{Value: 2, LabelKey: "q.catCount.opt2"},
			{Value: 3, LabelKey: "q.catCount.opt3"},
			{Value: 4, LabelKey: "q.catCount.opt4"},
		},
	},
	{
		ID:       QuestionWindowBehavior,
		TitleKey: "q.windowBehavior.title",
		Min:      0,
		FlagAt:   FlagThreshold,
		Options: []Option{
			{Value: 0, LabelKey: "q.windowBehavior.opt0"},
			{Value: 1, LabelKey: "q.windowBehavior.opt1"},
			{Value: 2, LabelKey: "q.windowBehavior.opt2"},
			{Value: 3, LabelKey: "q.windowBehavior.opt3"},
		},
	},
	{
		ID:       QuestionWindowStructure,
		TitleKey: "q.windowStructure.title",
		Min:      0,
		FlagAt:   FlagThreshold,
		Options: []Option{
			{Value: 0, LabelKey: "q.windowStructure.opt0"},
			{Value: 1, LabelKey: "q.windowStructure.opt1"},
			{Value: 2, LabelKey: "q.windowStructure.opt2"},
			{Value: 3, LabelKey: "q.windowStructure.opt3"},
		},
	},
	{
		ID:       QuestionCatPersonality,
		TitleKey: "q.catPersonality.title",
		Min:      0,
		FlagAt:   FlagThreshold,
		Options: []Option{
			{Value: 0, LabelKey: "q.catPersonality.opt0"},
			{Value: 1, LabelKey: "q.catPersonality.opt1"},
			{Value: 2, LabelKey: "q.catPersonality.opt2"},
			{Value: 3, LabelKey: "q.catPersonality.opt3"},
		},
	},
	{
		ID:       QuestionHighRiskEnv,
		TitleKey: "q.highRiskEnvironment.title",
		Min:      0,
		FlagAt:   FlagThreshold,
		Options: []Option{
			{Value: 0, LabelKey: "q.highRiskEnvironment.opt0"},
			{Value: 1, LabelKey: "q.highRiskEnvironment.opt1"},
			{Value: 2, LabelKey: "q.highRiskEnvironment.opt2"},
			{Value: 3, LabelKey: "q.highRiskEnvironment.opt3"},
		},
	},
	{
		ID:       QuestionInstallExpectation,
		TitleKey: "q.installExpectation.title",
		Min:      0,
		FlagAt:   FlagThreshold,
		Options: []Option{
			{Value: 0, LabelKey: "q.installExpectation.opt0"},
			{Value: 1, LabelKey: "q.installExpectation.opt1"},
			{Value: 2, LabelKey: "q.installExpectation.opt2"},
			{Value: 3, LabelKey: "q.installExpectation.opt3"},
		},
	},
}

// QuestionByID returns the question definition for the given ID.
func QuestionByID(id QuestionID) (Question, bool) {
	for _, q := range Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Accepts reports whether v is a valid selected value for the question.
func (q Question) Accepts(v int) bool {
	for _, opt := range q.Options {
		if opt.Value == v {
			return true
		}
	}
	return false
}

// Max returns the highest option value of the question.
func (q Question) Max() int {
	max := 0
	for _, opt := range q.Options {
		if opt.Value > max {
			max = opt.Value
		}
	}
	return max
}
