package domain

// Scoring configuration. Cut points are boundary-inclusive on the low side:
// a total of exactly TierCutLow still classifies as low. MaxScore is the sum
// of the per-question maxima (4 for cat count, 3 for the rest) and is used as
// the display denominator only.
const (
	TierCutLow    = 6
	TierCutMedium = 13
	MaxScore      = 19

	// FlagThreshold marks an individual answer as a highlighted risk row in
	// the report, independent of the overall tier.
	FlagThreshold = 2
)

// RiskLevel is the three-way classification derived from the total score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ClassifyScore maps a total score to its risk level.
func ClassifyScore(total int) RiskLevel {
	switch {
	case total <= TierCutLow:
		return RiskLow
	case total <= TierCutMedium:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// LabelKey returns the catalog key of the tier's display label.
func (r RiskLevel) LabelKey() string {
	return "risk." + string(r) + ".label"
}

// AssessmentKey returns the catalog key of the tier's assessment narrative.
func (r RiskLevel) AssessmentKey() string {
	return "risk." + string(r) + ".assessment"
}

// RecommendationKey returns the catalog key of the tier's recommendation text.
func (r RiskLevel) RecommendationKey() string {
	return "risk." + string(r) + ".recommendation"
}

// AdviceKey returns the catalog key of the tier's consultant advisory note.
func (r RiskLevel) AdviceKey() string {
	return "risk." + string(r) + ".advice"
}
