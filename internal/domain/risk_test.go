package domain

import "testing"

func TestClassifyScoreBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLow},
		{5, RiskLow},
		{TierCutLow, RiskLow},
		{TierCutLow + 1, RiskMedium},
		{TierCutMedium, RiskMedium},
		{TierCutMedium + 1, RiskHigh},
		{MaxScore, RiskHigh},
	}
	for _, tc := range cases {
		if got := ClassifyScore(tc.score); got != tc.want {
			t.Fatalf("ClassifyScore(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func tierRank(r RiskLevel) int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	default:
		return 2
	}
}

// Raising any single answer within its domain must never lower the tier.
func TestClassifyMonotonic(t *testing.T) {
	for _, q := range Questions {
		base := NewDraft()
		for _, other := range Questions {
			base.SetAnswer(other.ID, other.Min)
		}
		prev := ClassifyScore(base.TotalScore())
		for _, opt := range q.Options {
			base.SetAnswer(q.ID, opt.Value)
			got := ClassifyScore(base.TotalScore())
			if tierRank(got) < tierRank(prev) {
				t.Fatalf("tier dropped from %s to %s when %s = %d", prev, got, q.ID, opt.Value)
			}
			prev = got
		}
	}
}

func TestMaxScoreMatchesQuestionDomains(t *testing.T) {
	sum := 0
	for _, q := range Questions {
		sum += q.Max()
	}
	if sum != MaxScore {
		t.Fatalf("sum of question maxima = %d, MaxScore = %d", sum, MaxScore)
	}
}

func TestRiskLevelKeys(t *testing.T) {
	if got := RiskMedium.LabelKey(); got != "risk.medium.label" {
		t.Fatalf("unexpected label key %q", got)
	}
	if got := RiskHigh.AdviceKey(); got != "risk.high.advice" {
		t.Fatalf("unexpected advice key %q", got)
	}
}
