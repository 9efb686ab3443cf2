package service

import (
	"fmt"
	"strings"

	"catsafe/internal/domain"
	"catsafe/internal/i18n"
)

// ReportComposer builds the four report pages from a finalized draft. Page 1
// is personalized; pages 2-4 are locale-dependent reference material only.
// The page count and structure never vary with the locale, only the text.
type ReportComposer struct {
	translator *i18n.Translator
}

func NewReportComposer(translator *i18n.Translator) *ReportComposer {
	return &ReportComposer{translator: translator}
}

// impactRows is the physical reference table of page 4: behavior key,
// weight multiplier against the 4.5kg median cat.
var impactRows = []struct {
	key        string
	multiplier float64
}{
	{"ref3.static", 1},
	{"ref3.climb", 3},
	{"ref3.rush", 10},
	{"ref3.scratch", 5},
}

const medianCatWeightKg = 4.5

// Compose returns the report pages in their fixed export order.
func (c *ReportComposer) Compose(draft domain.Draft, outcome domain.Outcome, locale i18n.Locale) []domain.Page {
	return []domain.Page{
		c.summaryPage(draft, outcome, locale),
		c.breedsPage(locale),
		c.multiCatPage(locale),
		c.impactPage(locale),
	}
}

func (c *ReportComposer) summaryPage(draft domain.Draft, outcome domain.Outcome, locale i18n.Locale) domain.Page {
	t := func(key string) string { return c.translator.T(locale, key) }

	basicRows := []domain.Row{
		{Cells: []string{t("label.address"), draft.Address}},
		{Cells: []string{t("label.buildingType"), draft.BuildingType}},
		{Cells: []string{t("label.floor"), draft.FloorLevel}},
		{Cells: []string{t("label.windowCount"), draft.WindowCount + " " + t("unit.pieces")}},
		{Cells: []string{t("label.doorCount"), orZero(draft.DoorCount) + " " + t("unit.pieces")}},
		{Cells: []string{t("label.catCount"), fmt.Sprintf("%d %s", draft.CatCount, t("unit.cats"))}},
		{Cells: []string{t("label.heaviestCat"), draft.HeaviestCatWeight + " " + t("unit.kg")}},
	}

	var scoreRows []domain.Row
	for _, q := range domain.Questions {
		value := draft.Answer(q.ID)
		scoreRows = append(scoreRows, domain.Row{
			Cells:   []string{t("q." + string(q.ID) + ".label"), fmt.Sprintf("%d %s", value, t("unit.points"))},
			Flagged: value >= q.FlagAt,
		})
	}
	scoreRows = append(scoreRows, domain.Row{
		Cells: []string{
			t("report.totalScore"),
			fmt.Sprintf("%d / %d %s", outcome.TotalScore, domain.MaxScore, t("unit.points")),
		},
	})

	return domain.Page{
		Kind:     domain.PageSummary,
		Title:    t("report.title"),
		Subtitle: t("report.date") + " " + outcome.SubmittedAt.Format(i18n.DateLayout(locale)),
		Banner: &domain.Banner{
			Label:      t(outcome.RiskLevel.LabelKey()),
			RiskLevel:  outcome.RiskLevel,
			TotalScore: outcome.TotalScore,
			MaxScore:   domain.MaxScore,
		},
		Sections: []domain.Section{
			{Heading: t("report.assessment"), Paragraphs: []string{t(outcome.RiskLevel.AssessmentKey())}},
			{Heading: t("report.recommendation"), Paragraphs: []string{t(outcome.RiskLevel.RecommendationKey())}},
			{Heading: t("report.advice"), Paragraphs: []string{t(outcome.RiskLevel.AdviceKey())}},
			{Heading: t("report.basicInfo"), Table: &domain.Table{Rows: basicRows}},
			{Heading: t("report.scoreBreakdown"), Table: &domain.Table{Rows: scoreRows}},
		},
		Footer: t("report.thanks"),
	}
}

func (c *ReportComposer) breedsPage(locale i18n.Locale) domain.Page {
	t := func(key string) string { return c.translator.T(locale, key) }
	groups := []string{"ref1.high", "ref1.medium", "ref1.low", "ref1.mixed"}

	sections := make([]domain.Section, 0, len(groups)+1)
	for _, g := range groups {
		sections = append(sections, domain.Section{
			Heading:    t(g),
			Paragraphs: []string{t(g + ".breeds")},
		})
	}
	sections = append(sections, domain.Section{Paragraphs: []string{t("ref1.note")}})

	return domain.Page{
		Kind:     domain.PageBreeds,
		Title:    t("ref1.title"),
		Subtitle: t("ref1.desc"),
		Sections: sections,
	}
}

func (c *ReportComposer) multiCatPage(locale i18n.Locale) domain.Page {
	t := func(key string) string { return c.translator.T(locale, key) }
	groups := []string{"ref2.single", "ref2.double", "ref2.multiple"}

	sections := make([]domain.Section, 0, len(groups)+1)
	for _, g := range groups {
		sections = append(sections, domain.Section{
			Heading:    t(g),
			Paragraphs: []string{t(g + ".desc")},
		})
	}
	sections = append(sections, domain.Section{Paragraphs: []string{t("ref2.note")}})

	return domain.Page{
		Kind:     domain.PageMultiCat,
		Title:    t("ref2.title"),
		Subtitle: t("ref2.desc"),
		Sections: sections,
	}
}

func (c *ReportComposer) impactPage(locale i18n.Locale) domain.Page {
	t := func(key string) string { return c.translator.T(locale, key) }

	rows := make([]domain.Row, 0, len(impactRows))
	for _, r := range impactRows {
		impact := medianCatWeightKg * r.multiplier
		rows = append(rows, domain.Row{
			Cells: []string{
				t(r.key),
				fmt.Sprintf("x%g", r.multiplier),
				fmt.Sprintf("%.1f kg", impact),
				t(r.key + ".desc"),
			},
			Flagged: r.multiplier >= 10,
		})
	}

	return domain.Page{
		Kind:     domain.PageImpact,
		Title:    t("ref3.title"),
		Subtitle: t("ref3.desc"),
		Sections: []domain.Section{
			{
				Heading: t("ref3.basis"),
				Table: &domain.Table{
					Columns: []string{t("ref3.behavior"), t("ref3.multiplier"), t("ref3.impact"), t("ref3.description")},
					Rows:    rows,
				},
			},
			{Heading: t("ref3.extreme"), Paragraphs: []string{t("ref3.extreme.desc")}},
			{Heading: t("ref3.wear"), Paragraphs: []string{t("ref3.wear.desc")}},
			{Paragraphs: []string{t("ref3.disclaimer")}},
		},
		Footer: t("ref3.footer"),
	}
}

func orZero(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0"
	}
	return s
}
