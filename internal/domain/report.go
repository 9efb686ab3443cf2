package domain

// PageKind identifies one of the four report pages.
type PageKind string

const (
	PageSummary  PageKind = "summary"
	PageBreeds   PageKind = "breeds"
	PageMultiCat PageKind = "multicat"
	PageImpact   PageKind = "impact"
)

// Page is one self-contained renderable unit of the report. The exporter
// rasterizes pages independently and in order, so each page must hold one
// print page's worth of content.
type Page struct {
	Kind     PageKind  `json:"kind"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Banner   *Banner   `json:"banner,omitempty"`
	Sections []Section `json:"sections"`
	Footer   string    `json:"footer,omitempty"`
}

// Banner is the tier strip at the top of the summary page.
type Banner struct {
	Label      string    `json:"label"`
	RiskLevel  RiskLevel `json:"riskLevel"`
	TotalScore int       `json:"totalScore"`
	MaxScore   int       `json:"maxScore"`
}

// Section is a titled block of paragraphs and/or one table.
type Section struct {
	Heading    string   `json:"heading,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty"`
	Table      *Table   `json:"table,omitempty"`
}

// Table is a simple grid. A row may be flagged for highlighted rendering.
type Table struct {
	Columns []string `json:"columns,omitempty"`
	Rows    []Row    `json:"rows"`
}

type Row struct {
	Cells   []string `json:"cells"`
	Flagged bool     `json:"flagged,omitempty"`
}
