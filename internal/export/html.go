package export

import (
	"fmt"
	"html/template"
	"strings"

	"catsafe/internal/domain"
)

// pageWidthPx is A4 portrait width at 96 DPI. Every page renders at this
// width so the rasterized bitmaps scale uniformly onto the PDF page.
const pageWidthPx = 794

var riskColors = map[domain.RiskLevel]string{
	domain.RiskLow:    "#16a34a",
	domain.RiskMedium: "#f59e0b",
	domain.RiskHigh:   "#dc2626",
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { margin: 0; width: {{.Width}}px; font-family: "Helvetica Neue", "PingFang TC", sans-serif; color: #1f2937; background: #ffffff; }
  .page { padding: 32px 40px; box-sizing: border-box; }
  h1 { font-size: 24px; margin: 0 0 4px; }
  .subtitle { font-size: 13px; color: #6b7280; margin-bottom: 20px; }
  .banner { border: 2px solid {{.BannerColor}}; border-radius: 8px; padding: 16px; margin-bottom: 20px; }
  .banner .label { display: inline-block; background: {{.BannerColor}}; color: #ffffff; border-radius: 999px; padding: 4px 12px; font-size: 14px; font-weight: 600; }
  .banner .score { font-size: 26px; font-weight: 700; margin-left: 12px; }
  .banner .max { font-size: 13px; color: #6b7280; }
  h2 { font-size: 15px; border-bottom: 1px solid #e5e7eb; padding-bottom: 6px; margin: 18px 0 8px; }
  p { font-size: 13px; line-height: 1.6; margin: 6px 0; }
  table { width: 100%; border-collapse: collapse; font-size: 13px; }
  th { text-align: left; color: #6b7280; font-weight: 500; border-bottom: 1px solid #e5e7eb; padding: 6px 8px; }
  td { padding: 6px 8px; border-bottom: 1px solid #f3f4f6; }
  tr.flagged td { background: #fef2f2; color: #dc2626; font-weight: 600; }
  .footer { margin-top: 24px; text-align: center; font-size: 13px; color: #6b7280; }
</style>
</head>
<body>
<div class="page">
  <h1>{{.Page.Title}}</h1>
  {{if .Page.Subtitle}}<div class="subtitle">{{.Page.Subtitle}}</div>{{end}}
  {{if .Page.Banner}}
  <div class="banner">
    <span class="label">{{.Page.Banner.Label}}</span>
    <span class="score">{{.Page.Banner.TotalScore}}</span>
    <span class="max">/ {{.Page.Banner.MaxScore}}</span>
  </div>
  {{end}}
  {{range .Page.Sections}}
    {{if .Heading}}<h2>{{.Heading}}</h2>{{end}}
    {{range .Paragraphs}}<p>{{.}}</p>{{end}}
    {{if .Table}}
    <table>
      {{if .Table.Columns}}<tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr>{{end}}
      {{range .Table.Rows}}<tr{{if .Flagged}} class="flagged"{{end}}>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>{{end}}
    </table>
    {{end}}
  {{end}}
  {{if .Page.Footer}}<div class="footer">{{.Page.Footer}}</div>{{end}}
</div>
</body>
</html>`))

type pageView struct {
	Page        domain.Page
	Width       int
	BannerColor string
}

// renderPageHTML produces the self-contained document for one page. The
// output is deterministic for a given page so the rasterized dimensions are
// stable across retries.
func renderPageHTML(page domain.Page) (string, error) {
	view := pageView{Page: page, Width: pageWidthPx, BannerColor: riskColors[domain.RiskLow]}
	if page.Banner != nil {
		if color, ok := riskColors[page.Banner.RiskLevel]; ok {
			view.BannerColor = color
		}
	}
	var sb strings.Builder
	if err := pageTemplate.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}
	return sb.String(), nil
}
