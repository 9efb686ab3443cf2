package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"catsafe/internal/domain"
)

type mockPipeline struct {
	rendered  []string
	assembled int
	renderErr error
}

func (m *mockPipeline) Render(_ context.Context, pageHTML string) ([]byte, error) {
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	m.rendered = append(m.rendered, pageHTML)
	return []byte("bitmap"), nil
}

func (m *mockPipeline) Assemble(_ context.Context, bitmaps [][]byte) ([]byte, error) {
	m.assembled = len(bitmaps)
	return []byte("%PDF-stub"), nil
}

func samplePages() []domain.Page {
	return []domain.Page{
		{
			Kind:  domain.PageSummary,
			Title: "Cat Home Safety Assessment Report",
			Banner: &domain.Banner{
				Label:      "Safe & Stable Level",
				RiskLevel:  domain.RiskLow,
				TotalScore: 6,
				MaxScore:   domain.MaxScore,
			},
			Sections: []domain.Section{
				{Heading: "Score Breakdown", Table: &domain.Table{Rows: []domain.Row{
					{Cells: []string{"Window Behavior", "3 pts"}, Flagged: true},
					{Cells: []string{"Cat Personality", "1 pt"}},
				}}},
			},
		},
		{Kind: domain.PageBreeds, Title: "Reference (1): Cat Breed Analysis"},
		{Kind: domain.PageMultiCat, Title: "Reference (2): Multi-Cat Behavior Analysis"},
		{Kind: domain.PageImpact, Title: "Reference (3): Physical Impact Analysis"},
	}
}

func TestExportRendersPagesInOrder(t *testing.T) {
	pipeline := &mockPipeline{}
	exporter := NewExporter(pipeline, zap.NewNop())

	doc, err := exporter.Export(context.Background(), samplePages())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(doc) == 0 {
		t.Fatalf("empty document")
	}
	if len(pipeline.rendered) != 4 {
		t.Fatalf("rendered %d pages, want 4", len(pipeline.rendered))
	}
	if pipeline.assembled != 4 {
		t.Fatalf("assembled %d bitmaps, want 4", pipeline.assembled)
	}

	// Page order must match compose order.
	order := []string{"Assessment Report", "Breed Analysis", "Multi-Cat", "Physical Impact"}
	for i, fragment := range order {
		if !strings.Contains(pipeline.rendered[i], fragment) {
			t.Fatalf("page %d does not contain %q", i, fragment)
		}
	}
}

func TestExportPropagatesRenderFailure(t *testing.T) {
	pipeline := &mockPipeline{renderErr: errors.New("no browser")}
	exporter := NewExporter(pipeline, zap.NewNop())

	if _, err := exporter.Export(context.Background(), samplePages()); err == nil {
		t.Fatalf("expected render failure to propagate")
	}
	if pipeline.assembled != 0 {
		t.Fatalf("assemble ran after render failure")
	}
}

func TestRenderPageHTMLFlagsRows(t *testing.T) {
	html, err := renderPageHTML(samplePages()[0])
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, `class="flagged"`) {
		t.Fatalf("flagged row not marked in HTML")
	}
	if !strings.Contains(html, "Safe &amp; Stable Level") {
		t.Fatalf("banner label missing")
	}

	// Same page, same bytes: the exporter relies on deterministic dimensions.
	again, err := renderPageHTML(samplePages()[0])
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != again {
		t.Fatalf("page HTML not deterministic")
	}
}

func TestFilename(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	got := Filename("Flat 8, 12/F, Harbour View", date)
	if got != "assessment_Flat-8-12-F-Harbour-View_2024-06-01.pdf" {
		t.Fatalf("filename = %q", got)
	}

	// CJK contact details survive sanitization.
	got = Filename("九龍灣宏開道8號", date)
	if !strings.Contains(got, "九龍灣宏開道8號") {
		t.Fatalf("CJK contact mangled: %q", got)
	}

	if got := Filename("   ", date); got != "assessment_report_2024-06-01.pdf" {
		t.Fatalf("empty contact filename = %q", got)
	}
}

func TestDisabledPipeline(t *testing.T) {
	pipeline := NewDisabledPipeline("export disabled")
	if _, err := pipeline.Render(context.Background(), "<html></html>"); err == nil {
		t.Fatalf("expected render error")
	}
	if _, err := pipeline.Assemble(context.Background(), nil); err == nil {
		t.Fatalf("expected assemble error")
	}
}
