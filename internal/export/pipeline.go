package export

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"catsafe/internal/domain"
)

// Pipeline is the narrow render/export boundary: rasterize one page, then
// assemble the bitmaps into a single paginated document. Pages are rendered
// independently at a fixed scale; the document paginates by page count, so
// content taller than one print page may clip.
type Pipeline interface {
	Render(ctx context.Context, pageHTML string) ([]byte, error)
	Assemble(ctx context.Context, bitmaps [][]byte) ([]byte, error)
}

// Exporter turns composed report pages into a downloadable PDF. Rendering
// and assembly keep the fixed page order; a failure anywhere surfaces as a
// retryable warning, never as a fatal state.
type Exporter struct {
	pipeline Pipeline
	logger   *zap.Logger
}

func NewExporter(pipeline Pipeline, logger *zap.Logger) *Exporter {
	return &Exporter{pipeline: pipeline, logger: logger}
}

// Export rasterizes each page in order and assembles the result.
func (e *Exporter) Export(ctx context.Context, pages []domain.Page) ([]byte, error) {
	bitmaps := make([][]byte, 0, len(pages))
	for _, page := range pages {
		html, err := renderPageHTML(page)
		if err != nil {
			return nil, fmt.Errorf("render page %s: %w", page.Kind, err)
		}
		bitmap, err := e.pipeline.Render(ctx, html)
		if err != nil {
			return nil, fmt.Errorf("rasterize page %s: %w", page.Kind, err)
		}
		bitmaps = append(bitmaps, bitmap)
	}

	start := time.Now()
	doc, err := e.pipeline.Assemble(ctx, bitmaps)
	if err != nil {
		return nil, fmt.Errorf("assemble document: %w", err)
	}
	if e.logger != nil {
		e.logger.Info("report exported",
			zap.Int("pages", len(pages)),
			zap.Int("bytes", len(doc)),
			zap.Duration("assembly", time.Since(start)),
		)
	}
	return doc, nil
}

var filenameSanitizer = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// Filename builds the download name from the contact field and the date,
// with filesystem-hostile characters collapsed to a dash.
func Filename(contact string, date time.Time) string {
	contact = filenameSanitizer.ReplaceAllString(strings.TrimSpace(contact), "-")
	contact = strings.Trim(contact, "-")
	if contact == "" {
		contact = "report"
	}
	return fmt.Sprintf("assessment_%s_%s.pdf", contact, date.Format("2006-01-02"))
}

type disabledPipeline struct {
	reason string
}

// NewDisabledPipeline returns a Pipeline that always fails with the given
// reason, for deployments without a rendering backend.
func NewDisabledPipeline(reason string) Pipeline {
	return &disabledPipeline{reason: reason}
}

func (p *disabledPipeline) Render(_ context.Context, _ string) ([]byte, error) {
	return nil, p.err()
}

func (p *disabledPipeline) Assemble(_ context.Context, _ [][]byte) ([]byte, error) {
	return nil, p.err()
}

func (p *disabledPipeline) err() error {
	if p.reason == "" {
		return errors.New("export pipeline disabled")
	}
	return errors.New(p.reason)
}
