package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// renderScale is the device scale factor for rasterization; matches the
// doubled-resolution capture the report has always shipped with.
const renderScale = 2

// a4WidthIn and a4HeightIn are the PDF paper size in inches.
const (
	a4WidthIn  = 8.27
	a4HeightIn = 11.69
)

// ChromePipeline rasterizes pages and assembles the PDF with a headless
// Chrome instance. One browser is allocated up front and shared; each call
// runs in its own tab context.
type ChromePipeline struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	logger   *zap.Logger
}

// NewChromePipeline starts a headless allocator. execPath may be empty to
// use the Chrome found on PATH.
func NewChromePipeline(execPath string, logger *zap.Logger) *ChromePipeline {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromePipeline{allocCtx: allocCtx, cancel: cancel, logger: logger}
}

// Close releases the browser allocator.
func (p *ChromePipeline) Close() {
	p.cancel()
}

// Render loads the page document in a fresh tab and captures it as a PNG at
// the fixed scale factor.
func (p *ChromePipeline) Render(ctx context.Context, pageHTML string) ([]byte, error) {
	tabCtx, cancel := chromedp.NewContext(p.allocCtx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		tabCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(pageHTML))

	var bitmap []byte
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(pageWidthPx, 1123, chromedp.EmulateScale(renderScale)),
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.FullScreenshot(&bitmap, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp render: %w", err)
	}
	return bitmap, nil
}

// Assemble stitches the bitmaps into an A4 PDF, one image per page, in the
// order given. Images are width-fit; anything taller than a page clips.
func (p *ChromePipeline) Assemble(ctx context.Context, bitmaps [][]byte) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>` +
		`body{margin:0}` +
		`.sheet{page-break-after:always;overflow:hidden}` +
		`.sheet:last-child{page-break-after:auto}` +
		`.sheet img{width:100%;display:block}` +
		`</style></head><body>`)
	for _, bitmap := range bitmaps {
		sb.WriteString(`<div class="sheet"><img src="data:image/png;base64,`)
		sb.WriteString(base64.StdEncoding.EncodeToString(bitmap))
		sb.WriteString(`"></div>`)
	}
	sb.WriteString(`</body></html>`)

	tabCtx, cancel := chromedp.NewContext(p.allocCtx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		tabCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(sb.String()))

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(a4WidthIn).
				WithPaperHeight(a4HeightIn).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp assemble: %w", err)
	}
	return pdf, nil
}
