package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/mdabutalebdev/cv-maker/internal/rendering"
)

// DefaultChromeTimeout bounds a single browser render.
const DefaultChromeTimeout = 30 * time.Second

// Renderer rasterizes a prepared HTML page. The page always contains the
// #resume element.
type Renderer interface {
	Render(ctx context.Context, html string, format Format) ([]byte, error)
}

// ChromeRenderer renders with a headless Chrome/Chromium via chromedp.
// Requires Chrome/Chromium to be installed on the system.
type ChromeRenderer struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewChromeRenderer returns a renderer that gives up after timeout.
func NewChromeRenderer(timeout time.Duration, logger *slog.Logger) *ChromeRenderer {
	if timeout <= 0 {
		timeout = DefaultChromeTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromeRenderer{timeout: timeout, logger: logger}
}

// Render loads html into a blank tab and prints it to PDF or captures the
// #resume node as PNG.
func (r *ChromeRenderer) Render(ctx context.Context, html string, format Format) ([]byte, error) {
	if !format.NeedsBrowser() {
		return nil, &UnsupportedFormatError{Format: string(format)}
	}
	start := time.Now()
	r.logger.Debug("starting headless browser", "format", format)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	selector := "#" + rendering.TargetID
	var out []byte
	actions := []chromedp.Action{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
	}

	switch format {
	case FormatPDF:
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			out = buf
			return err
		}))
	case FormatPNG:
		actions = append(actions, chromedp.ScreenshotScale(selector, 2, &out, chromedp.ByQuery))
	}

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return nil, fmt.Errorf("browser rendering failed: %w", err)
	}

	r.logger.Debug("browser render complete", "format", format, "bytes", len(out), "duration", time.Since(start))
	return out, nil
}
