package export

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mdabutalebdev/cv-maker/internal/labels"
	"github.com/mdabutalebdev/cv-maker/internal/rendering"
	"github.com/mdabutalebdev/cv-maker/internal/review"
	"github.com/mdabutalebdev/cv-maker/internal/types"
	"go.uber.org/atomic"
)

// ErrExportInProgress is returned when an export is requested while
// another one is still running.
var ErrExportInProgress = errors.New("export already in progress")

// ErrTargetNotFound is returned by the style pass when the rendered page
// has no #resume element.
var ErrTargetNotFound = rendering.ErrTargetNotFound

// Result is a finished export.
type Result struct {
	Filename    string
	ContentType string
	Format      Format
	Data        []byte
	// Fallback is set when the requested format failed and Data holds
	// the plain text document instead.
	Fallback bool
	Notice   string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithCatalog sets the catalog used for the fallback notice.
func WithCatalog(c *labels.Catalog) Option {
	return func(e *Exporter) { e.catalog = c }
}

// WithLogger sets the exporter logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) { e.logger = logger }
}

// WithPalette overrides the palette used for browser formats.
func WithPalette(p rendering.Palette) Option {
	return func(e *Exporter) { e.palette = p }
}

// WithLaTeXTemplate renders tex exports with a custom template file.
func WithLaTeXTemplate(path string) Option {
	return func(e *Exporter) { e.latexTemplate = path }
}

// Exporter turns the form document into a downloadable file. Only one
// export runs at a time.
type Exporter struct {
	renderer      Renderer
	catalog       *labels.Catalog
	logger        *slog.Logger
	palette       rendering.Palette
	latexTemplate string

	busy atomic.Bool
}

// New creates an exporter. A nil renderer makes every browser format fall
// back to plain text.
func New(renderer Renderer, opts ...Option) *Exporter {
	e := &Exporter{
		renderer: renderer,
		logger:   slog.Default(),
		palette:  rendering.SafePalette,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil {
		e.catalog = labels.English()
	}
	return e
}

// Busy reports whether an export is running.
func (e *Exporter) Busy() bool {
	return e.busy.Load()
}

// Export renders state in the requested format. Rendering failures are not
// returned: the plain text projection is exported instead, with a notice.
// The only errors are ErrExportInProgress, an unsupported format and a
// cancelled context.
func (e *Exporter) Export(ctx context.Context, state types.FormState, format Format) (*Result, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)

	p := review.Project(state)
	data, err := e.render(ctx, p, format)
	if err == nil {
		return &Result{
			Filename:    Filename(p.FirstName, p.LastName, format),
			ContentType: format.ContentType(),
			Format:      format,
			Data:        data,
		}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	e.logger.Warn("export failed; falling back to plain text", "format", format, "error", err)
	return &Result{
		Filename:    Filename(p.FirstName, p.LastName, FormatText),
		ContentType: FormatText.ContentType(),
		Format:      FormatText,
		Data:        []byte(p.PlainText()),
		Fallback:    true,
		Notice: e.catalog.Text(labels.NoticeExportFallback, map[string]any{
			"Format": strings.ToUpper(string(format)),
		}),
	}, nil
}

func (e *Exporter) render(ctx context.Context, p review.Projection, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(p.PlainText()), nil
	case FormatTeX:
		tex, err := rendering.RenderLaTeX(p, e.latexTemplate)
		return []byte(tex), err
	case FormatHTML:
		html, err := rendering.RenderHTML(p)
		return []byte(html), err
	}

	if e.renderer == nil {
		return nil, errors.New("no browser renderer configured")
	}
	html, err := rendering.RenderHTML(p)
	if err != nil {
		return nil, err
	}
	html, err = rendering.NeutralizeStyles(html, e.palette)
	if err != nil {
		return nil, err
	}
	data, err := e.renderer.Render(ctx, html, format)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("renderer returned an empty document")
	}
	return data, nil
}
