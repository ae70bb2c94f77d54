package export

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mdabutalebdev/cv-maker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer records the pages it is given.
type fakeRenderer struct {
	mu      sync.Mutex
	pages   []string
	err     error
	release chan struct{}
	started chan struct{}
}

func (f *fakeRenderer) Render(ctx context.Context, html string, format Format) ([]byte, error) {
	f.mu.Lock()
	f.pages = append(f.pages, html)
	f.mu.Unlock()

	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%" + strings.ToUpper(string(format))), nil
}

func adaState() types.FormState {
	s := types.DefaultFormState()
	s.Experiences[0] = types.NewExperience(1)
	s.PersonalInfo.FirstName = "Ada"
	s.PersonalInfo.LastName = "Lovelace"
	s.CareerInfo.JobTitle = "Engineer"
	return s
}

func TestExport_BrowserFormats(t *testing.T) {
	renderer := &fakeRenderer{}
	exp := New(renderer)

	res, err := exp.Export(context.Background(), adaState(), FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "Ada_Lovelace_Resume.pdf", res.Filename)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, []byte("%PDF"), res.Data)
	assert.False(t, res.Fallback)
	assert.Empty(t, res.Notice)

	require.Len(t, renderer.pages, 1)
	page := renderer.pages[0]
	assert.Contains(t, page, `id="resume"`)
	assert.Contains(t, page, "Ada Lovelace")
	assert.NotContains(t, page, "oklch(", "page is neutralized before rendering")

	res, err = exp.Export(context.Background(), adaState(), FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, "Ada_Lovelace_Resume.png", res.Filename)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, []byte("%PNG"), res.Data)
	assert.False(t, res.Fallback)
	assert.Len(t, renderer.pages, 2)
}

func TestExport_NormalizesFormatName(t *testing.T) {
	tests := []struct {
		raw      Format
		want     Format
		filename string
		browser  bool
	}{
		{"HTML", FormatHTML, "Ada_Lovelace_Resume.html", false},
		{".html", FormatHTML, "Ada_Lovelace_Resume.html", false},
		{"TeX", FormatTeX, "Ada_Lovelace_Resume.tex", false},
		{"Text", FormatText, "Ada_Lovelace_Resume.txt", false},
		{"PDF", FormatPDF, "Ada_Lovelace_Resume.pdf", true},
		{" Png ", FormatPNG, "Ada_Lovelace_Resume.png", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.raw), func(t *testing.T) {
			renderer := &fakeRenderer{}
			res, err := New(renderer).Export(context.Background(), adaState(), tt.raw)
			require.NoError(t, err)

			assert.False(t, res.Fallback)
			assert.Empty(t, res.Notice)
			assert.Equal(t, tt.want, res.Format)
			assert.Equal(t, tt.filename, res.Filename)
			assert.Equal(t, tt.want.ContentType(), res.ContentType)
			if tt.browser {
				assert.Len(t, renderer.pages, 1)
			} else {
				assert.Empty(t, renderer.pages)
			}
		})
	}
}

func TestExport_RendererFailureFallsBackToText(t *testing.T) {
	exp := New(&fakeRenderer{err: errors.New("chrome not found")})

	res, err := exp.Export(context.Background(), adaState(), FormatPNG)
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Equal(t, FormatText, res.Format)
	assert.Equal(t, "Ada_Lovelace_Resume.txt", res.Filename)
	assert.Equal(t, "Ada Lovelace\nEngineer\n", string(res.Data))
	assert.Equal(t, "Could not generate PNG. A plain text resume was downloaded instead.", res.Notice)
	assert.False(t, exp.Busy())
}

func TestExport_NoRendererFallsBack(t *testing.T) {
	res, err := New(nil).Export(context.Background(), adaState(), FormatPDF)
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.Contains(t, res.Notice, "PDF")
}

func TestExport_LocalFormats(t *testing.T) {
	renderer := &fakeRenderer{}
	exp := New(renderer)

	res, err := exp.Export(context.Background(), adaState(), FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, "Ada_Lovelace_Resume.html", res.Filename)
	assert.Contains(t, string(res.Data), `<div id="resume"`)

	res, err = exp.Export(context.Background(), adaState(), FormatTeX)
	require.NoError(t, err)
	assert.Equal(t, "Ada_Lovelace_Resume.tex", res.Filename)
	assert.Contains(t, string(res.Data), `\documentclass`)

	res, err = exp.Export(context.Background(), adaState(), FormatText)
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, "Ada Lovelace\nEngineer\n", string(res.Data))

	assert.Empty(t, renderer.pages, "local formats never start the browser")
}

func TestExport_BadLaTeXTemplateFallsBack(t *testing.T) {
	exp := New(nil, WithLaTeXTemplate("/nonexistent/resume.tex"))

	res, err := exp.Export(context.Background(), adaState(), FormatTeX)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Notice, "TEX")
}

func TestExport_UnsupportedFormat(t *testing.T) {
	_, err := New(nil).Export(context.Background(), adaState(), Format("docx"))

	var unsupported *UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}

func TestExport_RefusesConcurrentExport(t *testing.T) {
	renderer := &fakeRenderer{release: make(chan struct{}), started: make(chan struct{})}
	exp := New(renderer)

	done := make(chan error, 1)
	go func() {
		_, err := exp.Export(context.Background(), adaState(), FormatPDF)
		done <- err
	}()

	select {
	case <-renderer.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first export never reached the renderer")
	}
	assert.True(t, exp.Busy())

	_, err := exp.Export(context.Background(), adaState(), FormatText)
	assert.ErrorIs(t, err, ErrExportInProgress)

	close(renderer.release)
	require.NoError(t, <-done)
	assert.False(t, exp.Busy())

	_, err = exp.Export(context.Background(), adaState(), FormatText)
	assert.NoError(t, err)
}

func TestExport_CancelledContext(t *testing.T) {
	renderer := &fakeRenderer{release: make(chan struct{})}
	exp := New(renderer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exp.Export(ctx, adaState(), FormatPDF)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, exp.Busy())
}
