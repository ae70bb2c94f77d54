package export

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireChrome(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("Chrome/Chromium not installed")
}

func TestChromeRenderer_PDF(t *testing.T) {
	requireChrome(t)

	r := NewChromeRenderer(20*time.Second, nil)
	data, err := r.Render(context.Background(), `<html><body><div id="resume"><h1>Ada</h1></div></body></html>`, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestChromeRenderer_PNG(t *testing.T) {
	requireChrome(t)

	r := NewChromeRenderer(20*time.Second, nil)
	data, err := r.Render(context.Background(), `<html><body><div id="resume"><h1>Ada</h1></div></body></html>`, FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestChromeRenderer_MissingTargetTimesOut(t *testing.T) {
	requireChrome(t)

	r := NewChromeRenderer(2*time.Second, nil)
	_, err := r.Render(context.Background(), `<html><body><p>nothing</p></body></html>`, FormatPNG)
	assert.Error(t, err)
}

func TestChromeRenderer_RejectsLocalFormats(t *testing.T) {
	_, err := NewChromeRenderer(0, nil).Render(context.Background(), "", FormatHTML)

	var unsupported *UnsupportedFormatError
	assert.ErrorAs(t, err, &unsupported)
}
