package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		raw  string
		want Format
	}{
		{"pdf", FormatPDF},
		{"PNG", FormatPNG},
		{".html", FormatHTML},
		{" tex ", FormatTeX},
		{"txt", FormatText},
		{"text", FormatText},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("docx")
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "docx", unsupported.Format)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		last   string
		format Format
		want   string
	}{
		{"both names", "Ada", "Lovelace", FormatPDF, "Ada_Lovelace_Resume.pdf"},
		{"png", "Ada", "Lovelace", FormatPNG, "Ada_Lovelace_Resume.png"},
		{"unsafe characters dropped", "../Ada", "Love/lace", FormatText, "Ada_Lovelace_Resume.txt"},
		{"inner spaces", "Mary Ann", "O'Neil", FormatPDF, "Mary-Ann_O'Neil_Resume.pdf"},
		{"missing last name", "Ada", "  ", FormatPDF, "Ada_Resume.pdf"},
		{"no names", "", "", FormatHTML, "Resume.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.first, tt.last, tt.format))
		})
	}
}

func TestFormatProperties(t *testing.T) {
	assert.True(t, FormatPDF.NeedsBrowser())
	assert.True(t, FormatPNG.NeedsBrowser())
	assert.False(t, FormatHTML.NeedsBrowser())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Equal(t, "text/plain; charset=utf-8", FormatText.ContentType())
}
