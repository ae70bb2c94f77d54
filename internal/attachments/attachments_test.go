package attachments

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n")
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "attachments"), 1024)
	require.NoError(t, err)
	return s
}

func TestSave_AcceptsAllowedTypes(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name        string
		data        []byte
		contentType string
	}{
		{"certificate.PNG", pngBytes, "image/png"},
		{"photo.jpg", jpegBytes, "image/jpeg"},
		{"photo.jpeg", jpegBytes, "image/jpeg"},
		{"award.pdf", pdfBytes, "application/pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att, err := s.Save(tt.name, bytes.NewReader(tt.data))
			require.NoError(t, err)

			assert.NoError(t, ValidateRef(att.Ref))
			assert.Equal(t, strings.ToLower(filepath.Ext(tt.name)), filepath.Ext(att.Ref))
			assert.Equal(t, tt.name, att.Name)
			assert.Equal(t, tt.contentType, att.ContentType)
			assert.Equal(t, int64(len(tt.data)), att.Size)

			stored, err := os.ReadFile(filepath.Join(s.Dir(), att.Ref))
			require.NoError(t, err)
			assert.Equal(t, tt.data, stored)
		})
	}
}

func TestSave_Rejects(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Save("notes.txt", strings.NewReader("hello"))
	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Empty(t, unsupported.Detected)

	_, err = s.Save("fake.png", bytes.NewReader(pdfBytes))
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "application/pdf", unsupported.Detected)

	_, err = s.Save("huge.pdf", io.MultiReader(bytes.NewReader(pdfBytes), bytes.NewReader(make([]byte, 2048))))
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads leave nothing behind")
}

func TestOpenAndDelete(t *testing.T) {
	s := newTestStore(t)
	att, err := s.Save("award.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)

	f, info, err := s.Open(att.Ref)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)
	assert.Equal(t, "application/pdf", info.ContentType)
	assert.Equal(t, int64(len(pdfBytes)), info.Size)

	require.NoError(t, s.Delete(att.Ref))
	assert.ErrorIs(t, s.Delete(att.Ref), ErrNotFound)

	_, _, err = s.Open(att.Ref)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidateRef(t *testing.T) {
	assert.NoError(t, ValidateRef("0b6f3c2e-8f4d-4f7e-9a51-2c7b5d9e1a30.png"))

	var invalid *InvalidRefError
	for _, ref := range []string{"", "../etc/passwd", "0b6f3c2e-8f4d-4f7e-9a51-2c7b5d9e1a30.exe", "photo.png", "a/0b6f3c2e-8f4d-4f7e-9a51-2c7b5d9e1a30.png"} {
		assert.ErrorAs(t, ValidateRef(ref), &invalid, ref)
	}

	s := newTestStore(t)
	_, _, err := s.Open("../secret.pdf")
	assert.ErrorAs(t, err, &invalid)
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)
	keep, err := s.Save("a.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	drop, err := s.Save("b.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "README"), []byte("x"), 0o644))

	removed, err := s.Prune([]string{keep.Ref})
	require.NoError(t, err)
	assert.Equal(t, []string{drop.Ref}, removed)

	_, err = os.Stat(filepath.Join(s.Dir(), keep.Ref))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(s.Dir(), "README"))
	assert.NoError(t, err, "unrelated files are left alone")
}
