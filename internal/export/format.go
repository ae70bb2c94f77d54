// Package export produces downloadable resume files from the form document.
package export

import (
	"fmt"
	"strings"
	"unicode"
)

// Format is an export file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatHTML Format = "html"
	FormatTeX  Format = "tex"
	FormatText Format = "txt"
)

// Formats lists the supported formats, browser formats first.
var Formats = []Format{FormatPDF, FormatPNG, FormatHTML, FormatTeX, FormatText}

// UnsupportedFormatError is returned for an unknown format name.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format: %q", e.Format)
}

// ParseFormat parses a format name, case-insensitively. A leading dot is
// accepted.
func ParseFormat(raw string) (Format, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), ".")
	if name == "text" {
		name = string(FormatText)
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", &UnsupportedFormatError{Format: raw}
}

// NeedsBrowser reports whether the format is produced by the Renderer.
func (f Format) NeedsBrowser() bool {
	return f == FormatPDF || f == FormatPNG
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatTeX:
		return "application/x-tex"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename returns "{first}_{last}_Resume.{ext}". Characters that are not
// safe in file names are dropped and empty name parts are skipped, so a
// document without a name exports as "Resume.{ext}".
func Filename(firstName, lastName string, f Format) string {
	var parts []string
	for _, name := range []string{firstName, lastName} {
		if clean := sanitizeName(name); clean != "" {
			parts = append(parts, clean)
		}
	}
	parts = append(parts, "Resume")
	return strings.Join(parts, "_") + "." + string(f)
}

func sanitizeName(name string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '\'':
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
