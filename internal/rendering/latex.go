package rendering

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/mdabutalebdev/cv-maker/internal/review"
)

// builtinLaTeX names the embedded template in errors.
const builtinLaTeX = "resume.tex.tmpl"

// RenderLaTeX renders the projection as a LaTeX document. An empty
// templatePath uses the built-in template.
func RenderLaTeX(p review.Projection, templatePath string) (string, error) {
	tmpl, name, err := parseLaTeXTemplate(templatePath)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, p); err != nil {
		return "", &TemplateError{Template: name, Message: "execute failed", Cause: err}
	}
	return out.String(), nil
}

func parseLaTeXTemplate(path string) (*template.Template, string, error) {
	name := builtinLaTeX
	var (
		content []byte
		err     error
	)
	if path == "" {
		content, err = templateFiles.ReadFile("templates/" + builtinLaTeX)
	} else {
		name = path
		content, err = os.ReadFile(path)
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, name, &TemplateError{Template: name, Message: "not found", Cause: err}
	case err != nil:
		return nil, name, &TemplateError{Template: name, Message: "read failed", Cause: err}
	}

	tmpl, err := template.New(name).Funcs(latexFuncs).Parse(string(content))
	if err != nil {
		return nil, name, &TemplateError{Template: name, Message: "parse failed", Cause: err}
	}
	return tmpl, name, nil
}

var latexFuncs = template.FuncMap{
	"escape": EscapeLaTeX,
	"url":    escapeURL,
	"join": func(items []string) string {
		escaped := make([]string, len(items))
		for i, item := range items {
			escaped[i] = EscapeLaTeX(item)
		}
		return strings.Join(escaped, ", ")
	},
}

// EscapeLaTeX escapes special LaTeX characters in text.
// Line breaks become forced line breaks.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{', '}', '$', '&', '%', '#', '_':
			result.WriteByte('\\')
			result.WriteRune(r)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '\r':
		case '\n':
			result.WriteString(`\\`)
			result.WriteByte('\n')
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// escapeURL escapes the characters hyperref cannot take verbatim.
func escapeURL(url string) string {
	return strings.NewReplacer("%", `\%`, "#", `\#`).Replace(url)
}
