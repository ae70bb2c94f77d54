package rendering

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Palette is the fixed set of colors the export renderer is given.
type Palette struct {
	Text       string
	Link       string
	Background string
	Border     string
}

// SafePalette renders reliably in every rasterizer.
var SafePalette = Palette{
	Text:       "#1f2937",
	Link:       "#1d4ed8",
	Background: "#ffffff",
	Border:     "#d1d5db",
}

// dropped properties are removed outright.
var dropped = map[string]bool{
	"box-shadow":       true,
	"text-shadow":      true,
	"filter":           true,
	"backdrop-filter":  true,
	"mix-blend-mode":   true,
	"background-image": true,
}

// NeutralizeStyles rewrites an HTML page for export: page-level stylesheets
// and scripts are replaced by a base stylesheet built from palette, and every
// inline color, background and border color inside #resume is forced onto
// the palette. It fails with ErrTargetNotFound when #resume is missing.
func NeutralizeStyles(page string, palette Palette) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", &RenderError{Message: "failed to parse HTML", Cause: err}
	}

	target := doc.Find("#" + TargetID)
	if target.Length() == 0 {
		return "", ErrTargetNotFound
	}

	doc.Find("style, script, link[rel=stylesheet]").Remove()
	doc.Find("head").AppendHtml(baseStylesheet(palette))

	target.Find("*").AddSelection(target).Each(func(_ int, s *goquery.Selection) {
		style, ok := s.Attr("style")
		if !ok {
			return
		}
		isLink := goquery.NodeName(s) == "a"
		s.SetAttr("style", neutralizeDeclarations(style, palette, isLink))
	})

	html, err := doc.Html()
	if err != nil {
		return "", &RenderError{Message: "failed to serialize HTML", Cause: err}
	}
	return html, nil
}

func baseStylesheet(p Palette) string {
	return fmt.Sprintf(`<style>
body { margin: 0; font-family: Helvetica, Arial, sans-serif; color: %[1]s; background: %[3]s; }
#%[5]s { max-width: 56rem; margin: 0 auto; padding: 2rem; background: %[3]s; }
#%[5]s section { margin-bottom: 1.5rem; }
#%[5]s .entry { padding-left: 1.5rem; margin-bottom: 1rem; }
#%[5]s .pill { display: inline-block; padding: 0.25rem 0.75rem; border-radius: 9999px; margin: 0 0.5rem 0.5rem 0; border: 1px solid %[4]s; }
#%[5]s .meta { font-size: 0.875rem; }
#%[5]s a { color: %[2]s; }
</style>`, p.Text, p.Link, p.Background, p.Border, TargetID)
}

func neutralizeDeclarations(style string, p Palette, isLink bool) string {
	var out []string
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || dropped[name] {
			continue
		}

		switch {
		case name == "color":
			value = p.Text
			if isLink {
				value = p.Link
			}
		case name == "background" || name == "background-color":
			value = p.Background
		case borderShorthands[name]:
			value = neutralizeBorder(value, p.Border)
		case borderShorthands[strings.TrimSuffix(name, "-color")]:
			value = p.Border
		case name == "fill" || name == "stroke" || name == "caret-color" || name == "text-decoration-color":
			value = p.Text
		}
		out = append(out, name+": "+value)
	}
	return strings.Join(out, "; ")
}

// borderShorthands are the properties written as "width style color".
var borderShorthands = map[string]bool{
	"border":        true,
	"border-top":    true,
	"border-right":  true,
	"border-bottom": true,
	"border-left":   true,
	"outline":       true,
}

// neutralizeBorder keeps the width and style of a border shorthand and
// replaces its color.
func neutralizeBorder(value, color string) string {
	var kept []string
	for _, part := range splitCSSValue(value) {
		if isWidth(part) || isBorderStyle(part) {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return value
	}
	return strings.Join(append(kept, color), " ")
}

// splitCSSValue splits on spaces outside parentheses.
func splitCSSValue(value string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range value {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ' ':
			if depth == 0 {
				if part := value[start:i]; part != "" {
					parts = append(parts, part)
				}
				start = i + 1
			}
		}
	}
	if part := value[start:]; part != "" {
		parts = append(parts, part)
	}
	return parts
}

func isWidth(s string) bool {
	switch s {
	case "thin", "medium", "thick", "0":
		return true
	}
	return len(s) > 0 && (s[0] >= '0' && s[0] <= '9' || s[0] == '.')
}

func isBorderStyle(s string) bool {
	switch s {
	case "none", "hidden", "dotted", "dashed", "solid", "double", "groove", "ridge", "inset", "outset":
		return true
	}
	return false
}
