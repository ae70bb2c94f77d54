package rendering

import (
	"embed"
	"html/template"
	"strings"

	"github.com/mdabutalebdev/cv-maker/internal/review"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var htmlTemplate = template.Must(template.ParseFS(templateFiles, "templates/resume.html.tmpl"))

// TargetID is the id of the element the export renderer captures.
const TargetID = "resume"

// RenderHTML renders the projection as a standalone HTML page whose resume
// is wrapped in the #resume element.
func RenderHTML(p review.Projection) (string, error) {
	var sb strings.Builder
	if err := htmlTemplate.Execute(&sb, p); err != nil {
		return "", &TemplateError{Template: "resume.html.tmpl", Message: "execute failed", Cause: err}
	}
	return sb.String(), nil
}
