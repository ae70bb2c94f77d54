// Package rendering turns a resume projection into HTML, LaTeX and the
// style-neutralized HTML handed to the export renderer.
package rendering

import (
	"errors"
	"fmt"
)

// ErrTargetNotFound is returned when a document has no #resume element.
var ErrTargetNotFound = errors.New("render target #resume not found")

// TemplateError reports a resume template that could not be read, parsed
// or executed. Template is the file path, or the embedded template name.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := fmt.Sprintf("template %s: %s", e.Template, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
