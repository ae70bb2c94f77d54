//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// LintIssue is a review-time warning about a field value.
// Lint issues never block navigation; every field of the document is optional.
type LintIssue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Lint checks the document for malformed values (emails, URLs, unknown
// social platform) and returns one issue per offending field.
func (f *FormState) Lint() []LintIssue {
	validate := validator.New()
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []LintIssue{{Field: "(root)", Rule: "invalid", Message: err.Error()}}
	}

	issues := make([]LintIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, LintIssue{
			Field:   lintFieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: lintMessage(fe),
		})
	}
	return issues
}

// lintFieldPath drops the root struct name from a validator namespace.
func lintFieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func lintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return fmt.Sprintf("%q is not a valid email address", fe.Value())
	case "url":
		return fmt.Sprintf("%q is not a valid URL", fe.Value())
	case "oneof":
		return fmt.Sprintf("%q must be one of: %s", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
