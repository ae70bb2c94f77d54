package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mdabutalebdev/cv-maker/internal/attachments"
	"github.com/mdabutalebdev/cv-maker/internal/export"
	"github.com/mdabutalebdev/cv-maker/internal/form"
	"github.com/mdabutalebdev/cv-maker/internal/navigation"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
	"github.com/mdabutalebdev/cv-maker/internal/wizard"
)

// ErrValidation is a request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// errNotFound is returned for ids that name no entry.
var errNotFound = errors.New("not found")

// HTTPStatus maps domain errors to HTTP status codes
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		fieldErr       *form.FieldError
		invalidStep    *steps.InvalidStepError
		lockedStep     *navigation.LockedStepError
		unsupportedFmt *export.UnsupportedFormatError
		unsupportedTyp *attachments.UnsupportedTypeError
		invalidRef     *attachments.InvalidRefError
		maxBytes       *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &fieldErr),
		errors.As(err, &unsupportedFmt), errors.As(err, &invalidRef):
		return http.StatusBadRequest
	case errors.As(err, &invalidStep), errors.Is(err, errNotFound),
		errors.Is(err, attachments.ErrNotFound), errors.Is(err, wizard.ErrUnknownExperience):
		return http.StatusNotFound
	case errors.As(err, &lockedStep), errors.Is(err, navigation.ErrForwardDisabled),
		errors.Is(err, export.ErrExportInProgress):
		return http.StatusConflict
	case errors.As(err, &unsupportedTyp):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, attachments.ErrTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, wizard.ErrAttachmentsDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// errorState names the wizard view state an error puts the client in.
func errorState(err error) string {
	var invalidStep *steps.InvalidStepError
	var missingComp *steps.MissingComponentError
	switch {
	case errors.As(err, &invalidStep):
		return wizard.StateInvalidStep
	case errors.As(err, &missingComp):
		return wizard.StateComponentMissing
	}
	return ""
}

// extractValidationErrors flattens validator errors into one ErrValidation.
func extractValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	fields := make([]string, 0, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "url":
			msgs = append(msgs, fe.Field()+" must be a valid URL")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return &ErrValidation{Field: strings.Join(fields, ","), Message: strings.Join(msgs, "; ")}
}
