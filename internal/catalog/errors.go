package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ValidationError is one problem found in a catalog document.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "catalog validation failed"
	}
	if len(ve) == 1 {
		return "catalog validation failed: " + ve[0].Error()
	}
	return fmt.Sprintf("catalog validation failed: %s (and %d more)", ve[0].Error(), len(ve)-1)
}

func fromValidator(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "document", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		message := "failed on " + fe.Tag()
		if fe.Param() != "" {
			message += "=" + fe.Param()
		}
		out = append(out, ValidationError{
			Field:   fe.Namespace(),
			Message: message,
			Rule:    fe.Tag(),
		})
	}
	return out
}
