package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validationMessage turns the first field error into the message the web
// client shows the user.
func validationMessage(err error, fallback string) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fallback
	}

	fe := fieldErrs[0]
	switch {
	case (fe.Field() == "Password" || fe.Field() == "NewPassword") && fe.Tag() == "min":
		return "Password must be at least 6 characters long"
	case fe.Field() == "Email" && fe.Tag() == "email":
		return "A valid email address is required"
	default:
		return fallback
	}
}
