package domain

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var linkedInPattern = regexp.MustCompile(`(?i)^https?://(www\.)?linkedin\.com/`)

var linkedIn validator.Func = func(fl validator.FieldLevel) bool {
	return linkedInPattern.MatchString(fl.Field().String())
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("linkedin", linkedIn); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the `validate` tags of forms before they are submitted to the BFF.
func Validate(v any) error {
	return validate.Struct(v)
}
