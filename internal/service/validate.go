package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phone09 = regexp.MustCompile(`^09[0-9]{8}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("phone09", func(fl validator.FieldLevel) bool {
		return phone09.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs struct-tag validation and reports the first failing
// field as ErrInvalidState.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("%v", err)
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return invalid("%s is required", field)
	case "min":
		return invalid("%s must be at least %s characters", field, fe.Param())
	case "max":
		return invalid("%s must be at most %s characters", field, fe.Param())
	case "url":
		return invalid("%s must be a valid URL", field)
	case "phone09":
		return invalid("%s must be 10 digits starting with 09", field)
	}
	return invalid("%s is invalid", field)
}
