package models

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// emailPattern is the address shape accepted by the user store.
var emailPattern = regexp.MustCompile(`^[\w-]+(?:\.[\w-]+)*@(?:[\w-]+\.)+[a-zA-Z]{2,7}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("mailpattern", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks a record against its `validate` tags.
func Validate(record interface{}) error {
	if err := validate.Struct(record); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("validation failed: field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
