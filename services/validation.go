package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notdigitprefix", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || s[0] < '0' || s[0] > '9'
	})
	_ = v.RegisterValidation("last4", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 4 {
			return false
		}
		for i := 0; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
		return true
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// fieldErrors runs struct validation and returns the individual failures, or
// nil when the value is valid.
func fieldErrors(s any) validator.ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return validator.ValidationErrors{}
}

// firstMatching returns the first failure whose tag is one of tags.
func firstMatching(errs validator.ValidationErrors, tags ...string) validator.FieldError {
	for _, fe := range errs {
		for _, tag := range tags {
			if fe.Tag() == tag {
				return fe
			}
		}
	}
	return nil
}
