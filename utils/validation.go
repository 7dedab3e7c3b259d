package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse(DateLayout, s)
		return err == nil
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := time.Parse("15:04", s)
		return err == nil
	})
	return v
}

// ValidateStruct runs the `validate` tags of s and returns one message per
// failing field, keyed by the field's json name.
func ValidateStruct(s interface{}) map[string]string {
	errs := make(map[string]string)
	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs["request"] = err.Error()
		return errs
	}
	for _, fe := range ve {
		errs[fe.Field()] = fieldMessage(fe)
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return field + " must be a valid email address"
	case "date":
		return field + " must use format YYYY-MM-DD"
	case "clock":
		return field + " must use format HH:MM"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// ParseDate parses an optional YYYY-MM-DD value. Empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
