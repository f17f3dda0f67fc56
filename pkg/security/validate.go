package security

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation tags understood by FormValidator.
const (
	TagName    = "contact_name"
	TagEmail   = "contact_email"
	TagPhone   = "contact_phone"
	TagSubject = "contact_subject"
	TagMessage = "contact_message"
)

var predicates = map[string]func(string) bool{
	TagName:    IsName,
	TagEmail:   IsEmail,
	TagPhone:   IsPhone,
	TagSubject: IsSubject,
	TagMessage: IsMessage,
}

// FormValidator runs the field predicates over tagged structs.
type FormValidator struct {
	validate *validator.Validate
}

func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	for tag, fn := range predicates {
		// RegisterValidation only fails on an empty tag or a nil func.
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		}, true)
	}
	return &FormValidator{validate: v}
}

// Invalid returns the json names of the rejected fields in declaration order.
// A nil slice means the struct passed every check.
func (f *FormValidator) Invalid(form any) []string {
	err := f.validate.Struct(form)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []string{"form"}
	}
	fields := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		fields = append(fields, e.Field())
	}
	return fields
}
