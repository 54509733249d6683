// Package validation wraps go-playground/validator with JSON field names and
// per-field messages suitable for API responses.
//
//	type moodInput struct {
//	    Name string `json:"name" validate:"required,notblank,max=50"`
//	}
//
//	if err := validation.Struct(&input); err != nil {
//	    // err is a *validation.Error; err.Fields() maps "name" to a message.
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is matched by every *Error through errors.Is.
var ErrInvalid = errors.New("validation failed")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Error carries one message per offending field.
type Error struct {
	fields map[string]string
}

// NewError builds an Error from field messages.
func NewError(fields map[string]string) *Error {
	copied := make(map[string]string, len(fields))
	for field, message := range fields {
		copied[field] = message
	}
	return &Error{fields: copied}
}

// FieldError is NewError for a single field.
func FieldError(field string, message string) *Error {
	return &Error{fields: map[string]string{field: message}}
}

func (e *Error) Fields() map[string]string {
	return e.fields
}

func (e *Error) Error() string {
	if len(e.fields) == 0 {
		return ErrInvalid.Error()
	}
	names := make([]string, 0, len(e.fields))
	for name := range e.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, e.fields[name])
	}
	return strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Struct validates s and returns nil or an *Error.
func Struct(s any) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fieldErr := range validationErrs {
		name := rootFieldName(fieldErr.Field())
		if _, exists := fields[name]; exists {
			continue
		}
		fields[name] = translateError(fieldErr, name)
	}
	return &Error{fields: fields}
}

// Var validates a single value against tag and reports failures under name.
func Var(name string, value any, tag string) error {
	err := GetValidator().Var(value, tag)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	fieldErr := validationErrs[0]
	label := name
	if fieldErr.Field() != "" {
		label = fmt.Sprintf("each %s item", name)
	}
	return FieldError(name, message(fieldErr, label))
}

// Join merges the fields of several validation errors. Nil entries are
// skipped and any other error is returned as is.
func Join(errs ...error) error {
	fields := make(map[string]string)
	for _, err := range errs {
		if err == nil {
			continue
		}
		var validationErr *Error
		if !errors.As(err, &validationErr) {
			return err
		}
		for field, msg := range validationErr.fields {
			if _, exists := fields[field]; !exists {
				fields[field] = msg
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &Error{fields: fields}
}

func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// rootFieldName folds element errors such as "genres[2]" onto "genres".
func rootFieldName(field string) string {
	if index := strings.IndexByte(field, '['); index > 0 {
		return field[:index]
	}
	return field
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"notblank": "%s must not be blank",
	"email":    "%s must be a valid email address",
	"numeric":  "%s must be numeric",
}

var errorMessageWithParam = map[string]string{
	"oneof":    "%s must be one of: %s",
	"gte":      "%s must be greater than or equal to %s",
	"lte":      "%s must be less than or equal to %s",
	"eqfield":  "%s must match %s",
	"datetime": "%s must be a datetime in the layout %s",
}

func translateError(fe validator.FieldError, field string) string {
	if field != fe.Field() {
		field = fmt.Sprintf("each %s item", field)
	}
	return message(fe, field)
}

func message(fe validator.FieldError, field string) string {
	tag := fe.Tag()
	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, fe.Param())
	}
	return translateMinMax(fe, field, tag, fe.Param())
}

func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	var unit string
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array:
		unit = " items"
	}

	switch tag {
	case "min":
		return fmt.Sprintf("%s must contain at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must contain at most %s%s", field, param, unit)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
