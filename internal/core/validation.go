// AngelaMos | 2026
// validation.go

package core

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field path to every message reported for it.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		f[field] = append(f[field], msgs...)
	}
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Err returns nil when nothing was recorded.
func (f FieldErrors) Err() error {
	if f.Empty() {
		return nil
	}
	return ValidationError(f)
}

// embeddedMarker names embedded structs so their fields can be reported
// flat, the way encoding/json serializes them.
const embeddedMarker = "~"

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// NewValidator returns a validator that reports fields by their JSON name
// and knows the project's custom rules.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch {
		case name == "-":
			return ""
		case name == "" && fld.Anonymous:
			return embeddedMarker
		case name == "":
			return fld.Name
		}
		return name
	})

	//nolint:errcheck // registration only fails on an empty tag
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

// ValidateStruct runs struct validation and collects every failure.
func ValidateStruct(v *validator.Validate, s any) FieldErrors {
	fields := FieldErrors{}

	err := v.Struct(s)
	if err == nil {
		return fields
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add("non_field_errors", err.Error())
		return fields
	}

	for _, fe := range verrs {
		fields.Add(fieldPath(fe), messageFor(fe))
	}

	return fields
}

// FormatValidationError flattens a validator error into one line.
func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldPath(fe)+": "+messageFor(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		ns = ns[idx+1:]
	}
	return strings.ReplaceAll(ns, embeddedMarker+".", "")
}

func messageFor(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max", "lte":
		if isString {
			return fmt.Sprintf(
				"Ensure this field has no more than %s characters.",
				fe.Param(),
			)
		}
		return fmt.Sprintf(
			"Ensure this value is less than or equal to %s.",
			fe.Param(),
		)
	case "min", "gte":
		if isString && fe.Param() == "1" {
			return "This field may not be blank."
		}
		if isString {
			return fmt.Sprintf(
				"Ensure this field has at least %s characters.",
				fe.Param(),
			)
		}
		return fmt.Sprintf(
			"Ensure this value is greater than or equal to %s.",
			fe.Param(),
		)
	case "email":
		return "Enter a valid email address."
	case "uuid", "uuid4":
		return "Must be a valid UUID."
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "datetime":
		return "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	case "username":
		return "Enter a valid username. This value may contain only letters, " +
			"numbers, and @/./+/-/_ characters."
	default:
		return "Invalid value."
	}
}
