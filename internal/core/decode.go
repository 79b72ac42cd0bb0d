// AngelaMos | 2026
// decode.go

package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
)

const invalidBody = "Invalid request body"

var bodyValidator = NewValidator()

// DecodeJSON reads exactly one JSON value from the request body into dst.
// Members of the wrong JSON type are reported per field, merged with the
// struct's validation failures, instead of failing the whole body.
func DecodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return BadRequestError(invalidBody)
	}

	dec := json.NewDecoder(bytes.NewReader(body))

	var typeErr *json.UnmarshalTypeError
	if err := dec.Decode(dst); err != nil && !errors.As(err, &typeErr) {
		return BadRequestError(invalidBody)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return BadRequestError(invalidBody)
	}

	if typeErr != nil {
		return typeMismatch(body, dst)
	}
	return nil
}

// typeMismatch decodes each top-level member on its own so every
// mismatched field is found, not only the first one.
func typeMismatch(body []byte, dst any) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return BadRequestError(invalidBody)
	}

	target := reflect.TypeOf(dst).Elem()
	fields := FieldErrors{}

	for key, raw := range members {
		single, err := json.Marshal(map[string]json.RawMessage{key: raw})
		if err != nil {
			continue
		}

		scratch := reflect.New(target).Interface()
		var typeErr *json.UnmarshalTypeError
		if errors.As(json.Unmarshal(single, scratch), &typeErr) {
			fields.Add(mismatchPath(key, typeErr.Field), mismatchMessage(typeErr.Type))
		}
	}

	if fields.Empty() {
		return BadRequestError(invalidBody)
	}

	if target.Kind() == reflect.Struct {
		for field, msgs := range ValidateStruct(bodyValidator, dst) {
			if _, mismatched := fields[field]; !mismatched {
				fields[field] = msgs
			}
		}
	}

	return ValidationError(fields)
}

// mismatchPath keeps nested paths such as user.password and drops Go
// names of embedded structs.
func mismatchPath(key, field string) string {
	if strings.HasPrefix(field, key+".") {
		return field
	}
	return key
}

func mismatchMessage(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "Invalid value."
	}

	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return "A valid number is required."
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "A valid integer is required."
	case reflect.Bool:
		return "Must be a valid boolean."
	case reflect.String:
		return "Not a valid string."
	case reflect.Slice, reflect.Array:
		return "Expected a list of items."
	case reflect.Struct, reflect.Map:
		return "Invalid data. Expected a dictionary."
	default:
		return "Invalid value."
	}
}
