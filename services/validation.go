package services

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"tasklist/dto"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldNames maps request keys to dto.TaskFields struct fields.
var fieldNames = map[string]string{
	"description": "Description",
	"task":        "Task",
	"priority":    "Priority",
	"labels":      "Labels",
}

// decodeTaskFields type-checks the known keys of a raw field set and copies
// them into a dto.TaskFields. It returns the struct field names present.
// Keys other than the four task fields are ignored.
func decodeTaskFields(fields map[string]any) (dto.TaskFields, []string, error) {
	var out dto.TaskFields
	var present []string

	for key, raw := range fields {
		name, ok := fieldNames[key]
		if !ok {
			continue
		}
		switch key {
		case "description", "task":
			s, ok := raw.(string)
			if !ok {
				return out, nil, invalid(key, "must be a string")
			}
			if key == "description" {
				out.Description = s
			} else {
				out.Task = s
			}
		case "priority":
			f, ok := toFloat(raw)
			if !ok {
				return out, nil, invalid(key, "must be a number")
			}
			out.Priority = &f
		case "labels":
			labels, ok := toStrings(raw)
			if !ok {
				return out, nil, invalid(key, "must be an array of strings")
			}
			out.Labels = labels
		}
		present = append(present, name)
	}
	return out, present, nil
}

// validateCreate checks a complete field set for task creation.
func validateCreate(fields map[string]any) (dto.TaskFields, error) {
	tf, _, err := decodeTaskFields(fields)
	if err != nil {
		return tf, err
	}
	if err := validate.Struct(tf); err != nil {
		return tf, toValidationError(err)
	}
	return tf, nil
}

// validateUpdate checks only the fields supplied in a partial update.
func validateUpdate(fields map[string]any) (dto.TaskFields, []string, error) {
	tf, present, err := decodeTaskFields(fields)
	if err != nil {
		return tf, nil, err
	}
	if len(present) == 0 {
		return tf, nil, nil
	}
	if err := validate.StructPartial(tf, present...); err != nil {
		return tf, nil, toValidationError(err)
	}
	return tf, present, nil
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return invalid(fe.Field(), "is required")
	case "gte":
		return invalid(fe.Field(), "must be at least %s", fe.Param())
	default:
		return invalid(fe.Field(), "failed %q check", fe.Tag())
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toStrings(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return append([]string{}, s...), true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}
