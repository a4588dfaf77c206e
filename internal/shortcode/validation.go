package shortcode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

var (
	// ErrUnknownParameter indicates the request supplied an unexpected parameter.
	ErrUnknownParameter = errors.New("shortcode: unknown parameter")
	// ErrMissingParameter indicates a required parameter was not provided.
	ErrMissingParameter = errors.New("shortcode: missing required parameter")
	// ErrParameterType indicates a parameter could not be coerced to the requested type.
	ErrParameterType = errors.New("shortcode: parameter type mismatch")
)

// Validator performs definition and parameter validation.
type Validator struct{}

// NewValidator returns a Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDefinition ensures the definition has a usable name, a handler and
// valid parameter definitions.
func (v *Validator) ValidateDefinition(def interfaces.ShortcodeDefinition) error {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if strings.ContainsAny(name, " \t\r\n[]=/\"'") {
		return fmt.Errorf("%w: name %q contains reserved characters", ErrInvalidDefinition, name)
	}
	if def.Handler == nil {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidDefinition, name)
	}

	return validateSchema(def.Schema)
}

func validateSchema(schema interfaces.ShortcodeSchema) error {
	seen := make(map[string]struct{})
	for _, param := range schema.Params {
		name := strings.TrimSpace(param.Name)
		if name == "" {
			return fmt.Errorf("%w: schema parameter name required", ErrInvalidDefinition)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate schema parameter %q", ErrInvalidDefinition, name)
		}
		seen[name] = struct{}{}

		switch param.Type {
		case interfaces.ShortcodeParamString,
			interfaces.ShortcodeParamInt,
			interfaces.ShortcodeParamBool,
			interfaces.ShortcodeParamArray:
		default:
			return fmt.Errorf("%w: parameter %q unknown type %q", ErrInvalidDefinition, name, param.Type)
		}
	}
	return nil
}

// CoerceParams validates user supplied parameters against the definition
// schema, returning a normalised map. Parameter names are matched case
// insensitively. With Schema.AllowUnknown, parameters outside the schema are
// kept as supplied.
func (v *Validator) CoerceParams(def interfaces.ShortcodeDefinition, supplied map[string]any) (map[string]any, error) {
	if err := v.ValidateDefinition(def); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(def.Schema.Params)+len(supplied))
	allowed := make(map[string]interfaces.ShortcodeParam, len(def.Schema.Params))
	for _, param := range def.Schema.Params {
		allowed[strings.ToLower(param.Name)] = param
		if value, ok := def.Schema.Defaults[param.Name]; ok {
			out[param.Name] = value
		} else if param.Default != nil {
			out[param.Name] = param.Default
		}
	}

	for key, value := range supplied {
		param, ok := allowed[strings.ToLower(key)]
		if !ok {
			if def.Schema.AllowUnknown {
				out[strings.ToLower(key)] = value
				continue
			}
			return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, key)
		}
		coerced, err := coerceValue(param.Type, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %v", ErrParameterType, key, err)
		}
		if param.Validate != nil {
			if err := param.Validate(coerced); err != nil {
				return nil, err
			}
		}
		out[param.Name] = coerced
	}

	for _, param := range def.Schema.Params {
		if param.Required {
			if _, ok := out[param.Name]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingParameter, param.Name)
			}
		}
	}

	return out, nil
}

func coerceValue(paramType interfaces.ShortcodeParamType, value any) (any, error) {
	switch paramType {
	case interfaces.ShortcodeParamString:
		return cast.ToStringE(value)
	case interfaces.ShortcodeParamInt:
		return cast.ToIntE(value)
	case interfaces.ShortcodeParamBool:
		return cast.ToBoolE(value)
	case interfaces.ShortcodeParamArray:
		return coerceArray(value)
	default:
		return nil, fmt.Errorf("unsupported parameter type %q", paramType)
	}
}

func coerceArray(value any) ([]any, error) {
	if s, ok := value.(string); ok {
		parts := strings.Split(s, ",")
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, nil
	}
	return cast.ToSliceE(value)
}
