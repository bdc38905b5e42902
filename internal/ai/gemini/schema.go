package gemini

import (
	"fmt"
	"sort"

	"google.golang.org/genai"
)

var schemaTypes = map[string]genai.Type{
	"object":  genai.TypeObject,
	"array":   genai.TypeArray,
	"string":  genai.TypeString,
	"integer": genai.TypeInteger,
	"number":  genai.TypeNumber,
	"boolean": genai.TypeBoolean,
}

// toSchema converts a JSON Schema object into the subset genai understands:
// type, description, enum, properties, required, items, minimum and maximum.
func toSchema(in map[string]any) (*genai.Schema, error) {
	out := &genai.Schema{}

	if raw, ok := in["type"]; ok {
		name, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("schema type must be a string, got %T", raw)
		}
		typ, ok := schemaTypes[name]
		if !ok {
			return nil, fmt.Errorf("unsupported schema type %q", name)
		}
		out.Type = typ
	}

	if desc, ok := in["description"].(string); ok {
		out.Description = desc
	}

	if raw, ok := in["enum"]; ok {
		values, err := stringList(raw)
		if err != nil {
			return nil, fmt.Errorf("enum: %w", err)
		}
		out.Enum = values
	}

	if raw, ok := in["required"]; ok {
		values, err := stringList(raw)
		if err != nil {
			return nil, fmt.Errorf("required: %w", err)
		}
		out.Required = values
	}

	if raw, ok := in["properties"]; ok {
		props, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("properties must be an object, got %T", raw)
		}

		out.Properties = make(map[string]*genai.Schema, len(props))
		keys := make([]string, 0, len(props))
		for key := range props {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			child, ok := props[key].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %q must be an object", key)
			}
			converted, err := toSchema(child)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", key, err)
			}
			out.Properties[key] = converted
		}
		// Gemini emits properties in this order.
		out.PropertyOrdering = keys
	}

	if raw, ok := in["items"]; ok {
		child, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("items must be an object, got %T", raw)
		}
		converted, err := toSchema(child)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		out.Items = converted
	}

	if v, ok := number(in["minimum"]); ok {
		out.Minimum = &v
	}
	if v, ok := number(in["maximum"]); ok {
		out.Maximum = &v
	}

	return out, nil
}

func stringList(raw any) ([]string, error) {
	switch values := raw.(type) {
	case []string:
		return append([]string(nil), values...), nil
	case []any:
		out := make([]string, 0, len(values))
		for _, v := range values {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", v)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", raw)
	}
}

func number(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
