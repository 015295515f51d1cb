package llm

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/generative-ai-go/genai"
)

// jsonSchema is the subset of JSON Schema that maps onto genai.Schema.
type jsonSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Enum        []string               `json:"enum"`
	Items       *jsonSchema            `json:"items"`
	Properties  map[string]*jsonSchema `json:"properties"`
	Required    []string               `json:"required"`
}

// ResponseSchema converts a JSON Schema document into the Gemini response schema.
// Validation-only keywords (minimum, maxLength, ...) are dropped; the output is
// still checked against the full document after generation.
func ResponseSchema(doc []byte) (*genai.Schema, error) {
	var s jsonSchema
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("invalid JSON schema: %w", err)
	}
	return convertSchema(&s, "(root)")
}

func convertSchema(s *jsonSchema, path string) (*genai.Schema, error) {
	out := &genai.Schema{Description: s.Description}

	switch s.Type {
	case "object":
		out.Type = genai.TypeObject
		if len(s.Properties) > 0 {
			out.Properties = make(map[string]*genai.Schema, len(s.Properties))
			names := make([]string, 0, len(s.Properties))
			for name := range s.Properties {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				child, err := convertSchema(s.Properties[name], path+"."+name)
				if err != nil {
					return nil, err
				}
				out.Properties[name] = child
			}
		}
		out.Required = s.Required
	case "array":
		out.Type = genai.TypeArray
		if s.Items == nil {
			return nil, fmt.Errorf("schema %s: array without items", path)
		}
		items, err := convertSchema(s.Items, path+"[]")
		if err != nil {
			return nil, err
		}
		out.Items = items
	case "string":
		out.Type = genai.TypeString
		out.Enum = s.Enum
		if len(s.Enum) > 0 {
			out.Format = "enum"
		}
	case "number":
		out.Type = genai.TypeNumber
	case "integer":
		out.Type = genai.TypeInteger
	case "boolean":
		out.Type = genai.TypeBoolean
	default:
		return nil, fmt.Errorf("schema %s: unsupported type %q", path, s.Type)
	}
	return out, nil
}
