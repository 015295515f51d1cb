package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseSchema_Object(t *testing.T) {
	doc := []byte(`{
		"type": "object",
		"properties": {
			"fit_score": {"type": "integer", "minimum": 0, "maximum": 100},
			"recommendation": {"type": "string", "enum": ["strong_fit", "medium_fit", "not_fit"]},
			"skills_detected": {"type": "array", "items": {"type": "string"}},
			"experience_years": {"type": "number"},
			"boolean_search_strings": {
				"type": "object",
				"properties": {"linkedin": {"type": "string"}}
			}
		},
		"required": ["fit_score", "recommendation"]
	}`)

	s, err := ResponseSchema(doc)
	require.NoError(t, err)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"fit_score", "recommendation"}, s.Required)
	assert.Equal(t, genai.TypeInteger, s.Properties["fit_score"].Type)
	assert.Equal(t, genai.TypeNumber, s.Properties["experience_years"].Type)

	rec := s.Properties["recommendation"]
	assert.Equal(t, genai.TypeString, rec.Type)
	assert.Equal(t, []string{"strong_fit", "medium_fit", "not_fit"}, rec.Enum)
	assert.Equal(t, "enum", rec.Format)

	skills := s.Properties["skills_detected"]
	assert.Equal(t, genai.TypeArray, skills.Type)
	require.NotNil(t, skills.Items)
	assert.Equal(t, genai.TypeString, skills.Items.Type)

	assert.Equal(t, genai.TypeString, s.Properties["boolean_search_strings"].Properties["linkedin"].Type)
}

func TestResponseSchema_Errors(t *testing.T) {
	_, err := ResponseSchema([]byte(`not json`))
	assert.Error(t, err)

	_, err = ResponseSchema([]byte(`{"type": "array"}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "without items")

	_, err = ResponseSchema([]byte(`{"type": "object", "properties": {"x": {"type": "null"}}}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "(root).x")
}
