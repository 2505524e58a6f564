package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type":        "object",
		"description": "a translation",
		"properties": map[string]any{
			"translation":    map[string]any{"type": "string"},
			"part_of_speech": map[string]any{"type": "string", "enum": []any{"noun", "verb"}},
			"examples":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"confidence":     map[string]any{"type": "number"},
		},
		"required": []any{"translation"},
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, "a translation", s.Description)
	require.Len(t, s.Properties, 4)
	assert.Equal(t, genai.TypeString, s.Properties["translation"].Type)
	assert.Equal(t, []string{"noun", "verb"}, s.Properties["part_of_speech"].Enum)
	assert.Equal(t, genai.TypeArray, s.Properties["examples"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["examples"].Items.Type)
	assert.Equal(t, genai.TypeNumber, s.Properties["confidence"].Type)
	assert.Equal(t, []string{"translation"}, s.Required)
}

func TestGeminiSchema_UnknownTypeFallsBackToString(t *testing.T) {
	assert.Equal(t, genai.TypeString, geminiSchema(map[string]any{"type": "null"}).Type)
	assert.Nil(t, stringList("not a list"))
}
