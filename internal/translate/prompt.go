package translate

import (
	"fmt"
	"strings"

	"github.com/abhisek/palabra/internal/llm"
)

const systemPrompt = `You translate single words for language learners who tapped a word while reading or watching content.

Rules:
- Give the most common meaning of the word. If a context sentence is provided, give the meaning used there.
- The translation is one word or a short phrase in the target language, lower case unless it is a proper noun.
- part_of_speech is one of: noun, verb, adjective, adverb, pronoun, preposition, conjunction, determiner, interjection, other.
- example is a short, natural sentence in the source language that uses the word. Keep it at beginner level.`

// answerSchema is the structured output every provider must return.
var answerSchema = &llm.Schema{
	Name:        "word-translation",
	Description: "Translation of one word with its part of speech and an example sentence",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"translation": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"part_of_speech": map[string]any{
				"type": "string",
				"enum": []any{
					"noun", "verb", "adjective", "adverb", "pronoun", "preposition",
					"conjunction", "determiner", "interjection", "other",
				},
			},
			"example": map[string]any{
				"type": "string",
			},
		},
		"required":             []any{"translation", "part_of_speech", "example"},
		"additionalProperties": false,
	},
}

type answer struct {
	Translation  string `json:"translation"`
	PartOfSpeech string `json:"part_of_speech"`
	Example      string `json:"example"`
}

func userMessage(q Query) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Word: %s\n", q.Word)
	fmt.Fprintf(&b, "Source language: %s\n", q.From)
	fmt.Fprintf(&b, "Target language: %s\n", q.To)
	if q.Context != "" {
		fmt.Fprintf(&b, "Context: %s\n", q.Context)
	}
	return b.String()
}
