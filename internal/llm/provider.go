// Package llm talks to hosted language models. Every backend returns JSON
// that has already been checked against the caller's schema, and the
// decorators in this package add retry and request logging on top.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call.
type Provider interface {
	// Generate sends req and returns the model output. With req.Schema set,
	// Content is a JSON object that validates against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider is configured to call.
	ModelID() string
}

// Request is a single-turn or short multi-turn prompt.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Prompt builds a request with one user message.
func Prompt(system, user string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: user}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema the output must satisfy. Name doubles as
// the tool or schema name on providers that require one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is the model output plus accounting.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
