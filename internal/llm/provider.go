package llm

import (
	"context"
	"encoding/json"
)

// Provider is one model backend. Adapters translate Request into their
// SDK's call and normalize the answer; they never validate Content.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is a single generation call. Quiz generation sends one user
// message, with the source document attached when there is one.
type Request struct {
	System   string
	Messages []Message

	// Schema asks the adapter for its native structured output mode.
	Schema *Schema

	MaxTokens int

	// Temperature is sent only when positive.
	Temperature float64
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role        Role
	Content     string
	Attachments []Attachment
}

// Attachment is a document sent inline. Name is a label only.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Schema names a JSON Schema. Name doubles as the validator cache key, so
// two schemas must not share one.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	// Content is the raw model text, expected but not guaranteed to be
	// JSON when a Schema was sent.
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually served the call, which may differ
	// from ModelID for aliases.
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
