// Package llm provides the provider abstraction Nebula uses to reach a remote
// text-generation service.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-4o-mini"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := provider.Complete(ctx, &llm.Request{
//	    Messages: []*llm.Message{llm.NewUserMessage("Hello!")},
//	})
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the service answers without any content.
var ErrEmptyResponse = errors.New("llm: empty response")

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversational turn.
type Message struct {
	Role    Role
	Content string
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// ResponseFormat constrains the reply to JSON matching Schema.
type ResponseFormat struct {
	Name   string
	Schema *Schema
}

// Request is a single non-streaming completion request.
type Request struct {
	Messages []*Message

	// Format is optional. When set, providers ask the service for JSON that
	// matches the schema and return the raw JSON text as the reply content.
	Format *ResponseFormat
}

// Provider defines the interface for LLM integrations.
//
// Providers only handle transport and wire formats; they do not interpret
// the content they return.
type Provider interface {
	// Complete sends the request and returns the assistant's reply.
	Complete(ctx context.Context, req *Request) (*Message, error)

	// Name returns the provider identifier, e.g. "openai" or "gemini".
	Name() string

	// GetModel returns the model name being used.
	GetModel() string
}
