// Package gemini provides an LLM provider backed by the Google Gen AI SDK.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/entrhq/nebula/pkg/llm"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Provider implements llm.Provider for the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*options)

type options struct {
	model   string
	baseURL string
}

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(o *options) {
		o.model = model
	}
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(baseURL string) ProviderOption {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// NewProvider creates a Gemini provider. If apiKey is empty it falls back to
// GEMINI_API_KEY and then GOOGLE_API_KEY.
func NewProvider(ctx context.Context, apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (provide via parameter or GEMINI_API_KEY environment variable)")
	}

	o := &options{model: DefaultModel}
	for _, opt := range opts {
		opt(o)
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if o.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Provider{client: client, model: o.model}, nil
}

// Name returns "gemini".
func (p *Provider) Name() string {
	return "gemini"
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}

// Complete sends a single GenerateContent call. System messages become the
// system instruction; a response format becomes a JSON response schema.
func (p *Provider) Complete(ctx context.Context, req *llm.Request) (*llm.Message, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, fmt.Errorf("gemini: request has no messages")
	}

	contents, system := convertMessages(req.Messages)
	config := &genai.GenerateContentConfig{SystemInstruction: system}
	if req.Format != nil && req.Format.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = convertSchema(req.Format.Schema)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, llm.ErrEmptyResponse
	}
	return &llm.Message{Role: llm.RoleAssistant, Content: text}, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func convertMessages(messages []*llm.Message) ([]*genai.Content, *genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		part := &genai.Part{Text: msg.Content}
		switch msg.Role {
		case llm.RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, part)
		case llm.RoleAssistant:
			contents = append(contents, &genai.Content{Role: "model", Parts: []*genai.Part{part}})
		default:
			contents = append(contents, &genai.Content{Role: "user", Parts: []*genai.Part{part}})
		}
	}
	return contents, system
}

// convertSchema maps the provider-neutral schema onto genai.Schema, whose
// type names are upper case ("ARRAY", "OBJECT", ...).
func convertSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:     genai.Type(strings.ToUpper(s.Type)),
		Items:    convertSchema(s.Items),
		Required: append([]string(nil), s.Required...),
	}
	if len(s.Enum) > 0 {
		out.Enum = append([]string(nil), s.Enum...)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertSchema(prop)
		}
	}
	return out
}
