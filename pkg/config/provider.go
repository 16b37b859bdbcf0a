package config

import (
	"context"
	"fmt"
	"os"

	"github.com/entrhq/nebula/pkg/llm"
	"github.com/entrhq/nebula/pkg/llm/gemini"
	"github.com/entrhq/nebula/pkg/llm/openai"
)

// Overrides carries LLM settings given on the command line. Empty fields
// defer to the environment, then the config file, then defaults.
type Overrides struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// ResolvedLLM is the outcome of applying precedence to every LLM setting.
type ResolvedLLM struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// ResolveLLM applies CLI flags > environment > config file > defaults.
func ResolveLLM(o Overrides) ResolvedLLM {
	file := GetLLM()
	fromFile := func(get func(*LLMSection) string) string {
		if file == nil {
			return ""
		}
		return get(file)
	}

	r := ResolvedLLM{
		Provider: firstNonEmpty(o.Provider, fromFile((*LLMSection).GetProvider), ProviderOpenAI),
		Model:    firstNonEmpty(o.Model, fromFile((*LLMSection).GetModel)),
	}

	var envKey, envURL string
	switch r.Provider {
	case ProviderGemini:
		envKey = firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY"))
	default:
		envKey = os.Getenv("OPENAI_API_KEY")
		envURL = os.Getenv("OPENAI_BASE_URL")
	}

	r.APIKey = firstNonEmpty(o.APIKey, envKey, fromFile((*LLMSection).GetAPIKey))
	r.BaseURL = firstNonEmpty(o.BaseURL, envURL, fromFile((*LLMSection).GetBaseURL))

	if r.Model == "" {
		switch r.Provider {
		case ProviderGemini:
			r.Model = gemini.DefaultModel
		default:
			r.Model = openai.DefaultModel
		}
	}
	return r
}

// BuildProvider creates the configured LLM provider.
func BuildProvider(ctx context.Context, o Overrides) (llm.Provider, error) {
	r := ResolveLLM(o)

	if r.APIKey == "" {
		return nil, fmt.Errorf("API key is required for %s. Set it in the environment, pass --api-key, or add api_key to the llm section of ~/.nebula/config.json", r.Provider)
	}

	switch r.Provider {
	case ProviderOpenAI:
		opts := []openai.ProviderOption{openai.WithModel(r.Model)}
		if r.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(r.BaseURL))
		}
		provider, err := openai.NewProvider(r.APIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		return provider, nil

	case ProviderGemini:
		opts := []gemini.ProviderOption{gemini.WithModel(r.Model)}
		if r.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(r.BaseURL))
		}
		provider, err := gemini.NewProvider(ctx, r.APIKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider %q", r.Provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
