package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedProvider indicates a summarizer provider name this build does not know.
var ErrUnsupportedProvider = errors.New("summarizer: unsupported provider")

// ErrMissingAPIKey indicates that no credential was found for the selected provider.
var ErrMissingAPIKey = errors.New("summarizer: missing API key")

// ErrInvalidTemperature indicates a negative sampling temperature.
var ErrInvalidTemperature = errors.New("summarizer: temperature must not be negative")

// ErrEmptyCompletion indicates that the backend answered without any text.
var ErrEmptyCompletion = errors.New("summarizer: empty completion")

const (
	// ProviderOpenAI selects the OpenAI chat completion backend.
	ProviderOpenAI = "openai"
	// ProviderGemini selects the Gemini generate-content backend.
	ProviderGemini = "gemini"

	// DefaultOpenAIModel is the chat model used when none is configured.
	DefaultOpenAIModel = "gpt-3.5-turbo"
	// DefaultGeminiModel is the Gemini model used when none is configured.
	DefaultGeminiModel = "gemini-2.5-flash"
	// DefaultTemperature is the sampling temperature used when none is configured.
	DefaultTemperature = 0.8

	openAIKeyVariable       = "OPENAI_API_KEY"
	legacyOpenAIKeyVariable = "API_KEY"
	geminiKeyVariable       = "GEMINI_API_KEY"

	errorProviderFormat = "%w: %q"
	errorAPIKeyFormat   = "%w: set %s"
	errorTemperature    = "%w: %v"
)

// CompletionRequest is a single system-instructed prompt with an output bound.
type CompletionRequest struct {
	SystemInstruction string
	Prompt            string
	MaxTokens         int
}

// Completer performs one request/response exchange with a language model.
type Completer interface {
	Complete(ctx context.Context, request CompletionRequest) (string, error)
}

// CompleterConfig selects and parameterizes a completion backend.
type CompleterConfig struct {
	Provider    string
	Model       string
	Temperature float64
}

// NewCompleter builds the backend named by config.Provider. Credentials are
// read through lookupEnvironment so callers decide where keys come from.
// Temperature is used as given; zero requests deterministic sampling.
func NewCompleter(ctx context.Context, config CompleterConfig, lookupEnvironment func(string) string) (Completer, error) {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}
	temperature := config.Temperature
	if temperature < 0 {
		return nil, fmt.Errorf(errorTemperature, ErrInvalidTemperature, temperature)
	}
	switch provider {
	case ProviderOpenAI:
		apiKey := firstNonEmpty(lookupEnvironment(openAIKeyVariable), lookupEnvironment(legacyOpenAIKeyVariable))
		if apiKey == "" {
			return nil, fmt.Errorf(errorAPIKeyFormat, ErrMissingAPIKey, openAIKeyVariable)
		}
		return NewOpenAICompleter(apiKey, firstNonEmpty(config.Model, DefaultOpenAIModel), temperature), nil
	case ProviderGemini:
		apiKey := lookupEnvironment(geminiKeyVariable)
		if apiKey == "" {
			return nil, fmt.Errorf(errorAPIKeyFormat, ErrMissingAPIKey, geminiKeyVariable)
		}
		return NewGeminiCompleter(ctx, apiKey, firstNonEmpty(config.Model, DefaultGeminiModel), temperature)
	default:
		return nil, fmt.Errorf(errorProviderFormat, ErrUnsupportedProvider, config.Provider)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
