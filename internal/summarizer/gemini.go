package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	errorGeminiClientFormat = "creating gemini client: %w"
	errorGeminiCallFormat   = "gemini generate content: %w"
)

// GeminiCompleter generates content through the Gemini API.
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiCompleter constructs a completer backed by the Gemini developer API.
func NewGeminiCompleter(ctx context.Context, apiKey string, model string, temperature float64) (*GeminiCompleter, error) {
	return newGeminiCompleterWithConfig(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model, temperature)
}

func newGeminiCompleterWithConfig(ctx context.Context, clientConfig *genai.ClientConfig, model string, temperature float64) (*GeminiCompleter, error) {
	client, clientError := genai.NewClient(ctx, clientConfig)
	if clientError != nil {
		return nil, fmt.Errorf(errorGeminiClientFormat, clientError)
	}
	return &GeminiCompleter{client: client, model: model, temperature: float32(temperature)}, nil
}

// Complete sends the prompt with the system instruction attached and joins
// the text parts of the first candidate.
func (completer *GeminiCompleter) Complete(ctx context.Context, request CompletionRequest) (string, error) {
	temperature := completer.temperature
	generateConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: request.SystemInstruction}}},
		Temperature:       &temperature,
	}
	if request.MaxTokens > 0 {
		generateConfig.MaxOutputTokens = int32(request.MaxTokens)
	}
	response, callError := completer.client.Models.GenerateContent(ctx, completer.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: request.Prompt}}}},
		generateConfig,
	)
	if callError != nil {
		return "", fmt.Errorf(errorGeminiCallFormat, callError)
	}
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}
	var builder strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		if part != nil {
			builder.WriteString(part.Text)
		}
	}
	return builder.String(), nil
}
