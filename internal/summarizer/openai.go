package summarizer

import (
	"context"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
)

const errorOpenAICallFormat = "openai chat completion: %w"

// OpenAICompleter sends chat completions through the OpenAI API.
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAICompleter constructs a completer for the given key and chat model.
func NewOpenAICompleter(apiKey string, model string, temperature float64) *OpenAICompleter {
	return newOpenAICompleterWithConfig(openai.DefaultConfig(apiKey), model, temperature)
}

func newOpenAICompleterWithConfig(clientConfig openai.ClientConfig, model string, temperature float64) *OpenAICompleter {
	return &OpenAICompleter{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: requestTemperature(temperature),
	}
}

// requestTemperature maps zero to the smallest positive float32 because the
// client omits a zero temperature and the API would apply its own default.
func requestTemperature(temperature float64) float32 {
	if temperature == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(temperature)
}

// Complete sends the system instruction and prompt as a two-message chat and
// returns the content of the single requested choice.
func (completer *OpenAICompleter) Complete(ctx context.Context, request CompletionRequest) (string, error) {
	chatRequest := openai.ChatCompletionRequest{
		Model: completer.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: request.SystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: request.Prompt},
		},
		Temperature: completer.temperature,
		N:           1,
	}
	if request.MaxTokens > 0 {
		chatRequest.MaxCompletionTokens = request.MaxTokens
	}
	response, callError := completer.client.CreateChatCompletion(ctx, chatRequest)
	if callError != nil {
		return "", fmt.Errorf(errorOpenAICallFormat, callError)
	}
	if len(response.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return response.Choices[0].Message.Content, nil
}
