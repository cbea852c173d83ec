// Package summarizer asks a language model to describe source files and the
// declarations they contain.
package summarizer

import (
	"context"
	"fmt"

	"github.com/temirov/sigmap/internal/tokenizer"
	"go.uber.org/zap"
)

const (
	// DefaultFileMaxTokens bounds the length of a file description.
	DefaultFileMaxTokens = 300
	// DefaultFunctionsMaxTokens bounds the length of the declaration description object.
	DefaultFunctionsMaxTokens = 1000
	// DefaultInputTokenLimit bounds the source text sent in a single request.
	DefaultInputTokenLimit = 12000

	fileSystemInstruction      = "given a typescript file, give a detailed, but concise summary of what the file does, keep it to the most relevant details. assume that the function per function description is done elsewhere"
	functionsSystemInstruction = "given a typescript file, give a brief summary of what each function does, in one, two, maximum three sentences. be as detailed and concise as possible. Your output should be a json object matching function name to description. ALWAYS ESCAPE PROPERLY FOR THE JSON FORMAT"

	codeFenceOpening = "```ts\n"
	codeFenceClosing = "\n```\n"

	errorFileSummaryFormat      = "summarizing file: %w"
	errorFunctionsSummaryFormat = "summarizing declarations: %w"
	errorTruncateFormat         = "truncating summarizer input: %w"
	debugInputTruncated         = "summarizer input truncated"
)

// Summarizer describes a whole file and the named declarations inside it.
type Summarizer interface {
	SummarizeFile(ctx context.Context, contents string) (string, error)
	SummarizeFunctions(ctx context.Context, contents string) (map[string]string, error)
}

// Config bounds requests and responses of a LanguageModelSummarizer.
type Config struct {
	FileMaxTokens      int
	FunctionsMaxTokens int
	InputTokenLimit    int
}

// LanguageModelSummarizer implements Summarizer on top of a Completer.
type LanguageModelSummarizer struct {
	completer Completer
	counter   tokenizer.Counter
	config    Config
	logger    *zap.Logger
}

// NewSummarizer wires a Completer with an optional token counter used to
// truncate oversized inputs. Zero limits fall back to the package defaults.
func NewSummarizer(completer Completer, counter tokenizer.Counter, config Config, logger *zap.Logger) *LanguageModelSummarizer {
	if config.FileMaxTokens <= 0 {
		config.FileMaxTokens = DefaultFileMaxTokens
	}
	if config.FunctionsMaxTokens <= 0 {
		config.FunctionsMaxTokens = DefaultFunctionsMaxTokens
	}
	if config.InputTokenLimit <= 0 {
		config.InputTokenLimit = DefaultInputTokenLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LanguageModelSummarizer{completer: completer, counter: counter, config: config, logger: logger}
}

// SummarizeFile returns a short prose description of contents.
func (summarizer *LanguageModelSummarizer) SummarizeFile(ctx context.Context, contents string) (string, error) {
	prompt, promptError := summarizer.prompt(contents)
	if promptError != nil {
		return "", promptError
	}
	response, completeError := summarizer.completer.Complete(ctx, CompletionRequest{
		SystemInstruction: fileSystemInstruction,
		Prompt:            prompt,
		MaxTokens:         summarizer.config.FileMaxTokens,
	})
	if completeError != nil {
		return "", fmt.Errorf(errorFileSummaryFormat, completeError)
	}
	return response, nil
}

// SummarizeFunctions returns descriptions keyed by declaration name. A
// malformed model response yields an empty mapping rather than an error.
func (summarizer *LanguageModelSummarizer) SummarizeFunctions(ctx context.Context, contents string) (map[string]string, error) {
	prompt, promptError := summarizer.prompt(contents)
	if promptError != nil {
		return map[string]string{}, promptError
	}
	response, completeError := summarizer.completer.Complete(ctx, CompletionRequest{
		SystemInstruction: functionsSystemInstruction,
		Prompt:            prompt,
		MaxTokens:         summarizer.config.FunctionsMaxTokens,
	})
	if completeError != nil {
		return map[string]string{}, fmt.Errorf(errorFunctionsSummaryFormat, completeError)
	}
	return ParseDescriptions(response), nil
}

func (summarizer *LanguageModelSummarizer) prompt(contents string) (string, error) {
	if summarizer.counter != nil {
		truncated, wasTruncated, truncateError := summarizer.counter.TruncateString(contents, summarizer.config.InputTokenLimit)
		if truncateError != nil {
			return "", fmt.Errorf(errorTruncateFormat, truncateError)
		}
		if wasTruncated {
			summarizer.logger.Debug(debugInputTruncated, zap.Int("limit", summarizer.config.InputTokenLimit))
		}
		contents = truncated
	}
	return WrapCode(contents), nil
}

// WrapCode places source text inside a fenced TypeScript block.
func WrapCode(contents string) string {
	return codeFenceOpening + contents + codeFenceClosing
}
