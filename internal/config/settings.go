package config

import (
	"github.com/temirov/sigmap/internal/commands"
	"github.com/temirov/sigmap/internal/output"
	"github.com/temirov/sigmap/internal/parser"
	"github.com/temirov/sigmap/internal/summarizer"
)

const (
	defaultTokenizerModel = "gpt-4o"
	defaultUseIgnoreFile  = true
	defaultUseGitignore   = false
)

// Settings is an ApplicationConfiguration with every default applied.
type Settings struct {
	Extension          string
	ExcludeDirectories []string
	Exclude            []string
	UseGitignore       bool
	UseIgnoreFile      bool

	Provider           string
	Model              string
	Temperature        float64
	FileMaxTokens      int
	FunctionsMaxTokens int
	InputTokenLimit    int
	TokenizerModel     string

	TreePath    string
	OutlinePath string
	Header      string
	Clipboard   bool

	ParseCacheSize int
}

// Resolve fills every unset value with its default. The summarizer model is
// left empty when unset so the selected provider can pick its own default.
func (config ApplicationConfiguration) Resolve() Settings {
	settings := Settings{
		Extension:          stringOrDefault(config.Traversal.Extension, commands.DefaultExtension),
		ExcludeDirectories: append([]string{}, commands.DefaultExcludedDirectories...),
		Exclude:            append([]string{}, config.Traversal.Exclude...),
		UseGitignore:       boolOrDefault(config.Traversal.UseGitignore, defaultUseGitignore),
		UseIgnoreFile:      boolOrDefault(config.Traversal.UseIgnoreFile, defaultUseIgnoreFile),

		Provider:           stringOrDefault(config.Summarizer.Provider, summarizer.ProviderOpenAI),
		Model:              config.Summarizer.Model,
		Temperature:        floatOrDefault(config.Summarizer.Temperature, summarizer.DefaultTemperature),
		FileMaxTokens:      positiveIntOrDefault(config.Summarizer.FileMaxTokens, summarizer.DefaultFileMaxTokens),
		FunctionsMaxTokens: positiveIntOrDefault(config.Summarizer.FunctionsMaxTokens, summarizer.DefaultFunctionsMaxTokens),
		InputTokenLimit:    positiveIntOrDefault(config.Summarizer.InputTokenLimit, summarizer.DefaultInputTokenLimit),
		TokenizerModel:     stringOrDefault(config.Summarizer.TokenizerModel, defaultTokenizerModel),

		TreePath:    stringOrDefault(config.Output.TreePath, output.DefaultTreePath),
		OutlinePath: stringOrDefault(config.Output.OutlinePath, output.DefaultOutlinePath),
		Header:      config.Output.Header,
		Clipboard:   boolOrDefault(config.Output.Clipboard, false),

		ParseCacheSize: positiveIntOrDefault(config.Cache.ParseCacheSize, parser.DefaultCacheSize),
	}
	if len(config.Traversal.ExcludeDirectories) > 0 {
		settings.ExcludeDirectories = append([]string{}, config.Traversal.ExcludeDirectories...)
	}
	return settings
}

func stringOrDefault(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func boolOrDefault(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func floatOrDefault(value *float64, fallback float64) float64 {
	if value == nil {
		return fallback
	}
	return *value
}

func positiveIntOrDefault(value *int, fallback int) int {
	if value == nil || *value <= 0 {
		return fallback
	}
	return *value
}
