package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/sigmap/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	HomeDirectory    string
}

// ApplicationConfiguration holds the settings read from configuration files.
// Unset optional values are nil so that later files only override what they name.
type ApplicationConfiguration struct {
	Traversal  TraversalConfiguration  `mapstructure:"traversal"`
	Summarizer SummarizerConfiguration `mapstructure:"summarizer"`
	Output     OutputConfiguration     `mapstructure:"output"`
	Cache      CacheConfiguration      `mapstructure:"cache"`
}

// TraversalConfiguration selects which files the tree builder visits.
type TraversalConfiguration struct {
	Extension          string   `mapstructure:"extension"`
	ExcludeDirectories []string `mapstructure:"exclude_directories"`
	Exclude            []string `mapstructure:"exclude"`
	UseGitignore       *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile      *bool    `mapstructure:"use_ignore"`
}

// SummarizerConfiguration selects and bounds the language model backend.
type SummarizerConfiguration struct {
	Provider           string   `mapstructure:"provider"`
	Model              string   `mapstructure:"model"`
	Temperature        *float64 `mapstructure:"temperature"`
	FileMaxTokens      *int     `mapstructure:"file_max_tokens"`
	FunctionsMaxTokens *int     `mapstructure:"functions_max_tokens"`
	InputTokenLimit    *int     `mapstructure:"input_token_limit"`
	TokenizerModel     string   `mapstructure:"tokenizer_model"`
}

// OutputConfiguration controls where and how artifacts are written.
type OutputConfiguration struct {
	TreePath    string `mapstructure:"tree_path"`
	OutlinePath string `mapstructure:"outline_path"`
	Header      string `mapstructure:"header"`
	Clipboard   *bool  `mapstructure:"clipboard"`
}

// CacheConfiguration bounds in-memory caches.
type CacheConfiguration struct {
	ParseCacheSize *int `mapstructure:"parse_cache_size"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
// The global file lives under the home directory; the local file is the
// explicit path when given, otherwise the one in the working directory.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Traversal.Exclude = utils.DeduplicatePatterns(merged.Traversal.Exclude)
	merged.Traversal.ExcludeDirectories = utils.DeduplicatePatterns(merged.Traversal.ExcludeDirectories)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath
		}
		return filepath.Join(workingDirectory, explicitPath)
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName)
}

// loadConfigurationFromPath reads one YAML file. A missing file yields an
// empty configuration unless required is set.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Traversal = result.Traversal.merge(override.Traversal)
	result.Summarizer = result.Summarizer.merge(override.Summarizer)
	result.Output = result.Output.merge(override.Output)
	result.Cache = result.Cache.merge(override.Cache)
	return result
}

func (config TraversalConfiguration) merge(override TraversalConfiguration) TraversalConfiguration {
	result := config
	if override.Extension != "" {
		result.Extension = override.Extension
	}
	if len(override.ExcludeDirectories) > 0 {
		result.ExcludeDirectories = append([]string{}, utils.DeduplicatePatterns(override.ExcludeDirectories)...)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = clonePointer(override.UseGitignore)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = clonePointer(override.UseIgnoreFile)
	}
	return result
}

func (config SummarizerConfiguration) merge(override SummarizerConfiguration) SummarizerConfiguration {
	result := config
	if override.Provider != "" {
		result.Provider = override.Provider
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Temperature != nil {
		result.Temperature = clonePointer(override.Temperature)
	}
	if override.FileMaxTokens != nil {
		result.FileMaxTokens = clonePointer(override.FileMaxTokens)
	}
	if override.FunctionsMaxTokens != nil {
		result.FunctionsMaxTokens = clonePointer(override.FunctionsMaxTokens)
	}
	if override.InputTokenLimit != nil {
		result.InputTokenLimit = clonePointer(override.InputTokenLimit)
	}
	if override.TokenizerModel != "" {
		result.TokenizerModel = override.TokenizerModel
	}
	return result
}

func (config OutputConfiguration) merge(override OutputConfiguration) OutputConfiguration {
	result := config
	if override.TreePath != "" {
		result.TreePath = override.TreePath
	}
	if override.OutlinePath != "" {
		result.OutlinePath = override.OutlinePath
	}
	if override.Header != "" {
		result.Header = override.Header
	}
	if override.Clipboard != nil {
		result.Clipboard = clonePointer(override.Clipboard)
	}
	return result
}

func (config CacheConfiguration) merge(override CacheConfiguration) CacheConfiguration {
	result := config
	if override.ParseCacheSize != nil {
		result.ParseCacheSize = clonePointer(override.ParseCacheSize)
	}
	return result
}

// clonePointer copies the pointed-to value so merged configurations never share storage.
func clonePointer[Value any](value *Value) *Value {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
