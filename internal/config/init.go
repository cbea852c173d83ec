package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/sigmap/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes ./.sigmap.yaml.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes ~/.sigmap/config.yaml.
	InitTargetGlobal InitTarget = "global"

	configurationDirectoryPermissions = 0o755
	configurationFilePermissions      = 0o600

	errorWorkingDirectoryFormat    = "determine working directory for configuration: %w"
	errorHomeDirectoryFormat       = "resolve home directory for configuration: %w"
	errorUnsupportedTargetFormat   = "unsupported init target %q"
	errorConfigurationExistsFormat = "configuration file already exists at %s (use --force to overwrite)"
	errorInspectDestinationFormat  = "inspect configuration path %s: %w"
	errorCreateDirectoryFormat     = "create configuration directory %s: %w"
	errorWriteConfigurationFormat  = "write configuration to %s: %w"
)

// defaultConfigurationTemplate documents every key with its default value.
const defaultConfigurationTemplate = `# sigmap configuration
traversal:
  # Source files are those whose name ends with this extension.
  extension: .ts
  # Directory names skipped wherever they occur.
  exclude_directories:
    - node_modules
  # Globs matched against entry names, or root-relative paths when they contain "/".
  exclude: []
  use_gitignore: false
  # Read exclusion globs from .sigmapignore in the root directory.
  use_ignore: true
summarizer:
  # openai or gemini; keys come from OPENAI_API_KEY or GEMINI_API_KEY.
  provider: openai
  model: gpt-3.5-turbo
  temperature: 0.8
  file_max_tokens: 300
  functions_max_tokens: 1000
  input_token_limit: 12000
  tokenizer_model: gpt-4o
output:
  tree_path: outputs/output.json
  outline_path: outputs/output.txt
  header: ""
  clipboard: false
cache:
  parse_cache_size: 4096
`

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns its path. An existing file is kept unless Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, destinationError := configurationDestination(options)
	if destinationError != nil {
		return "", destinationError
	}

	_, statError := os.Stat(destinationPath)
	switch {
	case statError == nil && !options.Force:
		return "", fmt.Errorf(errorConfigurationExistsFormat, destinationPath)
	case statError != nil && !errors.Is(statError, fs.ErrNotExist):
		return "", fmt.Errorf(errorInspectDestinationFormat, destinationPath, statError)
	}

	destinationDirectory := filepath.Dir(destinationPath)
	if makeDirectoryError := os.MkdirAll(destinationDirectory, configurationDirectoryPermissions); makeDirectoryError != nil {
		return "", fmt.Errorf(errorCreateDirectoryFormat, destinationDirectory, makeDirectoryError)
	}
	if writeError := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configurationFilePermissions); writeError != nil {
		return "", fmt.Errorf(errorWriteConfigurationFormat, destinationPath, writeError)
	}
	return destinationPath, nil
}

func configurationDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			currentDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return "", fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
			}
			workingDirectory = currentDirectory
		}
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolvedHome, homeError := os.UserHomeDir()
			if homeError != nil {
				return "", fmt.Errorf(errorHomeDirectoryFormat, homeError)
			}
			homeDirectory = resolvedHome
		}
		return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName), nil
	default:
		return "", fmt.Errorf(errorUnsupportedTargetFormat, options.Target)
	}
}
