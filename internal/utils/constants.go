package utils

const (
	// ApplicationName is the executable and configuration namespace.
	ApplicationName = "sigmap"
	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".sigmap.yaml"
	// GlobalConfigDirectoryName is the directory under the home directory holding global configuration.
	GlobalConfigDirectoryName = ".sigmap"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// EnvironmentFileName is the dotenv file loaded from the working directory.
	EnvironmentFileName = ".env"
	// HiddenEntryPrefix marks directory entries that are never traversed.
	HiddenEntryPrefix = "."
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// IgnoreFileName lists exclusion patterns specific to this tool.
	IgnoreFileName = ".sigmapignore"
	// GitIgnoreFileName is the Git ignore file honored when enabled.
	GitIgnoreFileName = ".gitignore"
)

const (
	// LoggerInitializationFailedMessageFormat reports logger construction failures.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal application errors.
	ApplicationExecutionFailedMessage = "sigmap failed"
)
