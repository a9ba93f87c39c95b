package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// ErrorLogFormat defines the formatting string for error log messages.
const ErrorLogFormat = "Error: %v"

const (
	// ApplicationName is the binary and configuration namespace.
	ApplicationName = "ctxcopy"
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".ctxcopy.yaml"
	// GlobalConfigDirectoryName is the directory under the home directory holding global state.
	GlobalConfigDirectoryName = ".ctxcopy"
	// GlobalConfigFileName is the name of the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// PreferencesFileName is the name of the preferences file inside GlobalConfigDirectoryName.
	PreferencesFileName = "preferences.yaml"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "ctxcopy failed"
)
