package utils

// Configuration file locations.
const (
	// LocalConfigFileName is looked up in the working directory.
	LocalConfigFileName = ".ptree.yaml"
	// GlobalConfigDirectoryName is created under the user's home directory.
	GlobalConfigDirectoryName = ".ptree"
	// GlobalConfigFileName is the file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
)

const (
	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes the fatal error logged by main.
	ApplicationExecutionFailedMessage = "Error"
)
