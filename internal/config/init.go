package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/ptree/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes .ptree.yaml into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes config.yaml into ~/.ptree.
	InitTargetGlobal InitTarget = "global"

	configurationDirectoryPermissions = 0o755
	configurationFilePermissions      = 0o600

	defaultConfigurationTemplate = `# ptree configuration. Command-line flags override these values.
ignore: []
stop: []
include:
  node_modules: false
  git: false
  vscode: false
  target: false
# auto, off, ignore, stop, dim, dim-stop
gitignore: auto
nested_gitignore: false
dirs: false
root: false
clipboard: true
output: ""
# auto, always, never
color: auto
tokens: false
model: gpt-4o
jobs: 1
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// InitializeConfiguration writes the default configuration to the requested target and
// returns its path.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolvedHome, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home directory for configuration: %w", err)
			}
			homeDirectory = resolvedHome
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, configurationDirectoryPermissions); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.GlobalConfigFileName)
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configurationFilePermissions); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}
	return destinationPath, nil
}
