package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/ptree/internal/utils"
)

const (
	errorWorkingDirectoryFormat   = "determine working directory: %w"
	errorResolveConfigPathFormat  = "resolve configuration path %s: %w"
	errorStatConfigurationFormat  = "stat configuration %s: %w"
	errorConfigurationIsDirFormat = "configuration path %s is a directory"
	errorReadConfigurationFormat  = "read configuration from %s: %w"
	errorDecodeConfigurationFmt   = "decode configuration from %s: %w"
	errorExplicitConfigMissingFmt = "configuration file %s does not exist"
)

// LoadOptions controls how configuration files are discovered.
type LoadOptions struct {
	WorkingDirectory string
	// ExplicitFilePath replaces the local .ptree.yaml lookup and must exist.
	ExplicitFilePath string
	// HomeDirectory overrides os.UserHomeDir for the global configuration lookup.
	HomeDirectory string
}

// FileConfiguration holds defaults read from YAML configuration files. Nil pointers and
// empty values mean "not set" so that a later file only overrides what it names.
type FileConfiguration struct {
	Ignore          []string             `mapstructure:"ignore"`
	Stop            []string             `mapstructure:"stop"`
	Include         IncludeConfiguration `mapstructure:"include"`
	Gitignore       string               `mapstructure:"gitignore"`
	NestedGitignore *bool                `mapstructure:"nested_gitignore"`
	Dirs            *bool                `mapstructure:"dirs"`
	Root            *bool                `mapstructure:"root"`
	Clipboard       *bool                `mapstructure:"clipboard"`
	Output          string               `mapstructure:"output"`
	Color           string               `mapstructure:"color"`
	Tokens          *bool                `mapstructure:"tokens"`
	Model           string               `mapstructure:"model"`
	Jobs            *int                 `mapstructure:"jobs"`
}

// IncludeConfiguration re-enables default exclusions.
type IncludeConfiguration struct {
	NodeModules *bool `mapstructure:"node_modules"`
	Git         *bool `mapstructure:"git"`
	VSCode      *bool `mapstructure:"vscode"`
	Target      *bool `mapstructure:"target"`
}

// LoadFileConfiguration merges the global configuration with the local (or explicit) one.
// Missing global and local files are not errors.
func LoadFileConfiguration(options LoadOptions) (FileConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return FileConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged FileConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		homeDirectory, _ = os.UserHomeDir()
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return FileConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return FileConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return FileConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Ignore = utils.DeduplicatePatterns(merged.Ignore)
	merged.Stop = utils.DeduplicatePatterns(merged.Stop)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf(errorResolveConfigPathFormat, explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

func loadConfigurationFromPath(path string, required bool) (FileConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			if required {
				return FileConfiguration{}, fmt.Errorf(errorExplicitConfigMissingFmt, path)
			}
			return FileConfiguration{}, nil
		}
		return FileConfiguration{}, fmt.Errorf(errorStatConfigurationFormat, path, statErr)
	}
	if info.IsDir() {
		return FileConfiguration{}, fmt.Errorf(errorConfigurationIsDirFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return FileConfiguration{}, fmt.Errorf(errorReadConfigurationFormat, path, readErr)
	}
	var configuration FileConfiguration
	if decodeErr := reader.Unmarshal(&configuration); decodeErr != nil {
		return FileConfiguration{}, fmt.Errorf(errorDecodeConfigurationFmt, path, decodeErr)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver. Lists are replaced, not appended.
func (configuration FileConfiguration) Merge(override FileConfiguration) FileConfiguration {
	result := configuration
	if len(override.Ignore) > 0 {
		result.Ignore = append([]string{}, override.Ignore...)
	}
	if len(override.Stop) > 0 {
		result.Stop = append([]string{}, override.Stop...)
	}
	result.Include = result.Include.merge(override.Include)
	if override.Gitignore != "" {
		result.Gitignore = override.Gitignore
	}
	if override.NestedGitignore != nil {
		result.NestedGitignore = cloneBool(override.NestedGitignore)
	}
	if override.Dirs != nil {
		result.Dirs = cloneBool(override.Dirs)
	}
	if override.Root != nil {
		result.Root = cloneBool(override.Root)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Tokens != nil {
		result.Tokens = cloneBool(override.Tokens)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Jobs != nil {
		result.Jobs = cloneInt(override.Jobs)
	}
	return result
}

func (configuration IncludeConfiguration) merge(override IncludeConfiguration) IncludeConfiguration {
	result := configuration
	if override.NodeModules != nil {
		result.NodeModules = cloneBool(override.NodeModules)
	}
	if override.Git != nil {
		result.Git = cloneBool(override.Git)
	}
	if override.VSCode != nil {
		result.VSCode = cloneBool(override.VSCode)
	}
	if override.Target != nil {
		result.Target = cloneBool(override.Target)
	}
	return result
}

// BoolValue dereferences value, returning fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

// IntValue dereferences value, returning fallback when it is unset.
func IntValue(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
