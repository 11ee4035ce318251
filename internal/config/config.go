// Package config resolves traversal options from flags, configuration files, and the
// traversal root.
package config

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/temirov/ptree/internal/utils"
)

// GitignoreMode selects how .gitignore matches affect the tree.
type GitignoreMode string

const (
	// GitignoreAuto resolves to GitignoreDim when a root .gitignore is readable, GitignoreOff otherwise.
	GitignoreAuto GitignoreMode = ""
	// GitignoreOff disables .gitignore handling.
	GitignoreOff GitignoreMode = "off"
	// GitignoreIgnore drops matching entries.
	GitignoreIgnore GitignoreMode = "ignore"
	// GitignoreStop lists matching directories without expanding them.
	GitignoreStop GitignoreMode = "stop"
	// GitignoreDim renders matching entries dim.
	GitignoreDim GitignoreMode = "dim"
	// GitignoreDimAndStop renders matching entries dim and does not expand them.
	GitignoreDimAndStop GitignoreMode = "dim-stop"

	gitignoreDimAndStopAlias = "dim-and-stop"
	gitignoreAutoName        = "auto"

	errorUnknownGitignoreMode = "unknown gitignore mode %q (expected off, ignore, stop, dim, or dim-stop)"
)

// Default exclusion names.
const (
	NodeModulesDirectoryName = "node_modules"
	VSCodeDirectoryName      = ".vscode"
	RustTargetDirectoryName  = "target"
	CargoManifestFileName    = "Cargo.toml"
)

var gitignoreModesByName = map[string]GitignoreMode{
	gitignoreAutoName:           GitignoreAuto,
	string(GitignoreOff):        GitignoreOff,
	string(GitignoreIgnore):     GitignoreIgnore,
	string(GitignoreStop):       GitignoreStop,
	string(GitignoreDim):        GitignoreDim,
	string(GitignoreDimAndStop): GitignoreDimAndStop,
	gitignoreDimAndStopAlias:    GitignoreDimAndStop,
}

// ParseGitignoreMode converts a mode name into a GitignoreMode.
func ParseGitignoreMode(name string) (GitignoreMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return GitignoreAuto, nil
	}
	mode, known := gitignoreModesByName[normalized]
	if !known {
		return GitignoreAuto, fmt.Errorf(errorUnknownGitignoreMode, name)
	}
	return mode, nil
}

// String returns the mode name, "auto" for GitignoreAuto.
func (mode GitignoreMode) String() string {
	if mode == GitignoreAuto {
		return gitignoreAutoName
	}
	return string(mode)
}

// Ignores reports whether matching entries are dropped.
func (mode GitignoreMode) Ignores() bool {
	return mode == GitignoreIgnore
}

// Stops reports whether matching directories are not expanded.
func (mode GitignoreMode) Stops() bool {
	return mode == GitignoreStop || mode == GitignoreDimAndStop
}

// Dims reports whether matching entries are rendered dim.
func (mode GitignoreMode) Dims() bool {
	return mode == GitignoreDim || mode == GitignoreDimAndStop
}

// ResolveGitignoreMode applies the auto default and forces GitignoreOff when the root
// .gitignore is unavailable.
func ResolveGitignoreMode(requested GitignoreMode, available bool) GitignoreMode {
	if !available {
		return GitignoreOff
	}
	if requested == GitignoreAuto {
		return GitignoreDim
	}
	return requested
}

// Options is the fully resolved, read-only traversal configuration.
type Options struct {
	IncludeNodeModules    bool
	IncludeGit            bool
	IncludeVSCode         bool
	IncludeTarget         bool
	Ignore                []string
	Stop                  []string
	GitignoreMode         GitignoreMode
	NestedGitignore       bool
	PrioritizeDirectories bool
	IncludeRoot           bool
	RustProject           bool
}

// DefaultExclusions computes the effective set of excluded base names.
func DefaultExclusions(options Options) map[string]struct{} {
	exclusions := make(map[string]struct{}, 4)
	if !options.IncludeNodeModules {
		exclusions[NodeModulesDirectoryName] = struct{}{}
	}
	if !options.IncludeGit {
		exclusions[utils.GitDirectoryName] = struct{}{}
	}
	if !options.IncludeVSCode {
		exclusions[VSCodeDirectoryName] = struct{}{}
	}
	if options.RustProject && !options.IncludeTarget {
		exclusions[RustTargetDirectoryName] = struct{}{}
	}
	return exclusions
}

// NormalizePatterns trims, strips "./" and trailing "/", and deduplicates explicit patterns.
func NormalizePatterns(patterns []string) []string {
	normalized := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(strings.ReplaceAll(pattern, "\\", "/"))
		for strings.HasPrefix(trimmedPattern, "./") {
			trimmedPattern = strings.TrimPrefix(trimmedPattern, "./")
		}
		trimmedPattern = strings.TrimRight(trimmedPattern, "/")
		if trimmedPattern == "" || trimmedPattern == "." {
			continue
		}
		normalized = append(normalized, trimmedPattern)
	}
	return utils.DeduplicatePatterns(normalized)
}

// DetectRustProject reports whether Cargo.toml is a regular file at the root of fsys.
func DetectRustProject(fsys fs.FS) bool {
	fileInformation, statError := fs.Stat(fsys, CargoManifestFileName)
	return statError == nil && !fileInformation.IsDir()
}
