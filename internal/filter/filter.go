// Package filter classifies filesystem entries as excluded, stopped, dimmed, or included.
package filter

import (
	"github.com/temirov/ptree/internal/config"
	"github.com/temirov/ptree/internal/gitignore"
	"github.com/temirov/ptree/internal/types"
	"github.com/temirov/ptree/internal/utils"
)

// Entry describes a filesystem entry relative to the traversal root.
type Entry struct {
	RelativePath string
	Name         string
	IsDirectory  bool
}

// Verdict is the result of classifying an entry. Style is dimmed whenever a dimming
// gitignore mode matches a non-excluded entry, including stopped ones.
type Verdict struct {
	Classification types.Classification
	Style          types.NodeStyle
}

// Recurses reports whether a directory with this verdict is expanded.
func (verdict Verdict) Recurses() bool {
	return verdict.Classification == types.Included || verdict.Classification == types.Dimmed
}

// EntryFilter applies ignore, default exclusion, stop, and gitignore rules in a fixed order.
type EntryFilter struct {
	ignorePatterns    []string
	stopPatterns      []string
	defaultExclusions map[string]struct{}
	gitignoreMode     config.GitignoreMode
	patternSet        *gitignore.PatternSet
}

// New builds a filter from resolved options. patterns may be nil.
func New(options config.Options, patterns *gitignore.PatternSet) *EntryFilter {
	return &EntryFilter{
		ignorePatterns:    config.NormalizePatterns(options.Ignore),
		stopPatterns:      config.NormalizePatterns(options.Stop),
		defaultExclusions: config.DefaultExclusions(options),
		gitignoreMode:     options.GitignoreMode,
		patternSet:        patterns,
	}
}

// WithPatterns returns a copy of the filter that consults patterns instead.
func (entryFilter *EntryFilter) WithPatterns(patterns *gitignore.PatternSet) *EntryFilter {
	copied := *entryFilter
	copied.patternSet = patterns
	return &copied
}

// Patterns returns the gitignore pattern set in use.
func (entryFilter *EntryFilter) Patterns() *gitignore.PatternSet {
	return entryFilter.patternSet
}

// GitignoreMode returns the mode the filter was built with.
func (entryFilter *EntryFilter) GitignoreMode() config.GitignoreMode {
	return entryFilter.gitignoreMode
}

// Classify decides how entry appears in the tree. The first matching rule wins:
// explicit ignore, default exclusion, gitignore ignore, stop, gitignore dim, included.
func (entryFilter *EntryFilter) Classify(entry Entry) Verdict {
	if matchesAny(entry.RelativePath, entryFilter.ignorePatterns) {
		return Verdict{Classification: types.Excluded}
	}
	if _, excluded := entryFilter.defaultExclusions[entry.Name]; excluded {
		return Verdict{Classification: types.Excluded}
	}

	gitignoreMatched := false
	if entryFilter.gitignoreMode != config.GitignoreOff && entryFilter.gitignoreMode != config.GitignoreAuto {
		gitignoreMatched = entryFilter.patternSet.Matches(entry.RelativePath, entry.IsDirectory)
	}
	if gitignoreMatched && entryFilter.gitignoreMode.Ignores() {
		return Verdict{Classification: types.Excluded}
	}

	style := types.StyleNormal
	if gitignoreMatched && entryFilter.gitignoreMode.Dims() {
		style = types.StyleDimmed
	}
	if matchesAny(entry.RelativePath, entryFilter.stopPatterns) || (gitignoreMatched && entryFilter.gitignoreMode.Stops()) {
		return Verdict{Classification: types.Stopped, Style: style}
	}
	if style == types.StyleDimmed {
		return Verdict{Classification: types.Dimmed, Style: style}
	}
	return Verdict{Classification: types.Included}
}

func matchesAny(relativePath string, patterns []string) bool {
	for _, pattern := range patterns {
		if utils.MatchesPathPattern(relativePath, pattern) {
			return true
		}
	}
	return false
}
