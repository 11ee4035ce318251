// Package gitignore parses .gitignore files into path-exclusion rules and matches paths
// against them. Negated patterns are not supported and are reported as parse warnings.
package gitignore

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// FileName is the name of the Git ignore file.
const FileName = ".gitignore"

const errorLoadFormat = "%w: %s: %w"

// ErrUnavailable reports a missing or unreadable .gitignore file.
var ErrUnavailable = errors.New("gitignore unavailable")

// PatternSet is an immutable, ordered collection of rules. A nil set matches nothing.
type PatternSet struct {
	rules    []rule
	warnings []ParseWarning
}

// Parse builds a pattern set from .gitignore content. basePath is the slash-separated
// directory holding the file, relative to the traversal root; "" or "." is the root itself.
func Parse(basePath string, content []byte) *PatternSet {
	normalizedBase := normalizeBasePath(basePath)
	rules, warnings := parseContent(normalizedBase, content)
	return &PatternSet{rules: rules, warnings: warnings}
}

// Load reads directory/.gitignore from fsys. Any read failure wraps ErrUnavailable.
func Load(fsys fs.FS, directory string) (*PatternSet, error) {
	filePath := path.Join(directory, FileName)
	content, readError := fs.ReadFile(fsys, filePath)
	if readError != nil {
		return nil, fmt.Errorf(errorLoadFormat, ErrUnavailable, filePath, readError)
	}
	return Parse(directory, content), nil
}

// Matches reports whether any rule matches relativePath.
func (set *PatternSet) Matches(relativePath string, isDirectory bool) bool {
	if set == nil {
		return false
	}
	for _, candidate := range set.rules {
		if candidate.matches(relativePath, isDirectory) {
			return true
		}
	}
	return false
}

// Extend returns a new set with the rules of other appended after the receiver's rules.
func (set *PatternSet) Extend(other *PatternSet) *PatternSet {
	if other == nil || len(other.rules)+len(other.warnings) == 0 {
		return set
	}
	if set == nil {
		return other
	}
	combined := &PatternSet{
		rules:    make([]rule, 0, len(set.rules)+len(other.rules)),
		warnings: make([]ParseWarning, 0, len(set.warnings)+len(other.warnings)),
	}
	combined.rules = append(append(combined.rules, set.rules...), other.rules...)
	combined.warnings = append(append(combined.warnings, set.warnings...), other.warnings...)
	return combined
}

// Len returns the number of usable rules.
func (set *PatternSet) Len() int {
	if set == nil {
		return 0
	}
	return len(set.rules)
}

// Warnings returns the lines skipped during parsing.
func (set *PatternSet) Warnings() []ParseWarning {
	if set == nil {
		return nil
	}
	return append([]ParseWarning(nil), set.warnings...)
}

// Patterns returns the normalized pattern text of every rule in evaluation order.
func (set *PatternSet) Patterns() []string {
	if set == nil {
		return nil
	}
	patterns := make([]string, 0, len(set.rules))
	for _, candidate := range set.rules {
		patterns = append(patterns, candidate.String())
	}
	return patterns
}

func normalizeBasePath(basePath string) string {
	cleaned := path.Clean("/" + basePath)
	if cleaned == "/" {
		return ""
	}
	return cleaned[1:]
}
