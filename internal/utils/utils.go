// Package utils contains general helper functions used across the ptree tool.
package utils

import (
	"path"
	"path/filepath"
	"strings"
)

// GitDirectoryName is the name of the Git repository directory.
const GitDirectoryName = ".git"

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// MatchesPathPattern reports whether a slash-separated path relative to the traversal root
// is selected by an explicit ignore or stop pattern. A single-segment pattern is compared
// with the base name at any depth. A multi-segment pattern must match the whole path, one
// segment at a time. Segments use path.Match semantics, so plain names compare exactly.
func MatchesPathPattern(relativePath string, pattern string) bool {
	normalizedPath := strings.TrimPrefix(strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator), "./")
	normalizedPattern := strings.TrimPrefix(strings.ReplaceAll(pattern, "\\", pathSegmentSeparator), "./")
	normalizedPattern = strings.TrimSuffix(normalizedPattern, pathSegmentSeparator)
	if normalizedPath == "" || normalizedPattern == "" {
		return false
	}
	if normalizedPath == normalizedPattern {
		return true
	}

	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)
	patternSegments := strings.Split(normalizedPattern, pathSegmentSeparator)
	if len(patternSegments) == 1 {
		return segmentMatches(patternSegments[0], pathSegments[len(pathSegments)-1])
	}
	if len(pathSegments) != len(patternSegments) {
		return false
	}
	return segmentsMatch(pathSegments, patternSegments)
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment using path.Match semantics.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		if !segmentMatches(patternSegment, pathSegments[segmentIndex]) {
			return false
		}
	}
	return true
}

func segmentMatches(patternSegment string, pathSegment string) bool {
	if patternSegment == pathSegment {
		return true
	}
	isMatched, matchError := path.Match(patternSegment, pathSegment)
	return matchError == nil && isMatched
}
