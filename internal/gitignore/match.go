package gitignore

import (
	"path"
	"strings"
)

// matches reports whether the rule selects relativePath, a slash-separated path relative to
// the traversal root.
func (parsedRule rule) matches(relativePath string, isDirectory bool) bool {
	if parsedRule.directoryOnly && !isDirectory {
		return false
	}
	scopedPath, insideScope := trimBasePath(relativePath, parsedRule.basePath)
	if !insideScope {
		return false
	}
	pathSegments := splitPath(scopedPath)
	if len(pathSegments) == 0 {
		return false
	}
	if !parsedRule.anchored {
		return matchSegment(parsedRule.segments[0], pathSegments[len(pathSegments)-1])
	}
	return matchSegments(parsedRule.segments, pathSegments)
}

// trimBasePath strips the directory holding the .gitignore from relativePath.
func trimBasePath(relativePath string, basePath string) (string, bool) {
	if basePath == "" {
		return relativePath, true
	}
	if !strings.HasPrefix(relativePath, basePath+"/") {
		return "", false
	}
	return relativePath[len(basePath)+1:], true
}

// matchSegments matches every pattern segment against the path, letting ** consume zero or
// more path segments.
func matchSegments(patternSegments []string, pathSegments []string) bool {
	if len(patternSegments) == 0 {
		return len(pathSegments) == 0
	}
	if patternSegments[0] == doubleStarSegment {
		if len(patternSegments) == 1 {
			return len(pathSegments) > 0
		}
		for consumed := 0; consumed <= len(pathSegments); consumed++ {
			if matchSegments(patternSegments[1:], pathSegments[consumed:]) {
				return true
			}
		}
		return false
	}
	if len(pathSegments) == 0 {
		return false
	}
	if !matchSegment(patternSegments[0], pathSegments[0]) {
		return false
	}
	return matchSegments(patternSegments[1:], pathSegments[1:])
}

func matchSegment(patternSegment string, pathSegment string) bool {
	if patternSegment == doubleStarSegment {
		return true
	}
	isMatched, matchError := path.Match(patternSegment, pathSegment)
	return matchError == nil && isMatched
}

func splitPath(slashPath string) []string {
	trimmedPath := strings.TrimPrefix(slashPath, "./")
	parts := strings.Split(trimmedPath, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}
