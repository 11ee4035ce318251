package gitignore

import (
	"bytes"
	"fmt"
	"path"
	"strings"
)

const (
	commentPrefix        = "#"
	negationPrefix       = "!"
	escapedCommentPrefix = `\#`
	escapedNegationStart = `\!`
	doubleStarSegment    = "**"

	warningNegationUnsupported = "negated patterns are not supported"
	warningEmptyPattern        = "pattern is empty after processing"
	warningTrailingBackslash   = "trailing backslash never matches"
	warningMalformedGlob       = "malformed glob segment %q"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// ParseWarning describes a .gitignore line that was skipped.
type ParseWarning struct {
	BasePath string
	Line     int
	Pattern  string
	Message  string
}

// rule is one normalized .gitignore line.
type rule struct {
	pattern       string
	basePath      string
	segments      []string
	directoryOnly bool
	anchored      bool
}

// parseContent splits content into rules, skipping blanks, comments, and unsupported lines.
func parseContent(basePath string, content []byte) ([]rule, []ParseWarning) {
	normalizedContent := bytes.TrimPrefix(content, byteOrderMark)
	normalizedContent = bytes.ReplaceAll(normalizedContent, []byte("\r\n"), []byte("\n"))

	var rules []rule
	var warnings []ParseWarning
	for lineIndex, rawLine := range strings.Split(string(normalizedContent), "\n") {
		parsedRule, warningMessage := parseLine(rawLine)
		if warningMessage != "" {
			warnings = append(warnings, ParseWarning{
				BasePath: basePath,
				Line:     lineIndex + 1,
				Pattern:  strings.TrimSpace(rawLine),
				Message:  warningMessage,
			})
			continue
		}
		if parsedRule == nil {
			continue
		}
		parsedRule.basePath = basePath
		rules = append(rules, *parsedRule)
	}
	return rules, warnings
}

// parseLine returns nil with an empty message for blank lines and comments.
func parseLine(rawLine string) (*rule, string) {
	line := trimTrailingWhitespace(strings.TrimRight(rawLine, "\r"))
	if strings.TrimSpace(line) == "" {
		return nil, ""
	}
	if strings.HasPrefix(line, commentPrefix) {
		return nil, ""
	}
	if strings.HasPrefix(line, negationPrefix) {
		return nil, warningNegationUnsupported
	}
	original := line
	if strings.HasPrefix(line, escapedCommentPrefix) || strings.HasPrefix(line, escapedNegationStart) {
		line = line[1:]
	}
	if hasUnescapedTrailingBackslash(line) {
		return nil, warningTrailingBackslash
	}

	directoryOnly := false
	if strings.HasSuffix(line, "/") {
		directoryOnly = true
		line = strings.TrimRight(line, "/")
	}

	anchored := false
	if strings.HasPrefix(line, "/") {
		anchored = true
		line = strings.TrimLeft(line, "/")
	}
	if strings.Contains(line, "/") {
		anchored = true
	}
	if line == "" {
		return nil, warningEmptyPattern
	}

	var segments []string
	for _, segment := range strings.Split(line, "/") {
		if segment == "" {
			continue
		}
		if segment != doubleStarSegment {
			segment = negateBracketClasses(segment)
			if _, matchError := path.Match(segment, ""); matchError != nil {
				return nil, fmt.Sprintf(warningMalformedGlob, segment)
			}
		}
		segments = append(segments, segment)
	}
	if len(segments) == 1 && segments[0] == doubleStarSegment {
		anchored = true
	}

	return &rule{
		pattern:       original,
		segments:      segments,
		directoryOnly: directoryOnly,
		anchored:      anchored,
	}, ""
}

// negateBracketClasses rewrites the fnmatch negation "[!" to the "[^" that path.Match expects.
func negateBracketClasses(segment string) string {
	if !strings.Contains(segment, "[!") {
		return segment
	}
	var builder strings.Builder
	builder.Grow(len(segment))
	insideClass := false
	for index := 0; index < len(segment); index++ {
		character := segment[index]
		switch {
		case character == '\\' && index+1 < len(segment):
			builder.WriteByte(character)
			index++
			builder.WriteByte(segment[index])
			continue
		case !insideClass && character == '[':
			insideClass = true
			builder.WriteByte(character)
			if index+1 < len(segment) && segment[index+1] == '!' {
				builder.WriteByte('^')
				index++
			}
			continue
		case insideClass && character == ']':
			insideClass = false
		}
		builder.WriteByte(character)
	}
	return builder.String()
}

// trimTrailingWhitespace removes trailing spaces and tabs unless the last one is escaped.
func trimTrailingWhitespace(line string) string {
	trimmed := strings.TrimRight(line, " \t")
	if len(trimmed) < len(line) && strings.HasSuffix(trimmed, `\`) && !hasUnescapedTrailingBackslash(trimmed[:len(trimmed)-1]) {
		return trimmed[:len(trimmed)-1] + line[len(trimmed):len(trimmed)+1]
	}
	return trimmed
}

func hasUnescapedTrailingBackslash(line string) bool {
	backslashCount := 0
	for index := len(line) - 1; index >= 0 && line[index] == '\\'; index-- {
		backslashCount++
	}
	return backslashCount%2 == 1
}

// String returns the original pattern text.
func (parsedRule rule) String() string {
	return parsedRule.pattern
}
