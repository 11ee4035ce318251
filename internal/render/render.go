// Package render turns a built tree into ASCII-art lines.
package render

import (
	"strings"

	"github.com/temirov/ptree/internal/types"
)

const (
	branchConnector    = "├── "
	lastConnector      = "└── "
	branchContinuation = "│   "
	lastContinuation   = "    "
	directorySuffix    = "/"
	lineSeparator      = "\n"
)

// Painter applies presentation to a span of text.
type Painter interface {
	Dim(text string) string
}

// PlainPainter leaves text unchanged.
type PlainPainter struct{}

// Dim returns text as is.
func (PlainPainter) Dim(text string) string {
	return text
}

// Line is one rendered row before painting.
type Line struct {
	Prefix    string
	Connector string
	Name      string
	Directory bool
	// Root marks the root name line, which never carries a directory suffix.
	Root bool
	// Dimmed marks a node that is itself dimmed; only its name is painted.
	Dimmed bool
	// InDimmedSubtree marks a node below a dimmed directory; the whole line, prefix included, is painted as one span.
	InDimmedSubtree bool
}

// Lines walks the tree in pre-order.
func Lines(tree *types.Tree) []Line {
	if tree == nil {
		return nil
	}
	var lines []Line
	if tree.IncludeRoot {
		lines = append(lines, Line{Name: tree.Name, Directory: true, Root: true})
		return appendChildren(lines, tree.Children, "", false)
	}
	for index, node := range tree.Children {
		isLast := index == len(tree.Children)-1
		lines = append(lines, Line{
			Name:      node.Name,
			Directory: node.IsDirectory(),
			Dimmed:    node.Style == types.StyleDimmed,
		})
		lines = appendChildren(lines, node.Children, continuation(isLast), node.Style == types.StyleDimmed)
	}
	return lines
}

func appendChildren(lines []Line, nodes []*types.TreeNode, prefix string, inDimmedSubtree bool) []Line {
	for index, node := range nodes {
		isLast := index == len(nodes)-1
		connector := branchConnector
		if isLast {
			connector = lastConnector
		}
		nodeDimmed := node.Style == types.StyleDimmed
		lines = append(lines, Line{
			Prefix:          prefix,
			Connector:       connector,
			Name:            node.Name,
			Directory:       node.IsDirectory(),
			Dimmed:          nodeDimmed && !inDimmedSubtree,
			InDimmedSubtree: inDimmedSubtree,
		})
		lines = appendChildren(lines, node.Children, prefix+continuation(isLast), inDimmedSubtree || nodeDimmed)
	}
	return lines
}

func continuation(isLast bool) string {
	if isLast {
		return lastContinuation
	}
	return branchContinuation
}

// Render paints every line and joins them with newlines. The result has no trailing newline.
func Render(tree *types.Tree, painter Painter) string {
	if painter == nil {
		painter = PlainPainter{}
	}
	lines := Lines(tree)
	var builder strings.Builder
	for index, line := range lines {
		if index > 0 {
			builder.WriteString(lineSeparator)
		}
		builder.WriteString(line.Paint(painter))
	}
	return builder.String()
}

// Paint renders a single line with painter.
func (line Line) Paint(painter Painter) string {
	suffix := ""
	if line.Directory && !line.Root {
		suffix = directorySuffix
	}
	switch {
	case line.InDimmedSubtree:
		return painter.Dim(line.Prefix + line.Connector + line.Name + suffix)
	case line.Dimmed:
		return line.Prefix + line.Connector + painter.Dim(line.Name) + suffix
	default:
		return line.Prefix + line.Connector + line.Name + suffix
	}
}
