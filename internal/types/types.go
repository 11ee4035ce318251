// Package types defines every cross‑package data structure used by the ptree CLI.
package types

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// NodeKind distinguishes files from directories.
type NodeKind int

const (
	KindFile NodeKind = iota
	KindDirectory
)

// String returns the textual node type.
func (kind NodeKind) String() string {
	if kind == KindDirectory {
		return NodeTypeDirectory
	}
	return NodeTypeFile
}

// NodeStyle is the semantic presentation of a node. Escape sequences are chosen by the painter.
type NodeStyle int

const (
	StyleNormal NodeStyle = iota
	StyleDimmed
)

// Classification is the outcome of filtering a single filesystem entry.
type Classification int

const (
	// Excluded entries never become nodes.
	Excluded Classification = iota
	// Stopped entries are listed but never expanded.
	Stopped
	// Dimmed entries are listed, expanded, and rendered dim.
	Dimmed
	// Included entries are listed and expanded.
	Included
)

var classificationNames = map[Classification]string{
	Excluded: "excluded",
	Stopped:  "stopped",
	Dimmed:   "dimmed",
	Included: "included",
}

// String returns the lowercase classification name.
func (classification Classification) String() string {
	if name, known := classificationNames[classification]; known {
		return name
	}
	return "unknown"
}

// TreeNode is one filesystem entry in a built tree.
// A node with Recurse == false never has children.
type TreeNode struct {
	Name     string
	Kind     NodeKind
	Style    NodeStyle
	Recurse  bool
	Children []*TreeNode
}

// IsDirectory reports whether the node represents a directory.
func (node *TreeNode) IsDirectory() bool {
	return node != nil && node.Kind == KindDirectory
}

// Tree is the result of a traversal. When IncludeRoot is false the children form an
// implicit unnamed top-level container.
type Tree struct {
	Name        string
	IncludeRoot bool
	Children    []*TreeNode
}

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}
