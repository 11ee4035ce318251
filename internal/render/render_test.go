package render_test

import (
	"strings"
	"testing"

	"github.com/temirov/ptree/internal/render"
	"github.com/temirov/ptree/internal/types"
)

const (
	dimStart = "\x1b[2m"
	dimEnd   = "\x1b[0m"
)

type ansiPainter struct{}

func (ansiPainter) Dim(text string) string {
	return dimStart + text + dimEnd
}

func file(name string) *types.TreeNode {
	return &types.TreeNode{Name: name, Kind: types.KindFile}
}

func directory(name string, children ...*types.TreeNode) *types.TreeNode {
	return &types.TreeNode{Name: name, Kind: types.KindDirectory, Recurse: len(children) > 0, Children: children}
}

func dimmed(node *types.TreeNode) *types.TreeNode {
	node.Style = types.StyleDimmed
	return node
}

func TestRender(t *testing.T) {
	testCases := []struct {
		name     string
		tree     *types.Tree
		painter  render.Painter
		expected string
	}{
		{
			name: "top level without root",
			tree: &types.Tree{Name: "project", Children: []*types.TreeNode{
				file(".gitignore"),
				file("Cargo.lock"),
				file("Cargo.toml"),
				file("README.md"),
				directory("src", file("main.rs")),
				directory("target", directory("debug"), directory("release")),
			}},
			expected: strings.Join([]string{
				".gitignore",
				"Cargo.lock",
				"Cargo.toml",
				"README.md",
				"src/",
				"│   └── main.rs",
				"target/",
				"    ├── debug/",
				"    └── release/",
			}, "\n"),
		},
		{
			name: "directories first without root",
			tree: &types.Tree{Name: "project", Children: []*types.TreeNode{
				directory("src", file("main.rs")),
				directory("target", directory("debug"), directory("release")),
				file(".gitignore"),
				file("README.md"),
			}},
			expected: strings.Join([]string{
				"src/",
				"│   └── main.rs",
				"target/",
				"│   ├── debug/",
				"│   └── release/",
				".gitignore",
				"README.md",
			}, "\n"),
		},
		{
			name: "root with stopped directory",
			tree: &types.Tree{Name: "project", IncludeRoot: true, Children: []*types.TreeNode{
				file(".gitignore"),
				file("Cargo.toml"),
				directory("src", file("main.rs")),
				directory("target"),
			}},
			expected: strings.Join([]string{
				"project",
				"├── .gitignore",
				"├── Cargo.toml",
				"├── src/",
				"│   └── main.rs",
				"└── target/",
			}, "\n"),
		},
		{
			name: "last top level directory uses blank continuation",
			tree: &types.Tree{Name: "project", IncludeRoot: true, Children: []*types.TreeNode{
				file("README.md"),
				directory("src", directory("cmd", file("main.go")), file("go.mod")),
			}},
			expected: strings.Join([]string{
				"project",
				"├── README.md",
				"└── src/",
				"    ├── cmd/",
				"    │   └── main.go",
				"    └── go.mod",
			}, "\n"),
		},
		{
			name: "dimmed and stopped directories",
			tree: &types.Tree{Name: "project", IncludeRoot: true, Children: []*types.TreeNode{
				file(".gitignore"),
				dimmed(directory("cache")),
				file("Cargo.lock"),
				directory("src", file("main.rs")),
				dimmed(directory("target")),
			}},
			painter: ansiPainter{},
			expected: strings.Join([]string{
				"project",
				"├── .gitignore",
				"├── " + dimStart + "cache" + dimEnd + "/",
				"├── Cargo.lock",
				"├── src/",
				"│   └── main.rs",
				"└── " + dimStart + "target" + dimEnd + "/",
			}, "\n"),
		},
		{
			name: "dimmed subtree paints connectors",
			tree: &types.Tree{Name: "project", IncludeRoot: true, Children: []*types.TreeNode{
				file(".gitignore"),
				dimmed(directory("cache", file("cache_file1.dat"), file("cache_file2.dat"))),
				file("Cargo.lock"),
				file("Cargo.toml"),
				file("README.md"),
				directory("src", file("main.rs")),
				dimmed(directory("target", directory("debug"), directory("release"))),
			}},
			painter: ansiPainter{},
			expected: strings.Join([]string{
				"project",
				"├── .gitignore",
				"├── " + dimStart + "cache" + dimEnd + "/",
				dimStart + "│   ├── cache_file1.dat" + dimEnd,
				dimStart + "│   └── cache_file2.dat" + dimEnd,
				"├── Cargo.lock",
				"├── Cargo.toml",
				"├── README.md",
				"├── src/",
				"│   └── main.rs",
				"└── " + dimStart + "target" + dimEnd + "/",
				dimStart + "    ├── debug/" + dimEnd,
				dimStart + "    └── release/" + dimEnd,
			}, "\n"),
		},
		{
			name: "dimmed node inside dimmed subtree is painted once",
			tree: &types.Tree{Name: "project", IncludeRoot: true, Children: []*types.TreeNode{
				dimmed(directory("build", dimmed(file("out.log")))),
			}},
			painter: ansiPainter{},
			expected: strings.Join([]string{
				"project",
				"└── " + dimStart + "build" + dimEnd + "/",
				dimStart + "    └── out.log" + dimEnd,
			}, "\n"),
		},
		{
			name: "dimmed top level without root",
			tree: &types.Tree{Name: "project", Children: []*types.TreeNode{
				dimmed(directory("cache", file("a.dat"))),
				file("main.go"),
			}},
			painter: ansiPainter{},
			expected: strings.Join([]string{
				dimStart + "cache" + dimEnd + "/",
				dimStart + "│   └── a.dat" + dimEnd,
				"main.go",
			}, "\n"),
		},
		{
			name: "plain painter drops styling",
			tree: &types.Tree{Name: "project", IncludeRoot: true, Children: []*types.TreeNode{
				dimmed(directory("cache", file("a.dat"))),
			}},
			painter: render.PlainPainter{},
			expected: strings.Join([]string{
				"project",
				"└── cache/",
				"    └── a.dat",
			}, "\n"),
		},
		{
			name:     "empty tree with root",
			tree:     &types.Tree{Name: "project", IncludeRoot: true},
			expected: "project",
		},
		{
			name:     "empty tree without root",
			tree:     &types.Tree{Name: "project"},
			expected: "",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rendered := render.Render(testCase.tree, testCase.painter)
			if rendered != testCase.expected {
				t.Fatalf("unexpected output\nexpected:\n%q\ngot:\n%q", testCase.expected, rendered)
			}
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	tree := &types.Tree{Name: "project", IncludeRoot: true, Children: []*types.TreeNode{
		dimmed(directory("cache", file("a.dat"))),
		directory("src", file("main.rs")),
	}}
	first := render.Render(tree, ansiPainter{})
	second := render.Render(tree, ansiPainter{})
	if first != second {
		t.Fatalf("render is not deterministic:\n%q\n%q", first, second)
	}
	if strings.HasSuffix(first, "\n") {
		t.Fatalf("rendered tree must not end with a newline")
	}
}

func TestLinesConnectors(t *testing.T) {
	tree := &types.Tree{Name: "project", IncludeRoot: true, Children: []*types.TreeNode{
		directory("a", file("a1"), file("a2")),
		file("b"),
	}}
	lines := render.Lines(tree)
	expected := []render.Line{
		{Name: "project", Directory: true, Root: true},
		{Connector: "├── ", Name: "a", Directory: true},
		{Prefix: "│   ", Connector: "├── ", Name: "a1"},
		{Prefix: "│   ", Connector: "└── ", Name: "a2"},
		{Connector: "└── ", Name: "b"},
	}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d", len(expected), len(lines))
	}
	for index := range expected {
		if lines[index] != expected[index] {
			t.Fatalf("line %d: expected %+v, got %+v", index, expected[index], lines[index])
		}
	}
}
