package tree

import (
	"slices"
	"strings"

	"github.com/temirov/ptree/internal/types"
)

// SortNodes orders siblings by name, compared byte-wise. With prioritizeDirectories,
// directories come before files.
func SortNodes(nodes []*types.TreeNode, prioritizeDirectories bool) {
	slices.SortStableFunc(nodes, func(left, right *types.TreeNode) int {
		if prioritizeDirectories && left.IsDirectory() != right.IsDirectory() {
			if left.IsDirectory() {
				return -1
			}
			return 1
		}
		return strings.Compare(left.Name, right.Name)
	})
}
