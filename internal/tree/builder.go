// Package tree walks a directory through an fs.FS and builds an ordered, filtered tree.
package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/temirov/ptree/internal/config"
	"github.com/temirov/ptree/internal/filter"
	"github.com/temirov/ptree/internal/gitignore"
	"github.com/temirov/ptree/internal/types"
)

const (
	rootDirectoryPath = "."

	// errorReadRootFormat is used when the traversal root cannot be listed.
	errorReadRootFormat = "%w: %s: %w"
	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
	// errorMissingFilesystem is used when the builder has nothing to read from.
	errorMissingFilesystem = "tree builder: file system is nil"
)

// ErrRootUnreadable reports that the traversal root could not be listed.
var ErrRootUnreadable = errors.New("root directory unreadable")

// Builder builds trees from FileSystem, whose root is the traversal root.
type Builder struct {
	FileSystem            fs.FS
	Filter                *filter.EntryFilter
	PrioritizeDirectories bool
	// NestedGitignore extends the filter's pattern set with .gitignore files found below the root.
	NestedGitignore bool
	// Concurrency bounds parallel directory reads; values below 2 read sequentially.
	Concurrency int
	// OnSubtreeError receives unreadable subdirectories. It may be called from several
	// goroutines when Concurrency is above 1.
	OnSubtreeError func(relativePath string, err error)
}

// Build lists the traversal root and every expandable directory below it. A root read
// failure wraps ErrRootUnreadable; subdirectory failures leave an empty, unexpanded node.
func (treeBuilder *Builder) Build(ctx context.Context, rootName string, includeRoot bool) (*types.Tree, error) {
	if treeBuilder.FileSystem == nil {
		return nil, errors.New(errorMissingFilesystem)
	}
	entryFilter := treeBuilder.Filter
	if entryFilter == nil {
		entryFilter = filter.New(defaultFilterOptions(), nil)
	}

	var workerTokens *semaphore.Weighted
	if treeBuilder.Concurrency > 1 {
		workerTokens = semaphore.NewWeighted(int64(treeBuilder.Concurrency - 1))
	}

	children, buildError := treeBuilder.buildLevel(ctx, rootDirectoryPath, entryFilter, workerTokens)
	if buildError != nil {
		if isContextError(buildError) {
			return nil, buildError
		}
		return nil, fmt.Errorf(errorReadRootFormat, ErrRootUnreadable, rootName, buildError)
	}
	return &types.Tree{
		Name:        rootName,
		IncludeRoot: includeRoot,
		Children:    children,
	}, nil
}

// buildLevel classifies and sorts the entries of directoryPath, then expands the
// directories that may be recursed into.
func (treeBuilder *Builder) buildLevel(ctx context.Context, directoryPath string, entryFilter *filter.EntryFilter, workerTokens *semaphore.Weighted) ([]*types.TreeNode, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	directoryEntries, readDirectoryError := fs.ReadDir(treeBuilder.FileSystem, directoryPath)
	if readDirectoryError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}

	levelFilter := treeBuilder.nestedFilter(directoryPath, entryFilter)

	nodes := make([]*types.TreeNode, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryName := directoryEntry.Name()
		isDirectory := directoryEntry.IsDir()
		verdict := levelFilter.Classify(filter.Entry{
			RelativePath: childPath(directoryPath, entryName),
			Name:         entryName,
			IsDirectory:  isDirectory,
		})
		if verdict.Classification == types.Excluded {
			continue
		}
		node := &types.TreeNode{
			Name:    entryName,
			Kind:    types.KindFile,
			Style:   verdict.Style,
			Recurse: isDirectory && verdict.Recurses(),
		}
		if isDirectory {
			node.Kind = types.KindDirectory
		}
		nodes = append(nodes, node)
	}
	SortNodes(nodes, treeBuilder.PrioritizeDirectories)

	var group errgroup.Group
	for _, node := range nodes {
		if !node.Recurse {
			continue
		}
		expandedNode := node
		expand := func() error {
			return treeBuilder.expand(ctx, childPath(directoryPath, expandedNode.Name), expandedNode, levelFilter, workerTokens)
		}
		if workerTokens != nil && workerTokens.TryAcquire(1) {
			group.Go(func() error {
				defer workerTokens.Release(1)
				return expand()
			})
			continue
		}
		if expandError := expand(); expandError != nil {
			_ = group.Wait()
			return nil, expandError
		}
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return nodes, nil
}

// expand fills node.Children. Only context errors are returned; read failures are reported
// and turn the node into an empty, unexpanded directory.
func (treeBuilder *Builder) expand(ctx context.Context, relativePath string, node *types.TreeNode, entryFilter *filter.EntryFilter, workerTokens *semaphore.Weighted) error {
	children, buildError := treeBuilder.buildLevel(ctx, relativePath, entryFilter, workerTokens)
	if buildError != nil {
		if isContextError(buildError) {
			return buildError
		}
		node.Recurse = false
		node.Children = nil
		if treeBuilder.OnSubtreeError != nil {
			treeBuilder.OnSubtreeError(relativePath, buildError)
		}
		return nil
	}
	node.Children = children
	return nil
}

// nestedFilter extends the pattern set with directoryPath/.gitignore when enabled.
func (treeBuilder *Builder) nestedFilter(directoryPath string, entryFilter *filter.EntryFilter) *filter.EntryFilter {
	if !treeBuilder.NestedGitignore || directoryPath == rootDirectoryPath {
		return entryFilter
	}
	if !entryFilter.GitignoreMode().Ignores() && !entryFilter.GitignoreMode().Stops() && !entryFilter.GitignoreMode().Dims() {
		return entryFilter
	}
	nestedPatterns, loadError := gitignore.Load(treeBuilder.FileSystem, directoryPath)
	if loadError != nil || nestedPatterns.Len() == 0 {
		return entryFilter
	}
	return entryFilter.WithPatterns(entryFilter.Patterns().Extend(nestedPatterns))
}

func defaultFilterOptions() config.Options {
	return config.Options{GitignoreMode: config.GitignoreOff}
}

func childPath(directoryPath string, entryName string) string {
	if directoryPath == rootDirectoryPath {
		return entryName
	}
	return path.Join(directoryPath, entryName)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
