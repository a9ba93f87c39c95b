package output

import (
	"sort"
	"strings"

	"github.com/temirov/ctxcopy/internal/types"
)

// BuildDirectoryTree derives the directory hierarchy of records. The returned
// root has an empty name and path; every node's FileCount includes its
// descendants.
func BuildDirectoryTree(records []types.FileRecord) *types.DirectoryNode {
	root := &types.DirectoryNode{Children: map[string]*types.DirectoryNode{}}
	for _, record := range records {
		currentNode := root
		currentNode.FileCount++
		segments := strings.Split(record.Path, types.PathSeparator)
		for _, segment := range segments[:len(segments)-1] {
			childNode, exists := currentNode.Children[segment]
			if !exists {
				childPath := segment
				if currentNode.Path != "" {
					childPath = currentNode.Path + types.PathSeparator + segment
				}
				childNode = &types.DirectoryNode{Name: segment, Path: childPath, Children: map[string]*types.DirectoryNode{}}
				currentNode.Children[segment] = childNode
			}
			currentNode = childNode
			currentNode.FileCount++
		}
		currentNode.Files = append(currentNode.Files, record)
	}
	return root
}

// GroupExtensions counts records per extension inside each category. Groups
// follow types.Categories order, empty groups are omitted and extensions are
// ordered by descending count then name.
func GroupExtensions(records []types.FileRecord) []types.ExtensionGroup {
	counts := map[types.Category]map[string]int{}
	for _, record := range records {
		categoryCounts, exists := counts[record.Category]
		if !exists {
			categoryCounts = map[string]int{}
			counts[record.Category] = categoryCounts
		}
		categoryCounts[record.Extension]++
	}

	var groups []types.ExtensionGroup
	for _, category := range types.Categories {
		categoryCounts := counts[category]
		if len(categoryCounts) == 0 {
			continue
		}
		extensions := make([]types.ExtensionCount, 0, len(categoryCounts))
		for extension, count := range categoryCounts {
			extensions = append(extensions, types.ExtensionCount{Extension: extension, Count: count})
		}
		sort.Slice(extensions, func(left, right int) bool {
			if extensions[left].Count != extensions[right].Count {
				return extensions[left].Count > extensions[right].Count
			}
			return extensions[left].Extension < extensions[right].Extension
		})
		groups = append(groups, types.ExtensionGroup{Category: category, Extensions: extensions})
	}
	return groups
}
