// Package output renders selections into the directory-tree summary and the
// delimited content blob placed on the clipboard.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/temirov/ctxcopy/internal/types"
	"github.com/temirov/ctxcopy/internal/utils"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	contentStartFormat = "=== START %s ===\n"
	contentEndFormat   = "\n=== END %s ===\n\n"
	previewSeparator   = "\n\n"
)

type treeNode struct {
	children map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{children: map[string]*treeNode{}}
}

func (node *treeNode) sortedNames() []string {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderTree renders the selected paths as a box-drawing tree. Each distinct
// path prefix appears on exactly one line; siblings are ordered by name and
// files look the same as directories.
func RenderTree(selectedPaths []string) string {
	root := newTreeNode()
	for _, selectedPath := range selectedPaths {
		currentNode := root
		for _, segment := range strings.Split(selectedPath, types.PathSeparator) {
			if segment == "" {
				continue
			}
			childNode, exists := currentNode.children[segment]
			if !exists {
				childNode = newTreeNode()
				currentNode.children[segment] = childNode
			}
			currentNode = childNode
		}
	}

	var builder strings.Builder
	writeTreeChildren(&builder, root, "")
	return strings.TrimRight(builder.String(), "\n")
}

func writeTreeChildren(writer io.Writer, node *treeNode, prefix string) {
	names := node.sortedNames()
	for index, name := range names {
		linePrefix, childPrefix := treeNodeLinePrefix(prefix, index == len(names)-1)
		fmt.Fprintf(writer, "%s%s\n", linePrefix, name)
		writeTreeChildren(writer, node.children[name], childPrefix)
	}
}

func treeNodeLinePrefix(prefix string, isLast bool) (string, string) {
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

// ContentBlock is the content of one selected file.
type ContentBlock struct {
	Path    string
	Content string
}

// RenderContent concatenates one delimited block per file in the given order.
func RenderContent(blocks []ContentBlock) string {
	var builder strings.Builder
	for _, block := range blocks {
		fmt.Fprintf(&builder, contentStartFormat, block.Path)
		builder.WriteString(block.Content)
		fmt.Fprintf(&builder, contentEndFormat, block.Path)
	}
	return builder.String()
}

// Preview joins the tree and content renderings.
func Preview(tree string, content string) string {
	return tree + previewSeparator + content
}

// Summary aggregates what a copy or preview contains.
type Summary struct {
	Files  int
	Bytes  int64
	Tokens int
	Model  string
}

// FormatSummaryLine formats a Summary into a single human readable line.
func FormatSummaryLine(summary Summary) string {
	label := "files"
	if summary.Files == 1 {
		label = "file"
	}
	extra := ""
	if summary.Tokens > 0 {
		extra = fmt.Sprintf(", %d tokens", summary.Tokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", summary.Files, label, utils.FormatFileSize(summary.Bytes), extra, modelSuffix)
}
