// Package types defines every cross‑package data structure used by ctxcopy.
package types

import "sort"

const (
	// NoExtension is the extension sentinel for names without a usable suffix.
	NoExtension = "(no extension)"

	PathSeparator = "/"

	CommandCopy    = "copy"
	CommandPreview = "preview"
	CommandList    = "list"
	CommandBrowse  = "browse"
)

// Category groups extensions the way the extension filter presents them.
type Category string

const (
	CategoryPreferred Category = "preferred"
	CategoryCode      Category = "code"
	CategoryBinary    Category = "binary"
	CategoryOther     Category = "other"
)

// Categories lists every category in presentation order.
var Categories = []Category{CategoryPreferred, CategoryCode, CategoryBinary, CategoryOther}

// FileRecord is one physical file discovered under the chosen root.
type FileRecord struct {
	Name         string   `json:"name" yaml:"name"`
	Path         string   `json:"path" yaml:"path"`
	Extension    string   `json:"extension" yaml:"extension"`
	Size         *int64   `json:"size,omitempty" yaml:"size,omitempty"`
	IsSelectable bool     `json:"isSelectable" yaml:"isSelectable"`
	IsText       bool     `json:"isText" yaml:"isText"`
	Category     Category `json:"category" yaml:"category"`
	MimeType     string   `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
}

// SizeBytes returns the recorded size or zero when it is unknown.
func (record FileRecord) SizeBytes() int64 {
	if record.Size == nil {
		return 0
	}
	return *record.Size
}

// SkipReason explains why a walked file did not become a FileRecord.
type SkipReason string

const (
	SkipReasonReadError SkipReason = "read_error"
	SkipReasonOversized SkipReason = "oversized"
)

// SkippedFile records a file that was walked but omitted from the results.
type SkippedFile struct {
	Path   string     `json:"path"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// LoadProgress tracks the accounting of an in-progress directory walk.
type LoadProgress struct {
	TotalEntries     int                 `json:"totalEntries"`
	ProcessedEntries int                 `json:"processedEntries"`
	InFlight         map[string]struct{} `json:"-"`
}

// NewLoadProgress returns a zeroed progress value.
func NewLoadProgress() LoadProgress {
	return LoadProgress{InFlight: map[string]struct{}{}}
}

// Clone returns a copy that shares no state with the receiver.
func (progress LoadProgress) Clone() LoadProgress {
	cloned := LoadProgress{
		TotalEntries:     progress.TotalEntries,
		ProcessedEntries: progress.ProcessedEntries,
		InFlight:         make(map[string]struct{}, len(progress.InFlight)),
	}
	for path := range progress.InFlight {
		cloned.InFlight[path] = struct{}{}
	}
	return cloned
}

// InFlightPaths returns the in-flight paths in sorted order.
func (progress LoadProgress) InFlightPaths() []string {
	paths := make([]string, 0, len(progress.InFlight))
	for path := range progress.InFlight {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Percent reports processed entries as a whole percentage of the known total.
func (progress LoadProgress) Percent() int {
	if progress.TotalEntries == 0 {
		return 0
	}
	return progress.ProcessedEntries * 100 / progress.TotalEntries
}

// DirectoryNode is a derived, read-only tree built from the flat record list.
type DirectoryNode struct {
	Name      string                    `json:"name"`
	Path      string                    `json:"path"`
	Children  map[string]*DirectoryNode `json:"children,omitempty"`
	Files     []FileRecord              `json:"files,omitempty"`
	FileCount int                       `json:"fileCount"`
}

// SortedChildren returns the child directories ordered by name.
func (node *DirectoryNode) SortedChildren() []*DirectoryNode {
	if node == nil {
		return nil
	}
	names := make([]string, 0, len(node.Children))
	for name := range node.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	children := make([]*DirectoryNode, 0, len(names))
	for _, name := range names {
		children = append(children, node.Children[name])
	}
	return children
}

// TriState is the aggregate selection state of a candidate set.
type TriState string

const (
	TriStateNone TriState = "none"
	TriStateSome TriState = "some"
	TriStateAll  TriState = "all"
)

// Severity classifies a status message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Status is the single user-facing status line.
type Status struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// IsEmpty reports whether the status carries no message.
func (status Status) IsEmpty() bool {
	return status.Message == ""
}

// ExtensionCount pairs an extension with the number of records using it.
type ExtensionCount struct {
	Extension string `json:"extension"`
	Count     int    `json:"count"`
}

// ExtensionGroup lists the extensions that fall into one category.
type ExtensionGroup struct {
	Category   Category         `json:"category"`
	Extensions []ExtensionCount `json:"extensions"`
}
