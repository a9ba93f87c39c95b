package session

import (
	"fmt"

	"github.com/temirov/ctxcopy/internal/output"
	"github.com/temirov/ctxcopy/internal/search"
	"github.com/temirov/ctxcopy/internal/selection"
	"github.com/temirov/ctxcopy/internal/types"
)

// Files returns the loaded records in walk order.
func (controller *Controller) Files() []types.FileRecord {
	return controller.store.Records()
}

// Progress returns a snapshot of the current or last load's progress.
func (controller *Controller) Progress() types.LoadProgress {
	controller.mutex.RLock()
	defer controller.mutex.RUnlock()
	return controller.progress.Clone()
}

// Status returns the visible status.
func (controller *Controller) Status() types.Status {
	return controller.publisher.Current()
}

// Loading reports whether a load is running.
func (controller *Controller) Loading() bool {
	controller.mutex.RLock()
	defer controller.mutex.RUnlock()
	return controller.loading
}

// RootName returns the name of the most recently selected root.
func (controller *Controller) RootName() string {
	controller.mutex.RLock()
	defer controller.mutex.RUnlock()
	return controller.rootName
}

// DirectoryTree derives the directory hierarchy of the loaded records.
func (controller *Controller) DirectoryTree() *types.DirectoryNode {
	return output.BuildDirectoryTree(controller.store.Records())
}

// ExtensionGroups derives per-category extension counts of the loaded records.
func (controller *Controller) ExtensionGroups() []types.ExtensionGroup {
	return output.GroupExtensions(controller.store.Records())
}

// Search ranks the loaded records against query.
func (controller *Controller) Search(query string) []types.FileRecord {
	return search.Filter(controller.store.Records(), query)
}

// Selected returns the selected paths in walk order.
func (controller *Controller) Selected() []string {
	return controller.store.Selected()
}

// SelectedCount returns the number of selected files.
func (controller *Controller) SelectedCount() int {
	return controller.store.Count()
}

// IsSelected reports whether path is selected.
func (controller *Controller) IsSelected(path string) bool {
	return controller.store.IsSelected(path)
}

// DirectoryState returns the tri-state of the selectable files under directoryPath.
func (controller *Controller) DirectoryState(directoryPath string) types.TriState {
	return controller.store.DirectoryState(directoryPath)
}

// ExtensionState returns the tri-state of the selectable files with extension.
func (controller *Controller) ExtensionState(extension string) types.TriState {
	return controller.store.ExtensionState(extension)
}

// StateOf returns the tri-state of the selectable files among paths.
func (controller *Controller) StateOf(paths []string) types.TriState {
	return controller.store.StateOf(paths)
}

// ToggleFile flips the selection of one selectable file.
func (controller *Controller) ToggleFile(path string) {
	controller.store.ToggleFile(path)
}

// ToggleDirectory selects or deselects every selectable file under directoryPath.
func (controller *Controller) ToggleDirectory(directoryPath string) {
	controller.store.ToggleDirectory(directoryPath)
}

// ToggleExtension selects or deselects every selectable file with extension.
func (controller *Controller) ToggleExtension(extension string) {
	controller.store.ToggleExtension(extension)
}

// SelectAll selects every selectable file.
func (controller *Controller) SelectAll() {
	controller.store.SelectAll()
}

// DeselectAll clears the selection.
func (controller *Controller) DeselectAll() {
	controller.store.DeselectAll()
}

// SelectCategories adds every selectable file in categories.
func (controller *Controller) SelectCategories(categories ...types.Category) int {
	return controller.store.SelectCategories(categories...)
}

// SelectExtensions adds every selectable file with one of extensions.
func (controller *Controller) SelectExtensions(extensions ...string) int {
	return controller.store.SelectExtensions(extensions...)
}

// SelectDirectories adds every selectable file under directories.
func (controller *Controller) SelectDirectories(directories ...string) int {
	return controller.store.SelectDirectories(directories...)
}

// SelectMatching adds every selectable file matching one of patterns.
func (controller *Controller) SelectMatching(patterns []string) int {
	return controller.store.SelectMatching(patterns)
}

// SelectPaths adds the listed selectable files.
func (controller *Controller) SelectPaths(paths []string) int {
	return controller.store.SelectPaths(paths)
}

// ApplyPreset adds the files matched by the named quick-select preset and
// reports how many were added.
func (controller *Controller) ApplyPreset(name string) (int, error) {
	preset, found := selection.FindPreset(name)
	if !found {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	added := controller.store.SelectMatching(preset.Patterns)
	controller.publisher.Info(fmt.Sprintf("%s: selected %d %s", preset.Description, added, pluralizeFiles(added)))
	return added, nil
}
