// Package selection maintains the set of selected file paths over the records
// of the current load.
package selection

import (
	"strings"
	"sync"

	"github.com/temirov/ctxcopy/internal/types"
)

// Store holds the master record list and the selected subset. Every method is
// safe for concurrent use and completes without blocking on I/O.
type Store struct {
	mutex    sync.RWMutex
	records  []types.FileRecord
	index    map[string]int
	selected map[string]struct{}
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{index: map[string]int{}, selected: map[string]struct{}{}}
}

// Replace installs records as the master list and clears the selection.
func (store *Store) Replace(records []types.FileRecord) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.records = nil
	store.index = make(map[string]int, len(records))
	store.selected = map[string]struct{}{}
	for _, record := range records {
		store.appendLocked(record)
	}
}

// Append adds records to the end of the master list. Records whose path is
// already present are ignored.
func (store *Store) Append(records ...types.FileRecord) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	for _, record := range records {
		store.appendLocked(record)
	}
}

func (store *Store) appendLocked(record types.FileRecord) {
	if _, exists := store.index[record.Path]; exists {
		return
	}
	store.index[record.Path] = len(store.records)
	store.records = append(store.records, record)
}

// Reset drops every record and the selection.
func (store *Store) Reset() {
	store.Replace(nil)
}

// Records returns a copy of the master list.
func (store *Store) Records() []types.FileRecord {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	return append([]types.FileRecord(nil), store.records...)
}

// Len returns the number of records.
func (store *Store) Len() int {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	return len(store.records)
}

// Record returns the record stored under path.
func (store *Store) Record(path string) (types.FileRecord, bool) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	recordIndex, exists := store.index[path]
	if !exists {
		return types.FileRecord{}, false
	}
	return store.records[recordIndex], true
}

// ToggleFile flips the selection of one selectable file. Unknown and
// non-selectable paths are ignored.
func (store *Store) ToggleFile(path string) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	recordIndex, exists := store.index[path]
	if !exists || !store.records[recordIndex].IsSelectable {
		return
	}
	if _, isSelected := store.selected[path]; isSelected {
		delete(store.selected, path)
		return
	}
	store.selected[path] = struct{}{}
}

// ToggleDirectory selects every selectable file under directoryPath unless
// all of them are already selected, in which case it deselects them. An
// empty path or "/" addresses the whole root.
func (store *Store) ToggleDirectory(directoryPath string) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.toggleLocked(store.candidatesLocked(inDirectory(directoryPath)))
}

// ToggleExtension applies the all-or-none toggle to every selectable file
// with the given extension.
func (store *Store) ToggleExtension(extension string) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.toggleLocked(store.candidatesLocked(withExtension(extension)))
}

// SelectAll selects every selectable record.
func (store *Store) SelectAll() {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	for _, path := range store.candidatesLocked(anyRecord) {
		store.selected[path] = struct{}{}
	}
}

// DeselectAll clears the selection.
func (store *Store) DeselectAll() {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.selected = map[string]struct{}{}
}

// SelectCategories adds every selectable record in one of categories and
// returns how many paths were newly selected.
func (store *Store) SelectCategories(categories ...types.Category) int {
	wanted := make(map[types.Category]struct{}, len(categories))
	for _, category := range categories {
		wanted[category] = struct{}{}
	}
	return store.selectWhere(func(record types.FileRecord) bool {
		_, isWanted := wanted[record.Category]
		return isWanted
	})
}

// SelectExtensions adds every selectable record with one of extensions.
func (store *Store) SelectExtensions(extensions ...string) int {
	wanted := make(map[string]struct{}, len(extensions))
	for _, extension := range extensions {
		wanted[normalizeExtension(extension)] = struct{}{}
	}
	return store.selectWhere(func(record types.FileRecord) bool {
		_, isWanted := wanted[record.Extension]
		return isWanted
	})
}

// SelectDirectories adds every selectable record under one of directories.
func (store *Store) SelectDirectories(directories ...string) int {
	matchers := make([]func(types.FileRecord) bool, 0, len(directories))
	for _, directory := range directories {
		matchers = append(matchers, inDirectory(directory))
	}
	return store.selectWhere(func(record types.FileRecord) bool {
		for _, matcher := range matchers {
			if matcher(record) {
				return true
			}
		}
		return false
	})
}

// SelectMatching adds every selectable record whose path matches one of the
// glob patterns. See MatchPattern for the pattern syntax.
func (store *Store) SelectMatching(patterns []string) int {
	return store.selectWhere(func(record types.FileRecord) bool {
		for _, pattern := range patterns {
			if MatchPattern(pattern, record.Path) {
				return true
			}
		}
		return false
	})
}

// SelectPaths adds the given paths when they name selectable records.
func (store *Store) SelectPaths(paths []string) int {
	wanted := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		wanted[strings.Trim(path, types.PathSeparator)] = struct{}{}
	}
	return store.selectWhere(func(record types.FileRecord) bool {
		_, isWanted := wanted[record.Path]
		return isWanted
	})
}

func (store *Store) selectWhere(matches func(types.FileRecord) bool) int {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	added := 0
	for _, path := range store.candidatesLocked(matches) {
		if _, isSelected := store.selected[path]; !isSelected {
			store.selected[path] = struct{}{}
			added++
		}
	}
	return added
}

// DirectoryState reports the aggregate state of the selectable files under directoryPath.
func (store *Store) DirectoryState(directoryPath string) types.TriState {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	return store.stateLocked(store.candidatesLocked(inDirectory(directoryPath)))
}

// ExtensionState reports the aggregate state of the selectable files with extension.
func (store *Store) ExtensionState(extension string) types.TriState {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	return store.stateLocked(store.candidatesLocked(withExtension(extension)))
}

// StateOf reports the aggregate state of paths, ignoring paths that do not
// name selectable records.
func (store *Store) StateOf(paths []string) types.TriState {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	candidates := make([]string, 0, len(paths))
	for _, path := range paths {
		if recordIndex, exists := store.index[path]; exists && store.records[recordIndex].IsSelectable {
			candidates = append(candidates, path)
		}
	}
	return store.stateLocked(candidates)
}

// IsSelected reports whether path is selected.
func (store *Store) IsSelected(path string) bool {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	_, isSelected := store.selected[path]
	return isSelected
}

// Count returns the number of selected paths.
func (store *Store) Count() int {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	return len(store.selected)
}

// Selected returns the selected paths in master record order.
func (store *Store) Selected() []string {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	paths := make([]string, 0, len(store.selected))
	for _, record := range store.records {
		if _, isSelected := store.selected[record.Path]; isSelected {
			paths = append(paths, record.Path)
		}
	}
	return paths
}

// SelectedRecords returns the selected records in master record order.
func (store *Store) SelectedRecords() []types.FileRecord {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	records := make([]types.FileRecord, 0, len(store.selected))
	for _, record := range store.records {
		if _, isSelected := store.selected[record.Path]; isSelected {
			records = append(records, record)
		}
	}
	return records
}

func (store *Store) candidatesLocked(matches func(types.FileRecord) bool) []string {
	var candidates []string
	for _, record := range store.records {
		if record.IsSelectable && matches(record) {
			candidates = append(candidates, record.Path)
		}
	}
	return candidates
}

func (store *Store) toggleLocked(candidates []string) {
	if len(candidates) == 0 {
		return
	}
	if store.stateLocked(candidates) == types.TriStateAll {
		for _, path := range candidates {
			delete(store.selected, path)
		}
		return
	}
	for _, path := range candidates {
		store.selected[path] = struct{}{}
	}
}

func (store *Store) stateLocked(candidates []string) types.TriState {
	selectedCount := 0
	for _, path := range candidates {
		if _, isSelected := store.selected[path]; isSelected {
			selectedCount++
		}
	}
	switch {
	case selectedCount == 0:
		return types.TriStateNone
	case selectedCount == len(candidates):
		return types.TriStateAll
	default:
		return types.TriStateSome
	}
}

func anyRecord(types.FileRecord) bool {
	return true
}

func inDirectory(directoryPath string) func(types.FileRecord) bool {
	trimmedDirectory := strings.Trim(directoryPath, types.PathSeparator)
	if trimmedDirectory == "" {
		return anyRecord
	}
	prefix := trimmedDirectory + types.PathSeparator
	return func(record types.FileRecord) bool {
		return strings.HasPrefix(record.Path, prefix)
	}
}

func withExtension(extension string) func(types.FileRecord) bool {
	normalized := normalizeExtension(extension)
	return func(record types.FileRecord) bool {
		return record.Extension == normalized
	}
}

func normalizeExtension(extension string) string {
	if extension == types.NoExtension {
		return extension
	}
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(extension), "."))
}
