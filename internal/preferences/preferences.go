package preferences

import (
	"encoding/json"
	"strings"

	"github.com/temirov/ctxcopy/internal/utils"
)

const (
	KeyIgnoredFolders = "ignoredFolders"
	KeyHasSeenWelcome = "hasSeenWelcome"

	trueValue = "true"
)

// Preferences reads and writes typed values through a Store.
type Preferences struct {
	store Store
}

// New wraps store.
func New(store Store) *Preferences {
	return &Preferences{store: store}
}

// IgnoredFolders returns the stored ignore list, or defaults when nothing
// usable has been stored. The stored value is a JSON array of strings.
func (preferences *Preferences) IgnoredFolders(defaults []string) []string {
	value, exists := preferences.store.GetItem(KeyIgnoredFolders)
	if !exists {
		return append([]string(nil), defaults...)
	}
	var folders []string
	if err := json.Unmarshal([]byte(value), &folders); err != nil {
		return append([]string(nil), defaults...)
	}
	return folders
}

// SetIgnoredFolders stores folders after trimming and removing duplicates.
func (preferences *Preferences) SetIgnoredFolders(folders []string) ([]string, error) {
	cleaned := make([]string, 0, len(folders))
	for _, folder := range folders {
		trimmed := strings.TrimSpace(folder)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	cleaned = utils.DeduplicatePatterns(cleaned)
	encoded, err := json.Marshal(cleaned)
	if err != nil {
		return nil, err
	}
	if err := preferences.store.SetItem(KeyIgnoredFolders, string(encoded)); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// AddIgnoredFolder appends folder to the current list.
func (preferences *Preferences) AddIgnoredFolder(defaults []string, folder string) ([]string, error) {
	return preferences.SetIgnoredFolders(append(preferences.IgnoredFolders(defaults), folder))
}

// RemoveIgnoredFolder drops folder from the current list.
func (preferences *Preferences) RemoveIgnoredFolder(defaults []string, folder string) ([]string, error) {
	target := strings.TrimSpace(folder)
	current := preferences.IgnoredFolders(defaults)
	remaining := make([]string, 0, len(current))
	for _, existing := range current {
		if existing != target {
			remaining = append(remaining, existing)
		}
	}
	return preferences.SetIgnoredFolders(remaining)
}

// HasSeenWelcome reports whether the welcome message was acknowledged.
func (preferences *Preferences) HasSeenWelcome() bool {
	value, exists := preferences.store.GetItem(KeyHasSeenWelcome)
	return exists && value == trueValue
}

// MarkWelcomeSeen records that the welcome message was shown.
func (preferences *Preferences) MarkWelcomeSeen() error {
	return preferences.store.SetItem(KeyHasSeenWelcome, trueValue)
}
