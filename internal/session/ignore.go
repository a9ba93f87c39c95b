package session

import (
	"github.com/temirov/ctxcopy/internal/preferences"
	"github.com/temirov/ctxcopy/internal/utils"
)

// PreferenceIgnore reads the stored ignore list on every call so that edits
// made between loads take effect on the next one.
type PreferenceIgnore struct {
	Preferences *preferences.Preferences
	Defaults    []string
	Extra       []string
}

// IgnorePatterns returns the stored folders, or Defaults when none are
// stored, followed by Extra.
func (ignore PreferenceIgnore) IgnorePatterns() []string {
	patterns := append([]string(nil), ignore.Defaults...)
	if ignore.Preferences != nil {
		patterns = ignore.Preferences.IgnoredFolders(ignore.Defaults)
	}
	return utils.NormalizeIgnorePatterns(append(patterns, ignore.Extra...))
}
