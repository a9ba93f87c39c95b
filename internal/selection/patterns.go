package selection

import (
	"path"
	"strings"

	"github.com/temirov/ctxcopy/internal/types"
)

const anySegmentsWildcard = "**"

// Preset is a named group of quick-select patterns.
type Preset struct {
	Name        string
	Description string
	Patterns    []string
}

// QuickSelectPresets lists the built-in quick-select groups.
var QuickSelectPresets = []Preset{
	{
		Name:        "nextjs",
		Description: "Core Next.js files",
		Patterns: []string{
			"src/**/*",
			"package.json",
			"tsconfig.json",
			"next.config.*",
			"tailwind.config.*",
			"postcss.config.*",
			".env*",
			".eslintrc.*",
		},
	},
	{
		Name:        "config",
		Description: "Config files only",
		Patterns: []string{
			"package.json",
			"tsconfig.json",
			"next.config.*",
			"tailwind.config.*",
			"*.config.*",
			".env*",
		},
	},
	{
		Name:        "source",
		Description: "Source files only",
		Patterns:    []string{"src/**/*"},
	},
}

// FindPreset returns the preset registered under name.
func FindPreset(name string) (Preset, bool) {
	for _, preset := range QuickSelectPresets {
		if strings.EqualFold(preset.Name, name) {
			return preset, true
		}
	}
	return Preset{}, false
}

// MatchPattern reports whether the slash-separated relative filePath matches
// pattern. A pattern without a slash is matched against the base name at any
// depth. A pattern with a slash is anchored at the root and matched segment
// by segment; "**" matches zero or more whole segments.
func MatchPattern(pattern string, filePath string) bool {
	normalizedPattern := strings.TrimSpace(strings.ReplaceAll(pattern, "\\", types.PathSeparator))
	normalizedPattern = strings.TrimPrefix(normalizedPattern, "./")
	normalizedPattern = strings.Trim(normalizedPattern, types.PathSeparator)
	if normalizedPattern == "" || filePath == "" {
		return false
	}
	if !strings.Contains(normalizedPattern, types.PathSeparator) {
		isMatched, matchError := path.Match(normalizedPattern, path.Base(filePath))
		return matchError == nil && isMatched
	}
	return matchSegments(strings.Split(normalizedPattern, types.PathSeparator), strings.Split(filePath, types.PathSeparator))
}

func matchSegments(patternSegments []string, pathSegments []string) bool {
	if len(patternSegments) == 0 {
		return len(pathSegments) == 0
	}
	if patternSegments[0] == anySegmentsWildcard {
		for skipCount := 0; skipCount <= len(pathSegments); skipCount++ {
			if matchSegments(patternSegments[1:], pathSegments[skipCount:]) {
				return true
			}
		}
		return false
	}
	if len(pathSegments) == 0 {
		return false
	}
	isMatched, matchError := path.Match(patternSegments[0], pathSegments[0])
	if matchError != nil || !isMatched {
		return false
	}
	return matchSegments(patternSegments[1:], pathSegments[1:])
}
