// Package classifier decides whether a walked file is text, which category its
// extension belongs to, and whether it may be selected.
package classifier

import (
	"fmt"
	"strings"
	"sync"

	"github.com/temirov/ctxcopy/internal/types"
	"github.com/temirov/ctxcopy/internal/utils"
)

// Mode selects the policy used to decide IsSelectable.
type Mode string

const (
	// ModeSniff makes a file selectable when its content sniffs as text and it is not oversized.
	ModeSniff Mode = "sniff"
	// ModeExtensions makes a file selectable when its extension is in the valid set.
	ModeExtensions Mode = "extensions"

	// DefaultMaxFileSize is the largest file accepted by the walker and the sniff policy.
	DefaultMaxFileSize int64 = 5 * 1024 * 1024

	extensionSeparator      = "."
	unsupportedModeMessage  = "unsupported selection mode %q (expected %s or %s)"
	extensionLeadingDotTrim = "."
)

// ParseMode converts a configuration value into a Mode. An empty value yields ModeSniff.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeSniff:
		return ModeSniff, nil
	case ModeExtensions:
		return ModeExtensions, nil
	default:
		return "", fmt.Errorf(unsupportedModeMessage, value, ModeSniff, ModeExtensions)
	}
}

// Options configures a Classifier.
type Options struct {
	Mode            Mode
	MaxFileSize     int64
	ExtraExtensions []string
}

// Input describes one file to classify. Sample and Size are optional.
type Input struct {
	Name             string
	Sample           []byte
	Size             *int64
	DeclaredMimeType string
}

// Result is the outcome of classifying one file.
type Result struct {
	Extension    string
	IsSelectable bool
	IsText       bool
	Category     types.Category
	MimeType     string
}

// Classifier applies the extension tables and the sniffing heuristic.
type Classifier struct {
	mode            Mode
	maxFileSize     int64
	validExtensions extensionSet
}

// New builds a Classifier. A zero MaxFileSize disables the size limit.
func New(options Options) *Classifier {
	mode := options.Mode
	if mode == "" {
		mode = ModeSniff
	}
	extras := make([]string, 0, len(options.ExtraExtensions))
	for _, extension := range options.ExtraExtensions {
		normalized := strings.ToLower(strings.TrimLeft(strings.TrimSpace(extension), extensionLeadingDotTrim))
		if normalized != "" {
			extras = append(extras, normalized)
		}
	}
	return &Classifier{
		mode:            mode,
		maxFileSize:     options.MaxFileSize,
		validExtensions: PreferredExtensions.union(CodeExtensions, WellKnownNames, newExtensionSet(extras...)),
	}
}

// Mode returns the active selectable policy.
func (classifier *Classifier) Mode() Mode {
	return classifier.mode
}

// MaxFileSize returns the configured size limit, zero meaning unlimited.
func (classifier *Classifier) MaxFileSize() int64 {
	return classifier.maxFileSize
}

// IsOversized reports whether size exceeds the configured limit.
func (classifier *Classifier) IsOversized(size int64) bool {
	return classifier.maxFileSize > 0 && size > classifier.maxFileSize
}

// isValidExtension reports whether extension is in the allow-list.
func (classifier *Classifier) isValidExtension(extension string) bool {
	return classifier.validExtensions.Has(extension)
}

// Classify returns the classification for input. It is deterministic for identical input.
func (classifier *Classifier) Classify(input Input) Result {
	extension := ExtractExtension(input.Name)
	result := Result{
		Extension: extension,
		Category:  CategoryOf(extension),
	}

	switch {
	case BinaryExtensions.Has(extension):
		result.IsText = false
	case input.Sample != nil:
		result.IsText = utils.IsTextSample(input.Sample)
		result.MimeType = utils.DetectMimeType(input.Sample)
	case input.Size != nil && *input.Size == 0:
		result.IsText = true
	default:
		result.IsText = classifier.isValidExtension(extension)
	}
	if result.MimeType == "" {
		result.MimeType = input.DeclaredMimeType
	}

	switch classifier.mode {
	case ModeExtensions:
		result.IsSelectable = classifier.isValidExtension(extension)
	default:
		result.IsSelectable = result.IsText && (input.Size == nil || !classifier.IsOversized(*input.Size))
	}
	return result
}

// ExtractExtension returns the lower-cased suffix after the last dot. Names
// without a dot use the whole lower-cased name when it is a well-known
// extension-less name; every other case yields types.NoExtension.
func ExtractExtension(name string) string {
	lowerName := strings.ToLower(name)
	separatorIndex := strings.LastIndex(lowerName, extensionSeparator)
	if separatorIndex < 0 {
		if WellKnownNames.Has(lowerName) {
			return lowerName
		}
		return types.NoExtension
	}
	suffix := lowerName[separatorIndex+1:]
	if suffix == "" {
		return types.NoExtension
	}
	return suffix
}

// CategoryOf maps an extension onto its presentation category.
func CategoryOf(extension string) types.Category {
	switch {
	case PreferredExtensions.Has(extension):
		return types.CategoryPreferred
	case CodeExtensions.Has(extension):
		return types.CategoryCode
	case BinaryExtensions.Has(extension):
		return types.CategoryBinary
	default:
		return types.CategoryOther
	}
}

// Cache memoizes classification results by full relative path for one load.
type Cache struct {
	mutex   sync.Mutex
	results map[string]Result
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{results: map[string]Result{}}
}

// Lookup returns the cached result for path.
func (cache *Cache) Lookup(path string) (Result, bool) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	result, exists := cache.results[path]
	return result, exists
}

// Store records the result for path.
func (cache *Cache) Store(path string, result Result) {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	cache.results[path] = result
}

// Len returns the number of cached entries.
func (cache *Cache) Len() int {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	return len(cache.results)
}

// Reset drops every cached entry. It must be called at the start of every load.
func (cache *Cache) Reset() {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	cache.results = map[string]Result{}
}
