// Package utils contains general helper functions used across ctxcopy.
package utils

import (
	"path"
	"strings"
)

const pathSegmentSeparator = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizeIgnorePatterns trims whitespace, converts separators to forward
// slashes, drops empty entries and removes duplicates.
func NormalizeIgnorePatterns(patterns []string) []string {
	normalized := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(strings.ReplaceAll(pattern, "\\", pathSegmentSeparator))
		trimmedPattern = strings.Trim(trimmedPattern, pathSegmentSeparator)
		if trimmedPattern == "" {
			continue
		}
		normalized = append(normalized, trimmedPattern)
	}
	return DeduplicatePatterns(normalized)
}

// JoinRelativePath appends name to a slash-separated parent path.
// The root is represented by the empty string.
func JoinRelativePath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}
	return parentPath + pathSegmentSeparator + name
}

// ShouldIgnoreByPath reports whether a path relative to the walk root should
// be excluded. The candidate path and every pattern are converted to
// forward-slash form before evaluation.
//
// A pattern without a slash is compared against every path segment, either
// literally or with path.Match glob semantics, so "node_modules" excludes the
// directory at any depth and "*.lock" excludes lock files anywhere. A pattern
// containing a slash names a path from the root; it matches that path and all
// of its descendants, each segment evaluated with path.Match.
func ShouldIgnoreByPath(relativePath string, ignorePatterns []string) bool {
	normalizedPath := strings.Trim(strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator), pathSegmentSeparator)
	if normalizedPath == "" {
		return false
	}
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)

	for _, patternValue := range ignorePatterns {
		normalizedPattern := strings.TrimSpace(strings.ReplaceAll(patternValue, "\\", pathSegmentSeparator))
		normalizedPattern = strings.Trim(normalizedPattern, pathSegmentSeparator)
		if normalizedPattern == "" {
			continue
		}

		patternSegments := strings.Split(normalizedPattern, pathSegmentSeparator)
		if len(patternSegments) == 1 {
			for _, pathSegment := range pathSegments {
				if segmentMatches(patternSegments[0], pathSegment) {
					return true
				}
			}
			continue
		}

		if len(pathSegments) >= len(patternSegments) && segmentsMatch(pathSegments[:len(patternSegments)], patternSegments) {
			return true
		}
	}

	return false
}

// segmentsMatch reports whether each pattern segment matches the corresponding
// path segment.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	for segmentIndex, patternSegment := range patternSegments {
		if !segmentMatches(patternSegment, pathSegments[segmentIndex]) {
			return false
		}
	}
	return true
}

func segmentMatches(patternSegment, pathSegment string) bool {
	if patternSegment == pathSegment {
		return true
	}
	isMatched, matchError := path.Match(patternSegment, pathSegment)
	return matchError == nil && isMatched
}
