// Package config loads the application configuration and ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/ctxcopy/internal/utils"
)

const (
	commentPrefix       = "#"
	sectionHeaderPrefix = "["
	sectionHeaderSuffix = "]"
	// ignoreSectionHeader identifies the section listing ignore patterns.
	ignoreSectionHeader = "[ignore]"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns.
// Blank lines and comments are skipped. Lines under a section header other
// than [ignore] are skipped as well. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	insideIgnoreSection := true
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		if strings.HasPrefix(trimmedLine, sectionHeaderPrefix) && strings.HasSuffix(trimmedLine, sectionHeaderSuffix) {
			insideIgnoreSection = strings.EqualFold(trimmedLine, ignoreSectionHeader)
			continue
		}
		if !insideIgnoreSection {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return utils.NormalizeIgnorePatterns(ignorePatterns), nil
}

// CombineIgnorePatterns merges pattern lists in order, normalizing and
// removing duplicates.
func CombineIgnorePatterns(patternLists ...[]string) []string {
	var combined []string
	for _, patterns := range patternLists {
		combined = append(combined, patterns...)
	}
	return utils.NormalizeIgnorePatterns(combined)
}
