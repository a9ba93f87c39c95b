package utils_test

import (
	"testing"

	"github.com/temirov/ctxcopy/internal/utils"
)

// nodeModulesPattern defines the default dependency directory pattern.
const nodeModulesPattern = "node_modules"

// lockfileGlobPattern defines a glob pattern matching lock files.
const lockfileGlobPattern = "*.lock"

// nestedDirectoryPattern defines a rooted multi-segment pattern.
const nestedDirectoryPattern = "docs/generated"

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestNormalizeIgnorePatterns verifies trimming, separator conversion and deduplication.
func TestNormalizeIgnorePatterns(testingInstance *testing.T) {
	actual := utils.NormalizeIgnorePatterns([]string{" node_modules ", "", "dist/", `docs\generated`, "node_modules", "   "})
	expected := []string{"node_modules", "dist", nestedDirectoryPattern}
	if len(actual) != len(expected) {
		testingInstance.Fatalf("expected %v, got %v", expected, actual)
	}
	for index := range expected {
		if actual[index] != expected[index] {
			testingInstance.Fatalf("expected %v, got %v", expected, actual)
		}
	}
}

// TestJoinRelativePath verifies root and nested joins.
func TestJoinRelativePath(testingInstance *testing.T) {
	if joined := utils.JoinRelativePath("", "a"); joined != "a" {
		testingInstance.Errorf("expected a, got %s", joined)
	}
	if joined := utils.JoinRelativePath("a/b", "c.txt"); joined != "a/b/c.txt" {
		testingInstance.Errorf("expected a/b/c.txt, got %s", joined)
	}
}

// TestShouldIgnoreByPath verifies path ignoring logic.
func TestShouldIgnoreByPath(testingInstance *testing.T) {
	testCases := []struct {
		testName       string
		relativePath   string
		patterns       []string
		expectedIgnore bool
	}{
		{
			testName:       "segment at root",
			relativePath:   nodeModulesPattern,
			patterns:       []string{nodeModulesPattern},
			expectedIgnore: true,
		},
		{
			testName:       "segment nested",
			relativePath:   "packages/web/node_modules/react/index.js",
			patterns:       []string{nodeModulesPattern},
			expectedIgnore: true,
		},
		{
			testName:       "segment prefix is not a match",
			relativePath:   "node_modules_backup/index.js",
			patterns:       []string{nodeModulesPattern},
			expectedIgnore: false,
		},
		{
			testName:       "trailing slash pattern",
			relativePath:   "dist/app.js",
			patterns:       []string{"dist/"},
			expectedIgnore: true,
		},
		{
			testName:       "glob pattern",
			relativePath:   "vendor/Cargo.lock",
			patterns:       []string{lockfileGlobPattern},
			expectedIgnore: true,
		},
		{
			testName:       "glob pattern misses",
			relativePath:   "src/lock.go",
			patterns:       []string{lockfileGlobPattern},
			expectedIgnore: false,
		},
		{
			testName:       "rooted pattern matches descendants",
			relativePath:   "docs/generated/api.md",
			patterns:       []string{nestedDirectoryPattern},
			expectedIgnore: true,
		},
		{
			testName:       "rooted pattern does not float",
			relativePath:   "site/docs/generated/api.md",
			patterns:       []string{nestedDirectoryPattern},
			expectedIgnore: false,
		},
		{
			testName:       "backslash pattern normalized",
			relativePath:   "docs/generated",
			patterns:       []string{`docs\generated\`},
			expectedIgnore: true,
		},
		{
			testName:       "blank pattern ignored",
			relativePath:   "main.go",
			patterns:       []string{"", "  "},
			expectedIgnore: false,
		},
		{
			testName:       "empty path never ignored",
			relativePath:   "",
			patterns:       []string{"*"},
			expectedIgnore: false,
		},
	}
	for index, testCase := range testCases {
		actual := utils.ShouldIgnoreByPath(testCase.relativePath, testCase.patterns)
		if actual != testCase.expectedIgnore {
			testingInstance.Errorf("case %d (%s): expected %t, got %t", index, testCase.testName, testCase.expectedIgnore, actual)
		}
	}
}
