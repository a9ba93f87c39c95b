package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/ctxcopy/internal/session"
	"github.com/temirov/ctxcopy/internal/utils"
)

type commandResult struct {
	stdout string
	stderr string
	err    error
}

func runCommand(t *testing.T, workingDirectory string, arguments ...string) commandResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCommand := NewRootCommand(Environment{
		Stdin:            io.NopCloser(strings.NewReader("")),
		Stdout:           &stdout,
		Stderr:           &stderr,
		WorkingDirectory: workingDirectory,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	err := rootCommand.Execute()
	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// prepareProject isolates the home directory and returns a working directory
// without configuration plus a project folder containing main.go and docs/readme.md.
func prepareProject(t *testing.T) (string, string) {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)

	workingDirectory := t.TempDir()
	projectDirectory := filepath.Join(t.TempDir(), "project")
	if err := os.MkdirAll(filepath.Join(projectDirectory, "docs"), 0o755); err != nil {
		t.Fatalf("mkdir docs: %v", err)
	}
	files := map[string]string{
		"main.go":        "package main\n",
		"docs/readme.md": "# Project\n",
	}
	for relativePath, content := range files {
		if err := os.WriteFile(filepath.Join(projectDirectory, relativePath), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", relativePath, err)
		}
	}
	return workingDirectory, projectDirectory
}

func TestCopyPrintMatchesPreview(t *testing.T) {
	workingDirectory, projectDirectory := prepareProject(t)

	copied := runCommand(t, workingDirectory, "copy", "--print", projectDirectory)
	if copied.err != nil {
		t.Fatalf("copy failed: %v", copied.err)
	}
	previewed := runCommand(t, workingDirectory, "preview", projectDirectory)
	if previewed.err != nil {
		t.Fatalf("preview failed: %v", previewed.err)
	}

	if copied.stdout != previewed.stdout {
		t.Fatalf("expected copy output to equal preview\ncopy:\n%s\npreview:\n%s", copied.stdout, previewed.stdout)
	}
	for _, expected := range []string{"=== START main.go ===", "package main", "=== START docs/readme.md ===", "# Project"} {
		if !strings.Contains(copied.stdout, expected) {
			t.Fatalf("expected output to contain %q, got:\n%s", expected, copied.stdout)
		}
	}
	if !strings.Contains(copied.stderr, "Summary: 2 files") {
		t.Fatalf("expected summary on stderr, got %q", copied.stderr)
	}
}

func TestSelectionFlagsNarrowTheCopy(t *testing.T) {
	workingDirectory, projectDirectory := prepareProject(t)

	testCases := []struct {
		name        string
		arguments   []string
		contains    string
		notContains string
	}{
		{
			name:        "extension",
			arguments:   []string{"--ext", "go"},
			contains:    "=== START main.go ===",
			notContains: "readme.md",
		},
		{
			name:        "directory",
			arguments:   []string{"--dir", "docs"},
			contains:    "=== START docs/readme.md ===",
			notContains: "main.go",
		},
		{
			name:        "pattern",
			arguments:   []string{"--pattern", "*.md"},
			contains:    "=== START docs/readme.md ===",
			notContains: "main.go",
		},
		{
			name:        "file",
			arguments:   []string{"--file", "main.go"},
			contains:    "=== START main.go ===",
			notContains: "readme.md",
		},
		{
			name:        "exclusion",
			arguments:   []string{"-e", "docs"},
			contains:    "=== START main.go ===",
			notContains: "readme.md",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			arguments := append([]string{"preview"}, testCase.arguments...)
			arguments = append(arguments, projectDirectory)
			result := runCommand(t, workingDirectory, arguments...)
			if result.err != nil {
				t.Fatalf("preview failed: %v", result.err)
			}
			if !strings.Contains(result.stdout, testCase.contains) {
				t.Fatalf("expected %q in output, got:\n%s", testCase.contains, result.stdout)
			}
			if strings.Contains(result.stdout, testCase.notContains) {
				t.Fatalf("expected %q to be absent, got:\n%s", testCase.notContains, result.stdout)
			}
		})
	}
}

func TestCopyWithEmptySelectionFails(t *testing.T) {
	workingDirectory, projectDirectory := prepareProject(t)

	result := runCommand(t, workingDirectory, "copy", "--print", "--ext", "rs", projectDirectory)
	if !errors.Is(result.err, session.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", result.err)
	}
	if result.stdout != "" {
		t.Fatalf("expected nothing written, got %q", result.stdout)
	}
}

func TestCopyReportsMissingFolder(t *testing.T) {
	workingDirectory, projectDirectory := prepareProject(t)

	result := runCommand(t, workingDirectory, "copy", "--print", filepath.Join(projectDirectory, "missing"))
	if result.err == nil {
		t.Fatalf("expected error for missing folder")
	}
}

func TestListJSONMarksSelection(t *testing.T) {
	workingDirectory, projectDirectory := prepareProject(t)

	result := runCommand(t, workingDirectory, "list", "--format", "json", "--ext", "go", projectDirectory)
	if result.err != nil {
		t.Fatalf("list failed: %v", result.err)
	}
	var records []struct {
		Path     string `json:"path"`
		Selected bool   `json:"selected"`
	}
	if err := json.Unmarshal([]byte(result.stdout), &records); err != nil {
		t.Fatalf("decode list output: %v\n%s", err, result.stdout)
	}
	selected := map[string]bool{}
	for _, record := range records {
		selected[record.Path] = record.Selected
	}
	if len(selected) != 2 {
		t.Fatalf("expected 2 records, got %v", selected)
	}
	if !selected["main.go"] || selected["docs/readme.md"] {
		t.Fatalf("unexpected selection %v", selected)
	}
}

func TestIgnoreCommandsPersistAcrossLoads(t *testing.T) {
	workingDirectory, projectDirectory := prepareProject(t)

	added := runCommand(t, workingDirectory, "ignore", "add", "docs")
	if added.err != nil {
		t.Fatalf("ignore add failed: %v", added.err)
	}
	if !strings.Contains(added.stdout, "node_modules\n") || !strings.HasSuffix(added.stdout, "docs\n") {
		t.Fatalf("expected defaults followed by docs, got %q", added.stdout)
	}

	previewed := runCommand(t, workingDirectory, "preview", projectDirectory)
	if previewed.err != nil {
		t.Fatalf("preview failed: %v", previewed.err)
	}
	if strings.Contains(previewed.stdout, "readme.md") {
		t.Fatalf("expected docs to be ignored, got:\n%s", previewed.stdout)
	}

	removed := runCommand(t, workingDirectory, "ignore", "remove", "docs")
	if removed.err != nil {
		t.Fatalf("ignore remove failed: %v", removed.err)
	}
	listed := runCommand(t, workingDirectory, "ignore", "list")
	if listed.err != nil {
		t.Fatalf("ignore list failed: %v", listed.err)
	}
	if strings.Contains(listed.stdout, "docs") {
		t.Fatalf("expected docs to be removed, got %q", listed.stdout)
	}
	if _, err := os.Stat(filepath.Join(os.Getenv("HOME"), utils.GlobalConfigDirectoryName, utils.PreferencesFileName)); err != nil {
		t.Fatalf("expected preferences file: %v", err)
	}
}

func TestConfigInitCommand(t *testing.T) {
	workingDirectory, _ := prepareProject(t)

	created := runCommand(t, workingDirectory, "config", "init")
	if created.err != nil {
		t.Fatalf("config init failed: %v", created.err)
	}
	localPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	if created.stdout != "created "+localPath+"\n" {
		t.Fatalf("unexpected output %q", created.stdout)
	}

	repeated := runCommand(t, workingDirectory, "config", "init")
	if repeated.err == nil {
		t.Fatalf("expected error when configuration exists")
	}
	forced := runCommand(t, workingDirectory, "config", "init", "--force")
	if forced.err != nil {
		t.Fatalf("forced config init failed: %v", forced.err)
	}

	global := runCommand(t, workingDirectory, "config", "init", "--global")
	if global.err != nil {
		t.Fatalf("global config init failed: %v", global.err)
	}
	globalPath := filepath.Join(os.Getenv("HOME"), utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
	if _, err := os.Stat(globalPath); err != nil {
		t.Fatalf("expected global configuration at %s: %v", globalPath, err)
	}
}

func TestLocalConfigurationAppliesDefaultCategories(t *testing.T) {
	workingDirectory, projectDirectory := prepareProject(t)
	configuration := "default_selected_categories:\n  - preferred\n"
	if err := os.WriteFile(filepath.Join(workingDirectory, utils.ConfigFileName), []byte(configuration), 0o600); err != nil {
		t.Fatalf("write configuration: %v", err)
	}

	result := runCommand(t, workingDirectory, "preview", projectDirectory)
	if result.err != nil {
		t.Fatalf("preview failed: %v", result.err)
	}
	if !strings.Contains(result.stdout, "=== START docs/readme.md ===") {
		t.Fatalf("expected preferred file selected, got:\n%s", result.stdout)
	}
	if strings.Contains(result.stdout, "=== START main.go ===") {
		t.Fatalf("expected code file unselected, got:\n%s", result.stdout)
	}
}

func TestVersionFlag(t *testing.T) {
	result := runCommand(t, t.TempDir(), "--version")
	if result.err != nil {
		t.Fatalf("version failed: %v", result.err)
	}
	if !strings.HasPrefix(result.stdout, "ctxcopy version: ") {
		t.Fatalf("unexpected version output %q", result.stdout)
	}
}
