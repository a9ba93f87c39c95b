package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		shorthand    string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{
			name:      "defaults_to_false",
			arguments: []string{},
			expected:  false,
		},
		{
			name:      "sets_true_without_value",
			arguments: []string{"--print"},
			expected:  true,
		},
		{
			name:         "sets_false_with_equals",
			defaultValue: true,
			arguments:    []string{"--print=false"},
			expected:     false,
		},
		{
			name:         "sets_false_with_no_literal",
			defaultValue: true,
			arguments:    []string{"--print", "no"},
			expected:     false,
		},
		{
			name:      "sets_true_with_on_literal",
			arguments: []string{"--print", "on"},
			expected:  true,
		},
		{
			name:      "leaves_trailing_path_argument",
			arguments: []string{"--print", "./project"},
			expected:  true,
		},
		{
			name:      "shorthand_sets_true",
			shorthand: "p",
			arguments: []string{"-p"},
			expected:  true,
		},
		{
			name:         "shorthand_accepts_literal",
			shorthand:    "p",
			defaultValue: true,
			arguments:    []string{"-p=off"},
			expected:     false,
		},
		{
			name:        "rejects_unknown_literal",
			arguments:   []string{"--print=maybe"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "ctxcopy-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlagP(command.Flags(), &flagValue, "print", testCase.shorthand, testCase.defaultValue, "write to stdout")
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArguments(t *testing.T) {
	rootCommand := NewRootCommand(Environment{})

	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "subcommand_long_flag",
			arguments: []string{"copy", "--print", "yes", "--ext", "go", "."},
			expected:  []string{"copy", "--print=yes", "--ext", "go", "."},
		},
		{
			name:      "shorthand_flag",
			arguments: []string{"browse", "-i", "no", "./project"},
			expected:  []string{"browse", "-i=no", "./project"},
		},
		{
			name:      "persistent_flag",
			arguments: []string{"--verbose", "off", "list"},
			expected:  []string{"--verbose=off", "list"},
		},
		{
			name:      "path_after_flag_stays_positional",
			arguments: []string{"copy", "-i", "./project"},
			expected:  []string{"copy", "-i", "./project"},
		},
		{
			name:      "string_shorthand_untouched",
			arguments: []string{"copy", "-e", "yes"},
			expected:  []string{"copy", "-e", "yes"},
		},
		{
			name:      "stops_at_terminator",
			arguments: []string{"copy", "--", "--print", "no"},
			expected:  []string{"copy", "--", "--print", "no"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			normalized := normalizeBooleanFlagArguments(rootCommand, testCase.arguments)
			if strings.Join(normalized, " ") != strings.Join(testCase.expected, " ") {
				t.Fatalf("expected %v, got %v", testCase.expected, normalized)
			}
		})
	}
}
