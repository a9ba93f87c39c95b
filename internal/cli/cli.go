// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/ctxcopy/internal/services/clipboard"
	"github.com/temirov/ctxcopy/internal/types"
	"github.com/temirov/ctxcopy/internal/utils"
)

const (
	exclusionFlagName    = "e"
	ignoreFileFlagName   = "ignore-file"
	configFlagName       = "config"
	printFlagName        = "print"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	metricsFileFlagName  = "metrics-file"
	formatFlagName       = "format"
	interactiveFlagName  = "interactive"
	interactiveFlagShort = "i"
	verboseFlagName      = "verbose"
	globalFlagName       = "global"
	forceFlagName        = "force"
	versionTemplate      = "ctxcopy version: {{.Version}}\n"
	defaultPath          = "."
	rootUse              = "ctxcopy"
	rootShortDescription = "select project files and copy them as one prompt"
	rootLongDescription  = `ctxcopy walks a project folder, classifies every file, and copies the selected files
as a directory tree followed by their contents.
Use copy to write the selection to the clipboard, preview or list to inspect it, and browse to pick files interactively.`
	copyUse                 = "copy [path]"
	previewUse              = "preview [path]"
	listUse                 = "list [path]"
	browseUse               = "browse [path]"
	ignoreUse               = "ignore"
	ignoreListUse           = "list"
	ignoreAddUse            = "add <folder>"
	ignoreRemoveUse         = "remove <folder>"
	configUse               = "config"
	configInitUse           = "init"
	copyShortDescription    = "copy the selected files to the clipboard"
	previewShortDescription = "print the tree and contents of the selected files"
	listShortDescription    = "list every loaded file and whether it is selected"
	browseShortDescription  = "select files interactively"
	ignoreShortDescription  = "manage the ignored folder list"
	configShortDescription  = "manage configuration files"

	copyUsageExample = `  # Copy every text file under the current folder
  ctxcopy copy

  # Copy the Go and Markdown files under ./internal and print instead of copying
  ctxcopy copy --ext go --ext md --dir internal --print .`
	listUsageExample = `  # List files matching a fuzzy search as JSON
  ctxcopy list --search handler --format json`

	exclusionFlagDescription   = "exclude path pattern"
	ignoreFileFlagDescription  = "read additional ignore patterns from a file"
	configFlagDescription      = "configuration file to use instead of ./" + utils.ConfigFileName
	printFlagDescription       = "write the selection to stdout instead of the clipboard"
	tokensFlagDescription      = "count tokens of the copied text"
	modelFlagDescription       = "tokenizer model to use for token counting"
	metricsFileFlagDescription = "write Prometheus metrics to this file when done"
	formatFlagDescription      = "list output format (text or json)"
	interactiveFlagDescription = "prompt for the folder to load"
	verboseFlagDescription     = "log debug details to stderr"
	globalFlagDescription      = "write the global configuration file"
	forceFlagDescription       = "overwrite an existing configuration file"

	clipboardUnavailableMessage = "clipboard is not available on this system; use --print"
	createdConfigurationFormat  = "created %s\n"
)

// Environment carries the process dependencies commands need. Zero values
// fall back to the process defaults.
type Environment struct {
	Stdin            io.ReadCloser
	Stdout           io.Writer
	Stderr           io.Writer
	Logger           *zap.Logger
	Clipboard        clipboard.Sink
	WorkingDirectory string
}

func (environment Environment) withDefaults() Environment {
	if environment.Stdin == nil {
		environment.Stdin = os.Stdin
	}
	if environment.Stdout == nil {
		environment.Stdout = os.Stdout
	}
	if environment.Stderr == nil {
		environment.Stderr = os.Stderr
	}
	if environment.Logger == nil {
		environment.Logger = zap.NewNop()
	}
	return environment
}

// Execute runs the ctxcopy application.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootCommand := NewRootCommand(Environment{Logger: logger})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(environment Environment) *cobra.Command {
	shared := environment.withDefaults()
	var verbose bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Version:       utils.GetApplicationVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if !verbose {
				return nil
			}
			debugLogger, err := utils.NewLeveledLogger(zapcore.DebugLevel)
			if err != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, err)
			}
			shared.Logger = debugLogger
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.SetIn(shared.Stdin)
	rootCommand.SetOut(shared.Stdout)
	rootCommand.SetErr(shared.Stderr)
	registerBooleanFlag(rootCommand.PersistentFlags(), &verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.AddCommand(
		createSelectionCommand(&shared, types.CommandCopy),
		createSelectionCommand(&shared, types.CommandPreview),
		createSelectionCommand(&shared, types.CommandList),
		createBrowseCommand(&shared),
		createIgnoreCommand(&shared),
		createConfigCommand(&shared),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func commandContext(command *cobra.Command) context.Context {
	if ctx := command.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func pathArgument(arguments []string) string {
	if len(arguments) == 0 {
		return defaultPath
	}
	return arguments[0]
}

func resolveClipboard(environment Environment, printToStdout bool) (clipboard.Sink, error) {
	if printToStdout {
		return clipboard.WriterSink{Writer: environment.Stdout}, nil
	}
	if environment.Clipboard != nil {
		return environment.Clipboard, nil
	}
	service := clipboard.NewService()
	if !service.Available() {
		return nil, errors.New(clipboardUnavailableMessage)
	}
	return service, nil
}

func reportMetrics(workspace *workspace, metricsFilePath string) error {
	if metricsFilePath == "" {
		return nil
	}
	if err := workspace.metrics.WriteToTextfile(metricsFilePath); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", metricsFilePath, err)
	}
	return nil
}
