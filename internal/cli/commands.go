package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ctxcopy/internal/config"
	"github.com/temirov/ctxcopy/internal/output"
	"github.com/temirov/ctxcopy/internal/preferences"
	"github.com/temirov/ctxcopy/internal/services/clipboard"
	"github.com/temirov/ctxcopy/internal/session"
	"github.com/temirov/ctxcopy/internal/source"
	"github.com/temirov/ctxcopy/internal/tui"
	"github.com/temirov/ctxcopy/internal/types"
)

func createSelectionCommand(environment *Environment, commandName string) *cobra.Command {
	var (
		loading       loadFlags
		selecting     selectionFlags
		printToStdout bool
		listFormat    string
	)

	command := &cobra.Command{
		Args: cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			var sink clipboard.Sink
			if commandName == types.CommandCopy {
				resolved, err := resolveClipboard(*environment, printToStdout)
				if err != nil {
					return err
				}
				sink = resolved
			}
			opened, err := openWorkspace(*environment, loading, sink)
			if err != nil {
				return err
			}
			defer opened.close()

			ctx := commandContext(command)
			report, err := opened.load(ctx, *environment, loading, pathArgument(arguments))
			if err != nil {
				if errors.Is(err, source.ErrCancelled) {
					return nil
				}
				return err
			}
			environment.Logger.Debug(describeLoad(report))
			if err := selecting.apply(opened.controller); err != nil {
				return err
			}

			var actionErr error
			switch commandName {
			case types.CommandCopy:
				actionErr = runCopy(ctx, *environment, opened)
			case types.CommandPreview:
				actionErr = runPreview(ctx, *environment, opened)
			case types.CommandList:
				actionErr = runList(*environment, opened, listFormat)
			}
			return errors.Join(actionErr, reportMetrics(opened, loading.metricsFile))
		},
	}

	switch commandName {
	case types.CommandCopy:
		command.Use = copyUse
		command.Short = copyShortDescription
		command.Example = copyUsageExample
		registerBooleanFlag(command.Flags(), &printToStdout, printFlagName, false, printFlagDescription)
	case types.CommandPreview:
		command.Use = previewUse
		command.Short = previewShortDescription
	case types.CommandList:
		command.Use = listUse
		command.Short = listShortDescription
		command.Example = listUsageExample
		command.Flags().StringVar(&listFormat, formatFlagName, output.FormatText, formatFlagDescription)
	}
	loading.register(command)
	selecting.register(command)
	return command
}

func runCopy(ctx context.Context, environment Environment, opened *workspace) error {
	report, err := opened.controller.CopySelected(ctx)
	if err != nil {
		return err
	}
	summary := output.Summary{
		Files:  report.Files,
		Bytes:  int64(report.Bytes),
		Tokens: report.Tokens,
		Model:  opened.tokenModel,
	}
	_, err = fmt.Fprintln(environment.Stderr, output.FormatSummaryLine(summary))
	if err != nil {
		return err
	}
	for _, unreadablePath := range report.Unreadable {
		environment.Logger.Warn("skipped unreadable file: " + unreadablePath)
	}
	return nil
}

func runPreview(ctx context.Context, environment Environment, opened *workspace) error {
	text, err := opened.controller.Preview(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(environment.Stdout, text)
	return err
}

func runList(environment Environment, opened *workspace, format string) error {
	records := opened.controller.Files()
	listed := make([]output.ListedRecord, 0, len(records))
	for _, record := range records {
		listed = append(listed, output.ListedRecord{
			FileRecord: record,
			Selected:   opened.controller.IsSelected(record.Path),
		})
	}
	return output.WriteRecordList(environment.Stdout, listed, format)
}

func createBrowseCommand(environment *Environment) *cobra.Command {
	var (
		loading       loadFlags
		selecting     selectionFlags
		printToStdout bool
	)

	command := &cobra.Command{
		Use:   browseUse,
		Short: browseShortDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			sink, err := resolveClipboard(*environment, printToStdout)
			if err != nil {
				return err
			}
			// Statuses are rendered by the browser; logging them would draw over the screen.
			browseEnvironment := *environment
			browseEnvironment.Logger = zap.NewNop()
			opened, err := openWorkspace(browseEnvironment, loading, sink)
			if err != nil {
				return err
			}
			defer opened.close()

			ctx := commandContext(command)
			// The prompt must finish before the browser takes over the terminal.
			picker := opened.picker(*environment, loading, pathArgument(arguments))
			if loading.interactive {
				root, pickErr := picker.RequestDirectoryAccess(ctx)
				if pickErr != nil {
					if errors.Is(pickErr, source.ErrCancelled) {
						return nil
					}
					return pickErr
				}
				picker = source.PickerFunc(func(context.Context) (source.DirectoryHandle, error) {
					return root, nil
				})
			}
			load := func(loadCtx context.Context) (session.LoadReport, error) {
				report, loadErr := opened.controller.SelectRoot(loadCtx, picker)
				if loadErr != nil || selecting.isEmpty() {
					return report, loadErr
				}
				return report, selecting.apply(opened.controller)
			}

			welcome := !opened.preferences.HasSeenWelcome()
			runErr := tui.Run(ctx, opened.controller, load, welcome, tea.WithInput(environment.Stdin), tea.WithOutput(environment.Stdout))
			if welcome && runErr == nil {
				if markErr := opened.preferences.MarkWelcomeSeen(); markErr != nil {
					environment.Logger.Warn("saving preferences failed: " + markErr.Error())
				}
			}
			return errors.Join(runErr, reportMetrics(opened, loading.metricsFile))
		},
	}
	registerBooleanFlag(command.Flags(), &printToStdout, printFlagName, false, printFlagDescription)
	loading.register(command)
	selecting.register(command)
	return command
}

func createIgnoreCommand(environment *Environment) *cobra.Command {
	var configPath string

	ignoreCommand := &cobra.Command{
		Use:   ignoreUse,
		Short: ignoreShortDescription,
	}
	ignoreCommand.PersistentFlags().StringVar(&configPath, configFlagName, "", configFlagDescription)

	run := func(change func(stored *preferences.Preferences, defaults []string, arguments []string) ([]string, error)) func(*cobra.Command, []string) error {
		return func(command *cobra.Command, arguments []string) error {
			settings, err := loadSettings(*environment, configPath)
			if err != nil {
				return err
			}
			storedPreferences, err := openPreferences(settings)
			if err != nil {
				return err
			}
			folders, err := change(storedPreferences, settings.Ignore, arguments)
			if err != nil {
				return err
			}
			for _, folder := range folders {
				if _, writeErr := fmt.Fprintln(environment.Stdout, folder); writeErr != nil {
					return writeErr
				}
			}
			return nil
		}
	}

	listCommand := &cobra.Command{
		Use:   ignoreListUse,
		Short: "print the ignored folders",
		Args:  cobra.NoArgs,
		RunE: run(func(stored *preferences.Preferences, defaults []string, arguments []string) ([]string, error) {
			return stored.IgnoredFolders(defaults), nil
		}),
	}
	addCommand := &cobra.Command{
		Use:   ignoreAddUse,
		Short: "add a folder to the ignored folders",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(stored *preferences.Preferences, defaults []string, arguments []string) ([]string, error) {
			return stored.AddIgnoredFolder(defaults, arguments[0])
		}),
	}
	removeCommand := &cobra.Command{
		Use:   ignoreRemoveUse,
		Short: "remove a folder from the ignored folders",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(stored *preferences.Preferences, defaults []string, arguments []string) ([]string, error) {
			return stored.RemoveIgnoredFolder(defaults, arguments[0])
		}),
	}
	ignoreCommand.AddCommand(listCommand, addCommand, removeCommand)
	return ignoreCommand
}

func createConfigCommand(environment *Environment) *cobra.Command {
	var (
		global bool
		force  bool
	)

	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
	}
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: "write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, err := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: environment.WorkingDirectory,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(environment.Stdout, createdConfigurationFormat, destinationPath)
			return err
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}
