package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/ctxcopy/internal/config"
	"github.com/temirov/ctxcopy/internal/metrics"
	"github.com/temirov/ctxcopy/internal/preferences"
	"github.com/temirov/ctxcopy/internal/services/clipboard"
	"github.com/temirov/ctxcopy/internal/session"
	"github.com/temirov/ctxcopy/internal/source"
	"github.com/temirov/ctxcopy/internal/status"
	"github.com/temirov/ctxcopy/internal/tokenizer"
	"github.com/temirov/ctxcopy/internal/types"
)

// loadFlags hold the flags shared by every command that loads a folder.
type loadFlags struct {
	configPath  string
	exclusions  []string
	ignoreFile  string
	interactive bool
	tokens      bool
	model       string
	metricsFile string
}

func (flags *loadFlags) register(command *cobra.Command) {
	flagSet := command.Flags()
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	flagSet.StringArrayVarP(&flags.exclusions, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	flagSet.StringVar(&flags.ignoreFile, ignoreFileFlagName, "", ignoreFileFlagDescription)
	registerBooleanFlagP(flagSet, &flags.interactive, interactiveFlagName, interactiveFlagShort, false, interactiveFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, "", modelFlagDescription)
	flagSet.StringVar(&flags.metricsFile, metricsFileFlagName, "", metricsFileFlagDescription)
}

// workspace bundles the resolved settings and the session built from them
// for one command invocation.
type workspace struct {
	settings    config.Settings
	preferences *preferences.Preferences
	controller  *session.Controller
	metrics     *metrics.Recorder
	tokenModel  string
}

func loadSettings(environment Environment, configPath string) (config.Settings, error) {
	applicationConfiguration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: environment.WorkingDirectory,
		ExplicitFilePath: configPath,
	})
	if err != nil {
		return config.Settings{}, err
	}
	return applicationConfiguration.Resolve()
}

func openPreferences(settings config.Settings) (*preferences.Preferences, error) {
	preferencesPath := settings.PreferencesPath
	if preferencesPath == "" {
		resolvedPath, err := preferences.DefaultFilePath()
		if err != nil {
			return nil, err
		}
		preferencesPath = resolvedPath
	}
	store, err := preferences.OpenFileStore(preferencesPath)
	if err != nil {
		return nil, err
	}
	return preferences.New(store), nil
}

func openWorkspace(environment Environment, flags loadFlags, sink clipboard.Sink) (*workspace, error) {
	settings, err := loadSettings(environment, flags.configPath)
	if err != nil {
		return nil, err
	}
	storedPreferences, err := openPreferences(settings)
	if err != nil {
		return nil, err
	}

	extraPatterns := append([]string(nil), flags.exclusions...)
	if flags.ignoreFile != "" {
		filePatterns, loadErr := config.LoadIgnoreFilePatterns(flags.ignoreFile)
		if loadErr != nil {
			return nil, loadErr
		}
		extraPatterns = config.CombineIgnorePatterns(extraPatterns, filePatterns)
	}

	var counter tokenizer.Counter
	tokenModel := ""
	if flags.tokens || settings.TokensEnabled {
		model := flags.model
		if model == "" {
			model = settings.TokenModel
		}
		counter, tokenModel, err = tokenizer.NewCounter(tokenizer.Config{Model: model})
		if err != nil {
			return nil, err
		}
	}

	recorder := metrics.NewRecorder()
	publisher := status.NewPublisher(settings.StatusClearDelay)
	publisher.Subscribe(logStatus(environment.Logger))

	controller := session.New(session.Options{
		Sink: sink,
		Ignore: session.PreferenceIgnore{
			Preferences: storedPreferences,
			Defaults:    settings.Ignore,
			Extra:       extraPatterns,
		},
		Classifier:        settings.ClassifierOptions(),
		DefaultCategories: settings.DefaultSelectedCategories,
		Publisher:         publisher,
		Metrics:           recorder,
		Counter:           counter,
		Logger:            environment.Logger,
	})
	return &workspace{
		settings:    settings,
		preferences: storedPreferences,
		controller:  controller,
		metrics:     recorder,
		tokenModel:  tokenModel,
	}, nil
}

func logStatus(logger *zap.Logger) func(types.Status) {
	return func(current types.Status) {
		if current.IsEmpty() {
			return
		}
		switch current.Severity {
		case types.SeverityError:
			logger.Error(current.Message)
		case types.SeverityWarning:
			logger.Warn(current.Message)
		default:
			logger.Info(current.Message)
		}
	}
}

func (workspace *workspace) picker(environment Environment, flags loadFlags, path string) source.Picker {
	if flags.interactive {
		return source.PromptPicker{
			Default: path,
			Stdin:   environment.Stdin,
			Stdout:  nopWriteCloser{Writer: environment.Stderr},
		}
	}
	return source.PathPicker{Path: path}
}

func (workspace *workspace) load(ctx context.Context, environment Environment, flags loadFlags, path string) (session.LoadReport, error) {
	return workspace.controller.SelectRoot(ctx, workspace.picker(environment, flags, path))
}

func (workspace *workspace) close() {
	workspace.controller.Close()
}

// selectionFlags pick files after a load.
type selectionFlags struct {
	all         bool
	extensions  []string
	directories []string
	files       []string
	patterns    []string
	categories  []string
	preset      string
	search      string
}

const (
	allFlagName       = "all"
	extFlagName       = "ext"
	dirFlagName       = "dir"
	fileFlagName      = "file"
	patternFlagName   = "pattern"
	categoryFlagName  = "category"
	presetFlagName    = "preset"
	searchFlagName    = "search"
	allFlagUsage      = "select every selectable file"
	extFlagUsage      = "select files with this extension"
	dirFlagUsage      = "select files under this directory"
	fileFlagUsage     = "select this file"
	patternFlagUsage  = "select files matching this glob"
	categoryFlagUsage = "select files in this category (preferred, code, binary, other)"
	presetFlagUsage   = "apply a quick-select preset (nextjs, config, source)"
	searchFlagUsage   = "select files matching this fuzzy search"
)

func (flags *selectionFlags) register(command *cobra.Command) {
	flagSet := command.Flags()
	registerBooleanFlag(flagSet, &flags.all, allFlagName, false, allFlagUsage)
	flagSet.StringArrayVar(&flags.extensions, extFlagName, nil, extFlagUsage)
	flagSet.StringArrayVar(&flags.directories, dirFlagName, nil, dirFlagUsage)
	flagSet.StringArrayVar(&flags.files, fileFlagName, nil, fileFlagUsage)
	flagSet.StringArrayVar(&flags.patterns, patternFlagName, nil, patternFlagUsage)
	flagSet.StringArrayVar(&flags.categories, categoryFlagName, nil, categoryFlagUsage)
	flagSet.StringVar(&flags.preset, presetFlagName, "", presetFlagUsage)
	flagSet.StringVar(&flags.search, searchFlagName, "", searchFlagUsage)
}

func (flags selectionFlags) isEmpty() bool {
	return !flags.all &&
		len(flags.extensions) == 0 &&
		len(flags.directories) == 0 &&
		len(flags.files) == 0 &&
		len(flags.patterns) == 0 &&
		len(flags.categories) == 0 &&
		flags.preset == "" &&
		flags.search == ""
}

// apply adds the flagged files to the selection. Without any selection flag
// and without configured default categories every selectable file is selected.
func (flags selectionFlags) apply(controller *session.Controller) error {
	if flags.isEmpty() {
		if controller.SelectedCount() == 0 {
			controller.SelectAll()
		}
		return nil
	}
	if flags.all {
		controller.SelectAll()
	}
	if len(flags.categories) > 0 {
		categories, err := config.ParseCategories(flags.categories)
		if err != nil {
			return err
		}
		controller.SelectCategories(categories...)
	}
	if len(flags.extensions) > 0 {
		controller.SelectExtensions(flags.extensions...)
	}
	if len(flags.directories) > 0 {
		controller.SelectDirectories(flags.directories...)
	}
	if len(flags.files) > 0 {
		controller.SelectPaths(flags.files)
	}
	if len(flags.patterns) > 0 {
		controller.SelectMatching(flags.patterns)
	}
	if flags.preset != "" {
		if _, err := controller.ApplyPreset(flags.preset); err != nil {
			return err
		}
	}
	if flags.search != "" {
		matches := controller.Search(flags.search)
		paths := make([]string, 0, len(matches))
		for _, record := range matches {
			paths = append(paths, record.Path)
		}
		controller.SelectPaths(paths)
	}
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

func describeLoad(report session.LoadReport) string {
	return fmt.Sprintf("loaded %d files from %s", report.Files, report.RootName)
}
