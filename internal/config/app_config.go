package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/ctxcopy/internal/classifier"
	"github.com/temirov/ctxcopy/internal/status"
	"github.com/temirov/ctxcopy/internal/tokenizer"
	"github.com/temirov/ctxcopy/internal/types"
	"github.com/temirov/ctxcopy/internal/utils"
)

// DefaultIgnorePatterns are excluded from every walk unless the user removes them.
var DefaultIgnorePatterns = []string{
	"node_modules",
	".git",
	"dist",
	"build",
	".next",
	"coverage",
	"package-lock.json",
	"yarn.lock",
	"pnpm-lock.yaml",
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the configuration file. Unset values stay
// zero or nil so that Merge can tell them apart from explicit overrides.
type ApplicationConfiguration struct {
	MaxFileSize               *int64             `mapstructure:"max_file_size"`
	StatusClearDelay          string             `mapstructure:"status_clear_delay"`
	SelectionMode             string             `mapstructure:"selection_mode"`
	ExtraExtensions           []string           `mapstructure:"extra_extensions"`
	DefaultSelectedCategories []string           `mapstructure:"default_selected_categories"`
	Ignore                    []string           `mapstructure:"ignore"`
	PreferencesPath           string             `mapstructure:"preferences_path"`
	Tokens                    TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// Settings is the fully resolved configuration consumed by the session and the CLI.
type Settings struct {
	MaxFileSize               int64
	StatusClearDelay          time.Duration
	SelectionMode             classifier.Mode
	ExtraExtensions           []string
	DefaultSelectedCategories []types.Category
	Ignore                    []string
	PreferencesPath           string
	TokensEnabled             bool
	TokenModel                string
}

// ClassifierOptions converts the settings into classifier options.
func (settings Settings) ClassifierOptions() classifier.Options {
	return classifier.Options{
		Mode:            settings.SelectionMode,
		MaxFileSize:     settings.MaxFileSize,
		ExtraExtensions: append([]string(nil), settings.ExtraExtensions...),
	}
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Ignore = utils.NormalizeIgnorePatterns(merged.Ignore)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.MaxFileSize != nil {
		result.MaxFileSize = cloneInt64(override.MaxFileSize)
	}
	if override.StatusClearDelay != "" {
		result.StatusClearDelay = override.StatusClearDelay
	}
	if override.SelectionMode != "" {
		result.SelectionMode = override.SelectionMode
	}
	if len(override.ExtraExtensions) > 0 {
		result.ExtraExtensions = append([]string{}, override.ExtraExtensions...)
	}
	if len(override.DefaultSelectedCategories) > 0 {
		result.DefaultSelectedCategories = append([]string{}, override.DefaultSelectedCategories...)
	}
	if len(override.Ignore) > 0 {
		result.Ignore = append([]string{}, utils.DeduplicatePatterns(override.Ignore)...)
	}
	if override.PreferencesPath != "" {
		result.PreferencesPath = override.PreferencesPath
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// Resolve applies defaults and validates every value.
func (config ApplicationConfiguration) Resolve() (Settings, error) {
	settings := Settings{
		MaxFileSize:      classifier.DefaultMaxFileSize,
		StatusClearDelay: status.DefaultClearDelay,
		SelectionMode:    classifier.ModeSniff,
		Ignore:           append([]string{}, DefaultIgnorePatterns...),
		TokenModel:       tokenizer.DefaultModel,
	}

	if config.MaxFileSize != nil {
		if *config.MaxFileSize < 0 {
			return Settings{}, fmt.Errorf("max_file_size must not be negative, got %d", *config.MaxFileSize)
		}
		settings.MaxFileSize = *config.MaxFileSize
	}
	if config.StatusClearDelay != "" {
		delay, parseErr := time.ParseDuration(strings.TrimSpace(config.StatusClearDelay))
		if parseErr != nil {
			return Settings{}, fmt.Errorf("parse status_clear_delay %q: %w", config.StatusClearDelay, parseErr)
		}
		if delay < 0 {
			return Settings{}, fmt.Errorf("status_clear_delay must not be negative, got %s", delay)
		}
		settings.StatusClearDelay = delay
	}
	mode, modeErr := classifier.ParseMode(config.SelectionMode)
	if modeErr != nil {
		return Settings{}, modeErr
	}
	settings.SelectionMode = mode
	settings.ExtraExtensions = append([]string{}, config.ExtraExtensions...)

	categories, categoryErr := ParseCategories(config.DefaultSelectedCategories)
	if categoryErr != nil {
		return Settings{}, categoryErr
	}
	settings.DefaultSelectedCategories = categories

	if len(config.Ignore) > 0 {
		settings.Ignore = utils.NormalizeIgnorePatterns(config.Ignore)
	}
	settings.PreferencesPath = config.PreferencesPath
	if config.Tokens.Enabled != nil {
		settings.TokensEnabled = *config.Tokens.Enabled
	}
	if config.Tokens.Model != "" {
		settings.TokenModel = config.Tokens.Model
	}
	return settings, nil
}

// ParseCategories converts category names into types.Category values.
func ParseCategories(values []string) ([]types.Category, error) {
	categories := make([]types.Category, 0, len(values))
	for _, value := range values {
		normalized := types.Category(strings.ToLower(strings.TrimSpace(value)))
		if normalized == "" {
			continue
		}
		if !isKnownCategory(normalized) {
			return nil, fmt.Errorf("unknown category %q", value)
		}
		categories = append(categories, normalized)
	}
	return categories, nil
}

func isKnownCategory(category types.Category) bool {
	for _, known := range types.Categories {
		if known == category {
			return true
		}
	}
	return false
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
