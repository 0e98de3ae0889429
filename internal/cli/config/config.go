// --- START OF FINAL REVISED FILE internal/cli/config/config.go ---
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/highlight"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/net/html/charset"
)

const (
	EnvPrefix         = "CODEANALYZER"
	DefaultConfigName = "code-analyzer"
)

// flagKeys maps command-line flag names to the configuration keys they override.
var flagKeys = map[string]string{
	"endpoint":      "endpoint",
	"language":      "language",
	"output-format": "outputFormat",
	"style":         "highlightStyle",
	"detect":        "detectLanguage",
	"verbose":       "verbose",
}

// LoadAndValidate loads configuration from all sources (defaults, file, profile, env, flags),
// validates the merged configuration and sets up the logger.
// Returns the populated Options struct or an error wrapping analyzer.ErrConfigValidation
// for invalid values.
func LoadAndValidate(cfgFile, profileName, appVersion string, verbose bool, flags *pflag.FlagSet) (analyzer.Options, *slog.Logger, error) {
	var opts analyzer.Options
	v := viper.New()

	// Initialize a temporary basic logger for early loading errors
	tempLevel := slog.LevelInfo
	if verbose {
		tempLevel = slog.LevelDebug
	}
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: tempLevel}))

	setDefaults(v)

	// --- Load Config File ---
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
			v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
		} else {
			tempLogger.Debug("Home directory unavailable, searching the working directory only", slog.Any("error", err))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			configFileUsed := cfgFile
			if configFileUsed == "" {
				configFileUsed = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", configFileUsed), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error reading config file '%s': %w", configFileUsed, err)
		}
	} else {
		opts.ConfigFilePath = v.ConfigFileUsed()
		tempLogger.Debug("Using configuration file", slog.String("path", opts.ConfigFilePath))
	}

	// --- Apply Profile ---
	opts.ProfileName = profileName
	if profileName != "" {
		profileKey := "profiles." + profileName
		profileSettings := v.Sub(profileKey)
		if profileSettings == nil {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			err := fmt.Errorf("profile '%s' not found in config file '%s'", profileName, configPath)
			tempLogger.Error(err.Error())
			return opts, tempLogger, err
		}
		if err := v.MergeConfigMap(profileSettings.AllSettings()); err != nil {
			tempLogger.Error("Error merging profile", slog.String("profile", profileName), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error merging profile '%s': %w", profileName, err)
		}
		tempLogger.Debug("Applied configuration profile", slog.String("profile", profileName))
	}

	// --- Bind Environment Variables ---
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Bind Flags (Highest Priority) ---
	if flags != nil {
		for flagName, key := range flagKeys {
			flag := flags.Lookup(flagName)
			if flag == nil {
				tempLogger.Debug("Flag lookup failed during binding", slog.String("flag", flagName))
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				tempLogger.Error("Error binding flag", slog.String("flag", flagName), slog.Any("error", err))
				return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", flagName, err)
			}
		}
	}

	// --- Unmarshal Final Configuration ---
	if err := v.Unmarshal(&opts); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}
	opts.AppVersion = appVersion

	// --- Explicitly Handle Flag-Only and Negated Values ---
	if flags != nil {
		applyFlagOverrides(&opts, flags)
	}

	// --- Setup Final Logger ---
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	opts.Logger = logHandler

	if err := validateAndDeriveOptions(&opts, logger, flags); err != nil {
		return opts, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", opts.ConfigFilePath),
		slog.String("profile", opts.ProfileName),
		slog.String("endpoint", opts.Endpoint),
		slog.String("language", opts.Language),
		slog.Bool("verbose", opts.Verbose),
		slog.String("logLevel", logLevel.String()),
	)

	return opts, logger, nil
}

// setDefaults establishes the default values for configuration options in Viper.
func setDefaults(v *viper.Viper) {
	// --- Service ---
	v.SetDefault("endpoint", analyzer.DefaultEndpoint)
	v.SetDefault("maxResponseMB", analyzer.DefaultMaxResponseMB)

	// --- Input ---
	v.SetDefault("language", string(language.Default))
	v.SetDefault("defaultEncoding", "")
	v.SetDefault("detectLanguage", analyzer.DefaultDetectLanguage)

	// --- Output ---
	v.SetDefault("exportDir", analyzer.DefaultExportDir)
	v.SetDefault("highlightStyle", analyzer.DefaultHighlightStyle)
	v.SetDefault("color", analyzer.DefaultColor)
	v.SetDefault("outputFormat", string(analyzer.DefaultOutputFormat))

	// --- Behavior & Control ---
	v.SetDefault("verbose", analyzer.DefaultVerbose)
	v.SetDefault("tuiEnabled", analyzer.DefaultTuiEnabled)
}

// applyFlagOverrides copies values that only exist on the command line, and negated
// booleans that viper cannot bind directly.
func applyFlagOverrides(opts *analyzer.Options, flags *pflag.FlagSet) {
	if flags.Changed("verbose") {
		opts.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("no-color") {
		if noColor, _ := flags.GetBool("no-color"); noColor {
			opts.Color = false
		}
	}
	if flags.Changed("file") {
		opts.InputFile, _ = flags.GetString("file")
	}
	if flags.Changed("code") {
		opts.InputCode, _ = flags.GetString("code")
		opts.InputCodeSet = true
	}
	if flags.Changed("export") {
		opts.ExportOnFinish = true
		if dir, _ := flags.GetString("export"); strings.TrimSpace(dir) != "" {
			opts.ExportDir = dir
		}
	}
}

// isValidEnumValue checks if a given string value is present in a slice of allowed enum values.
func isValidEnumValue[T ~string](value T, allowedValues []T) bool {
	return slices.Contains(allowedValues, value)
}

// validateAndDeriveOptions performs semantic validation on the populated Options struct
// and calculates derived fields. It wraps errors with analyzer.ErrConfigValidation.
func validateAndDeriveOptions(opts *analyzer.Options, logger *slog.Logger, flags *pflag.FlagSet) error {
	// === Service ===
	opts.Endpoint = strings.TrimSpace(opts.Endpoint)
	if err := validateEndpoint(opts.Endpoint); err != nil {
		logger.Error(err.Error(), slog.String("key", "endpoint"), slog.String("value", opts.Endpoint))
		return err
	}
	if opts.MaxResponseMB <= 0 {
		err := fmt.Errorf("%w: invalid value '%d' for key 'maxResponseMB'. Must be > 0", analyzer.ErrConfigValidation, opts.MaxResponseMB)
		logger.Error(err.Error(), slog.String("key", "maxResponseMB"), slog.Int64("value", opts.MaxResponseMB))
		return err
	}

	// === Input ===
	lang, err := language.Parse(opts.Language)
	if err != nil {
		err = fmt.Errorf("%w: invalid value '%s' for key 'language' (flag --language). Allowed: %v: %w",
			analyzer.ErrConfigValidation, opts.Language, language.Supported(), err)
		logger.Error(err.Error(), slog.String("key", "language"), slog.String("value", opts.Language))
		return err
	}
	opts.Language = lang.String()

	if opts.DefaultEncoding != "" {
		if enc, _ := charset.Lookup(opts.DefaultEncoding); enc == nil {
			err := fmt.Errorf("%w: unknown encoding '%s' for key 'defaultEncoding'", analyzer.ErrConfigValidation, opts.DefaultEncoding)
			logger.Error(err.Error(), slog.String("key", "defaultEncoding"), slog.String("value", opts.DefaultEncoding))
			return err
		}
	}

	if opts.InputFile != "" {
		absFile, absErr := filepath.Abs(opts.InputFile)
		if absErr != nil {
			err := fmt.Errorf("%w: cannot resolve absolute path for '%s': %w", analyzer.ErrConfigValidation, opts.InputFile, absErr)
			logger.Error(err.Error(), slog.String("key", "file"), slog.String("value", opts.InputFile))
			return err
		}
		opts.InputFile = absFile
	}

	// === Output ===
	opts.OutputFormat = analyzer.OutputFormat(strings.ToLower(string(opts.OutputFormat)))
	if !isValidEnumValue(opts.OutputFormat, analyzer.OutputFormats) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'outputFormat' (flag --output-format). Allowed: %v", analyzer.ErrConfigValidation, opts.OutputFormat, analyzer.OutputFormats)
		logger.Error(err.Error(), slog.String("key", "outputFormat"), slog.String("value", string(opts.OutputFormat)))
		return err
	}
	if opts.HighlightStyle == "" {
		opts.HighlightStyle = analyzer.DefaultHighlightStyle
	}
	if !highlight.ValidStyle(opts.HighlightStyle) {
		err := fmt.Errorf("%w: unknown highlight style '%s' for key 'highlightStyle' (flag --style)", analyzer.ErrConfigValidation, opts.HighlightStyle)
		logger.Error(err.Error(), slog.String("key", "highlightStyle"), slog.String("value", opts.HighlightStyle))
		return err
	}
	if strings.TrimSpace(opts.ExportDir) == "" {
		opts.ExportDir = analyzer.DefaultExportDir
	}
	absExport, err := filepath.Abs(opts.ExportDir)
	if err != nil {
		err = fmt.Errorf("%w: cannot resolve absolute export directory '%s': %w", analyzer.ErrConfigValidation, opts.ExportDir, err)
		logger.Error(err.Error(), slog.String("key", "exportDir"), slog.String("value", opts.ExportDir))
		return err
	}
	opts.ExportDir = absExport

	// Verbose logging and the TUI both own the terminal; verbose wins.
	if opts.Verbose {
		if opts.TuiEnabled {
			logger.Debug("Verbose mode enabled, TUI explicitly disabled")
		}
		opts.TuiEnabled = false
	} else if flags != nil && flags.Changed("no-tui") {
		if noTui, _ := flags.GetBool("no-tui"); noTui && opts.TuiEnabled {
			logger.Debug("TUI explicitly disabled via --no-tui flag")
			opts.TuiEnabled = false
		}
	}

	logger.Debug("Final derived settings validated",
		slog.String("exportDir", opts.ExportDir),
		slog.String("outputFormat", string(opts.OutputFormat)),
		slog.String("highlightStyle", opts.HighlightStyle),
		slog.Bool("color", opts.Color),
		slog.Bool("tuiEnabledEffective", opts.TuiEnabled),
	)
	return nil
}

// validateEndpoint checks that endpoint is an absolute http(s) URL.
func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: endpoint is required (-e, --endpoint)", analyzer.ErrConfigValidation)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: invalid endpoint '%s': %w", analyzer.ErrConfigValidation, endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: invalid endpoint '%s': scheme must be http or https", analyzer.ErrConfigValidation, endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: invalid endpoint '%s': missing host", analyzer.ErrConfigValidation, endpoint)
	}
	return nil
}

// --- END OF FINAL REVISED FILE internal/cli/config/config.go ---
