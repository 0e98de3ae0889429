// --- START OF FINAL REVISED FILE cmd/code-analyzer/root.go ---
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/internal/cli"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/internal/cli/config"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
	"github.com/spf13/cobra"
)

var (
	// These are set during build time using -ldflags
	version = "dev"     // Default version
	commit  = "none"    // Default commit hash
	date    = "unknown" // Default build date
)

// newRootCmd builds the base command. Each call returns an independent command, so tests
// can execute it with their own flags and streams.
func newRootCmd() *cobra.Command {
	var (
		cfgFile     string // Path to config file
		profileName string // Name of profile to use
		verbose     bool   // Verbose logging flag
	)

	cmd := &cobra.Command{
		Use:   "code-analyzer [-f <file> | -c <code>]",
		Short: "Sends source code to an analysis service and shows the review.",
		Long: `code-analyzer submits source code, optionally with the file it came from,
to an AI code analysis service and presents the returned review.

It features:
  - An interactive Terminal UI with a code editor and syntax highlighting.
  - Language selection from file extensions or content detection.
  - Plain text, JSON, YAML and TOML output for scripts.
  - Export of the review to ` + analyzer.ReportFileName + `.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error { // minimal comment
			// Create a context that listens for interrupt signals
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts, logger, err := config.LoadAndValidate(cfgFile, profileName, version, verbose, cmd.Flags())
			if err != nil {
				return err
			}

			streams := cli.NewStreams(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return cli.Run(ctx, opts, logger, streams)
		},
	}
	cmd.SetVersionTemplate(`{{.Name}} version {{.Version}}` + "\n")

	// Persistent flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search standard locations like ., $HOME/.config/code-analyzer/)")
	cmd.PersistentFlags().StringVar(&profileName, "profile", "", "Name of configuration profile to use")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output (disables TUI)")

	// --- Local Flags for the root command ---
	// Note: Flag names must align with the keys handled in internal/cli/config/config.go.

	// Service
	cmd.Flags().StringP("endpoint", "e", analyzer.DefaultEndpoint, "Base URL of the analysis service")

	// Input
	cmd.Flags().StringP("language", "l", string(language.Default), fmt.Sprintf("Initial language (%s)", languageList()))
	cmd.Flags().StringP("file", "f", "", "Source file to upload; its extension selects the language")
	cmd.Flags().StringP("code", "c", "", "Code text to analyze (replaces the text of --file)")
	cmd.Flags().Bool("detect", analyzer.DefaultDetectLanguage, "Detect the language of code piped on standard input")

	// Output
	cmd.Flags().Bool("no-tui", false, "Disable interactive Terminal UI even if in a TTY")
	cmd.Flags().String("output-format", string(analyzer.DefaultOutputFormat), `Result format without the TUI ("text", "json", "yaml", "toml")`)
	cmd.Flags().String("style", analyzer.DefaultHighlightStyle, "Syntax highlighting style")
	cmd.Flags().Bool("no-color", false, "Disable syntax highlighting")
	cmd.Flags().String("export", "", "Write the review to "+analyzer.ReportFileName+" when done; --export=DIR picks the directory (default: the configured exportDir)")
	cmd.Flags().Lookup("export").NoOptDefVal = " "

	return cmd
}

func languageList() string {
	names := make([]string, 0, len(language.Supported()))
	for _, id := range language.Supported() {
		names = append(names, id.String())
	}
	return strings.Join(names, ", ")
}

// Execute builds and runs the root command, printing any error that has not already been
// reported to the user.
func Execute() error { // minimal comment
	cmd := newRootCmd()
	err := cmd.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, cli.ErrAnalysisFailed) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

// --- END OF FINAL REVISED FILE cmd/code-analyzer/root.go ---
