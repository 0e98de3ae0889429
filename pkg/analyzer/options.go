// --- START OF FINAL REVISED FILE pkg/analyzer/options.go ---
package analyzer

import (
	"log/slog"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/encoding"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/highlight"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
	"github.com/spf13/afero"
)

// Hooks receives notifications from a Session.
// Implementations MUST be thread-safe: submissions and file loads run on their own goroutines.
// Hooks are never called with Session locks held, so they may call back into the Session.
type Hooks interface {
	OnInputChange(submission CodeSubmission) error
	OnStateChange(state UIState) error
}

// NoOpHooks provides a default, do-nothing implementation of the Hooks interface.
type NoOpHooks struct{}

// OnInputChange implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnInputChange(submission CodeSubmission) error { return nil }

// OnStateChange implements the Hooks interface. It performs no action.
func (h *NoOpHooks) OnStateChange(state UIState) error { return nil }

// Options holds all configuration for a Session.
type Options struct {
	// --- Service ---
	Endpoint      string `mapstructure:"endpoint"`      // Base URL; submissions go to Endpoint + AnalyzePath
	MaxResponseMB int64  `mapstructure:"maxResponseMB"` // Response body read limit

	// --- Application Info ---
	AppVersion     string `mapstructure:"-"`
	ConfigFilePath string `mapstructure:"-"`
	ProfileName    string `mapstructure:"-"`

	// --- Input ---
	Language        string `mapstructure:"language"`        // Initial language selection
	DefaultEncoding string `mapstructure:"defaultEncoding"` // Fallback for uploaded files in unknown encodings
	DetectLanguage  bool   `mapstructure:"detectLanguage"`  // Sniff piped input without a file name
	InputFile       string `mapstructure:"-"`               // --file
	InputCode       string `mapstructure:"-"`               // --code
	InputCodeSet    bool   `mapstructure:"-"`               // --code was given (even if empty)

	// --- Output ---
	ExportDir      string       `mapstructure:"exportDir"`
	ExportOnFinish bool         `mapstructure:"-"` // --export given on the command line
	HighlightStyle string       `mapstructure:"highlightStyle"`
	Color          bool         `mapstructure:"color"`
	OutputFormat   OutputFormat `mapstructure:"outputFormat"`

	// --- Behavior & Control ---
	Verbose    bool `mapstructure:"verbose"`
	TuiEnabled bool `mapstructure:"tuiEnabled"`

	// --- Injected Dependencies ---
	EventHooks      Hooks                 `mapstructure:"-"` // Optional: defaults to NoOpHooks
	Logger          slog.Handler          `mapstructure:"-"` // Optional: defaults to a discarding handler
	Client          AnalysisClient        `mapstructure:"-"` // Optional: defaults to an HTTPClient for Endpoint
	Highlighter     highlight.Highlighter `mapstructure:"-"` // Optional: chroma when Color, Plain otherwise
	EncodingHandler encoding.Handler      `mapstructure:"-"` // Optional: charset-based handler
	Detector        language.Detector     `mapstructure:"-"` // Optional: go-enry detector
	Fs              afero.Fs              `mapstructure:"-"` // Optional: OS filesystem
	Clipboard       Clipboard             `mapstructure:"-"` // Optional: system clipboard
}

// MaxResponseBytes converts MaxResponseMB to bytes, applying the default for non-positive values.
func (o Options) MaxResponseBytes() int64 {
	mb := o.MaxResponseMB
	if mb <= 0 {
		mb = DefaultMaxResponseMB
	}
	return mb * 1024 * 1024
}

// --- END OF FINAL REVISED FILE pkg/analyzer/options.go ---
