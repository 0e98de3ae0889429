// --- START OF FINAL REVISED FILE pkg/analyzer/constants.go ---
package analyzer

import "github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/highlight"

// Constants defining default values for configuration options.
// These are used when setting up Viper defaults in the configuration loading process.
const (
	// DefaultEndpoint is the base URL of the analysis service.
	DefaultEndpoint = "http://127.0.0.1:5000"
	// DefaultExportDir is where exported reports are written.
	DefaultExportDir = "."
	// DefaultHighlightStyle is the chroma style for terminal highlighting.
	DefaultHighlightStyle = highlight.DefaultStyle
	// DefaultColor enables ANSI highlighting.
	DefaultColor = true
	// DefaultTuiEnabled is the default state for the Terminal UI.
	DefaultTuiEnabled = true
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
	// DefaultOutputFormat is the default format for non-interactive output.
	DefaultOutputFormat = OutputFormatText
	// DefaultMaxResponseMB bounds how much of a response body is read.
	DefaultMaxResponseMB = 16
	// DefaultDetectLanguage enables content sniffing for piped input.
	DefaultDetectLanguage = false
)

// Protocol and artifact constants.
const (
	// AnalyzePath is the endpoint path submissions are posted to.
	AnalyzePath = "/analyze"
	// FieldCode, FieldLanguage and FieldFile are the multipart field names.
	FieldCode     = "code"
	FieldLanguage = "language"
	FieldFile     = "file"
	// ReportFileName is the fixed name of the exported report.
	ReportFileName = "code-review-report.txt"
	// FallbackErrorMessage is shown when a failure carries no usable message.
	FallbackErrorMessage = "An error occurred while analyzing the code."
	// MaxFileBytes is the largest file LoadFile accepts (matches the service upload limit).
	MaxFileBytes = 16 * 1024 * 1024
)

// --- END OF FINAL REVISED FILE pkg/analyzer/constants.go ---
