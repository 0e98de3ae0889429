// --- START OF FINAL REVISED FILE pkg/analyzer/types.go ---
package analyzer

import (
	"time"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
)

// Phase is the visible stage of the submission flow. Exactly one phase is active.
type Phase string

// Constants representing the submission phases.
const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// OutputFormat defines how a non-interactive run prints its result to standard output.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatTOML OutputFormat = "toml"
)

// OutputFormats lists the accepted output formats.
var OutputFormats = []OutputFormat{OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatTOML}

// File is an uploaded source file, sent as an attachment alongside the code text.
type File struct {
	Name    string
	Content []byte
}

// CodeSubmission is the bundle sent for analysis.
// Language is always one of the enumerated identifiers.
type CodeSubmission struct {
	Code     string
	Language language.ID
	File     *File
}

// clone returns a deep copy so a snapshot cannot observe later edits.
func (s CodeSubmission) clone() CodeSubmission {
	out := s
	if s.File != nil {
		content := make([]byte, len(s.File.Content))
		copy(content, s.File.Content)
		out.File = &File{Name: s.File.Name, Content: content}
	}
	return out
}

// FileName returns the uploaded file's name, or "" when no file is attached.
func (s CodeSubmission) FileName() string {
	if s.File == nil {
		return ""
	}
	return s.File.Name
}

// Report is the raw payload returned by the analysis service.
type Report struct {
	Analysis string `json:"analysis"`
}

// CodeBlock is a code block found in a rendered report.
type CodeBlock struct {
	Language    string // Block's own language tag, or the fallback applied to it
	Source      string
	Highlighted string
}

// RenderedReport is a report after it has been processed for display.
type RenderedReport struct {
	Markup     string      // Report markup with code-block language classes applied
	Text       string      // Plain-text rendering, used for export
	Display    string      // Plain-text rendering with highlighted code blocks
	CodeBlocks []CodeBlock // Code blocks in document order
	Language   language.ID // Fallback language used for untagged blocks
	RenderedAt time.Time
}

// UIState is the visible state of the submission flow.
//
// Loading is tracked separately from Phase because it is cleared as the very last step of
// a submission, after the terminal phase has been set. While Loading is true neither the
// results nor the error region is shown.
type UIState struct {
	Phase   Phase
	Loading bool
	Report  *RenderedReport // Set only when Phase is PhaseSuccess
	Message string          // Set only when Phase is PhaseError
}

// LoadingVisible reports whether the loading indicator is shown.
func (s UIState) LoadingVisible() bool { return s.Loading }

// ResultsVisible reports whether the results region is shown.
func (s UIState) ResultsVisible() bool { return !s.Loading && s.Phase == PhaseSuccess && s.Report != nil }

// ErrorVisible reports whether the error region is shown.
func (s UIState) ErrorVisible() bool { return !s.Loading && s.Phase == PhaseError }

// Result is the machine-readable outcome of a non-interactive run.
type Result struct {
	Phase      Phase       `json:"phase" yaml:"phase" toml:"phase"`
	Language   language.ID `json:"language" yaml:"language" toml:"language"`
	File       string      `json:"file,omitempty" yaml:"file,omitempty" toml:"file,omitempty"`
	Message    string      `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
	Report     string      `json:"report,omitempty" yaml:"report,omitempty" toml:"report,omitempty"`
	Markup     string      `json:"markup,omitempty" yaml:"markup,omitempty" toml:"markup,omitempty"`
	CodeBlocks int         `json:"codeBlocks" yaml:"codeBlocks" toml:"codeBlocks"`
}

// --- END OF FINAL REVISED FILE pkg/analyzer/types.go ---
