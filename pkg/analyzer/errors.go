// --- START OF FINAL REVISED FILE pkg/analyzer/errors.go ---
package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
)

// --- Exported Error Variables ---
// Library users can check against these using errors.Is.

var (
	// ErrReadFailed indicates that a file selected for upload could not be read.
	ErrReadFailed = errors.New("failed to read file")

	// ErrBinaryFile indicates that a selected file does not contain source text.
	ErrBinaryFile = errors.New("file is not a text file")

	// ErrUnsupportedLanguage indicates a language identifier outside the enumerated set.
	ErrUnsupportedLanguage = language.ErrUnsupportedLanguage

	// ErrTransport indicates that no response was received from the analysis service.
	ErrTransport = errors.New("analysis request failed")

	// ErrServiceReported indicates that the service answered with a non-success status.
	ErrServiceReported = errors.New("analysis service reported an error")

	// ErrMalformedResponse indicates a success status whose body carried no usable report.
	ErrMalformedResponse = errors.New("analysis service returned a malformed response")

	// ErrSubmitInProgress is returned by Submit while an earlier submission is outstanding.
	ErrSubmitInProgress = errors.New("a submission is already in progress")

	// ErrExportFailed indicates that the report file could not be written.
	ErrExportFailed = errors.New("failed to export report")

	// ErrConfigValidation indicates that the provided Options failed validation checks.
	ErrConfigValidation = errors.New("invalid configuration options provided")
)

// TransportError wraps a failure that produced no HTTP response at all.
type TransportError struct {
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	if e.Err == nil {
		return ErrTransport.Error()
	}
	return fmt.Sprintf("%s: %v", ErrTransport, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrTransport) true.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// ServiceError is a response from the service that could not be turned into a report.
type ServiceError struct {
	StatusCode int
	Message    string // The body's "error" field; empty when absent
	Kind       error  // ErrServiceReported or ErrMalformedResponse
}

// Error implements error.
func (e *ServiceError) Error() string {
	kind := e.Kind
	if kind == nil {
		kind = ErrServiceReported
	}
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", kind, e.StatusCode, e.Message)
}

// Unwrap returns the error category.
func (e *ServiceError) Unwrap() error {
	if e.Kind == nil {
		return ErrServiceReported
	}
	return e.Kind
}

// UserMessage returns the text shown in the error region for a submission error.
// Service messages are shown verbatim, transport failures use the cause's description,
// and everything else gets FallbackErrorMessage. The result is never empty.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		if msg := strings.TrimSpace(serviceErr.Message); msg != "" {
			return msg
		}
		return FallbackErrorMessage
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Err != nil {
			if msg := strings.TrimSpace(transportErr.Err.Error()); msg != "" {
				return msg
			}
		}
		return FallbackErrorMessage
	}

	if errors.Is(err, ErrReadFailed) || errors.Is(err, ErrBinaryFile) {
		return err.Error()
	}

	return FallbackErrorMessage
}

// --- END OF FINAL REVISED FILE pkg/analyzer/errors.go ---
