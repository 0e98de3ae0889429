// --- START OF FINAL REVISED FILE internal/cli/hooks/hooks.go ---
package hooks

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer"
	tea "github.com/charmbracelet/bubbletea"
)

// spinnerInterval is how often the progress spinner advances while a request is in flight.
const spinnerInterval = 100 * time.Millisecond

// --- TUI Message Structs ---

// StateChangedMsg carries a new UI state from the session to the TUI.
type StateChangedMsg struct{ State analyzer.UIState }

// InputChangedMsg carries the updated submission after an input operation.
type InputChangedMsg struct{ Submission analyzer.CodeSubmission }

// --- Hook Implementation ---

// CLIHooks implements the analyzer.Hooks interface, bridging session events
// to the CLI's UI layer (TUI, Logger, Progress Bar).
type CLIHooks struct {
	logger         *slog.Logger
	tuiEnabled     bool
	verboseEnabled bool
	tuiProgram     TUIProgram
	progressBar    ProgressBar
	progressOut    io.Writer

	mu          sync.Mutex // Protects progressBar and stopSpinner
	stopSpinner chan struct{}
	spinnerDone chan struct{}
}

// TUIProgram defines the interface needed to interact with the Bubble Tea program.
type TUIProgram interface {
	Send(msg tea.Msg)
}

// ProgressBar defines the interface needed to interact with the progress bar.
type ProgressBar interface {
	Add(num int) error
	Describe(description string)
	Close() error
}

// --- No-Op Implementations for Decoupling ---

// NoOpTUIProgram provides a default null implementation.
type NoOpTUIProgram struct{}

// Send implements TUIProgram.
func (n *NoOpTUIProgram) Send(msg tea.Msg) {}

// --- Constructor ---

// NewCLIHooks creates a new CLIHooks instance.
// Pass nil for tuiProgram or progressBar if not applicable. progressOut is the stream the
// progress bar draws on; nil means os.Stderr.
func NewCLIHooks(logger *slog.Logger, tuiEnabled, verboseEnabled bool, tuiProg TUIProgram, progBar ProgressBar, progressOut io.Writer) *CLIHooks {
	if tuiProg == nil {
		tuiProg = &NoOpTUIProgram{}
	}
	if progressOut == nil {
		progressOut = os.Stderr
	}
	return &CLIHooks{
		logger:         logger,
		tuiEnabled:     tuiEnabled,
		verboseEnabled: verboseEnabled,
		tuiProgram:     tuiProg,
		progressBar:    progBar,
		progressOut:    progressOut,
	}
}

// SetTUIProgram attaches the program once it exists. The program is created after the
// session, which needs the hooks first.
func (h *CLIHooks) SetTUIProgram(p TUIProgram) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p == nil {
		p = &NoOpTUIProgram{}
	}
	h.tuiProgram = p
}

func (h *CLIHooks) program() TUIProgram {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tuiProgram
}

// --- Interface Method Implementations ---

// OnInputChange forwards the new submission to the TUI or logs it in verbose mode.
func (h *CLIHooks) OnInputChange(submission analyzer.CodeSubmission) error {
	if h.tuiEnabled {
		h.program().Send(InputChangedMsg{Submission: submission})
		return nil
	}
	if h.verboseEnabled {
		h.logger.Debug("Input changed",
			slog.String("language", submission.Language.String()),
			slog.String("file", submission.FileName()),
			slog.Int("codeBytes", len(submission.Code)),
		)
	}
	return nil
}

// OnStateChange forwards the state to the TUI, or logs it and drives the progress bar.
// This method MUST be thread-safe.
func (h *CLIHooks) OnStateChange(state analyzer.UIState) error {
	if h.tuiEnabled {
		h.program().Send(StateChangedMsg{State: state})
		return nil
	}

	if h.verboseEnabled {
		h.logState(state)
		return nil
	}

	if h.progressBar == nil {
		return nil
	}
	if state.Loading {
		h.startSpinner()
	} else {
		h.stopSpinnerAndClose()
	}
	return nil
}

func (h *CLIHooks) logState(state analyzer.UIState) {
	attrs := []any{slog.String("phase", string(state.Phase)), slog.Bool("loading", state.Loading)}
	switch {
	case state.Loading:
		h.logger.Debug("Analysis started", attrs...)
	case state.Phase == analyzer.PhaseSuccess && state.Report != nil:
		attrs = append(attrs, slog.Int("codeBlocks", len(state.Report.CodeBlocks)))
		h.logger.Info("Analysis complete", attrs...)
	case state.Phase == analyzer.PhaseError:
		attrs = append(attrs, slog.String("message", state.Message))
		h.logger.Error("Analysis failed", attrs...)
	default:
		h.logger.Debug("State changed", attrs...)
	}
}

// startSpinner describes the bar and advances it until stopSpinnerAndClose is called.
func (h *CLIHooks) startSpinner() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopSpinner != nil {
		return
	}
	h.progressBar.Describe("Analyzing code...")
	stop := make(chan struct{})
	done := make(chan struct{})
	h.stopSpinner = stop
	h.spinnerDone = done

	go func() {
		defer close(done)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				h.mu.Lock()
				_ = h.progressBar.Add(1)
				h.mu.Unlock()
			}
		}
	}()
}

// stopSpinnerAndClose finalizes the progress bar. Safe to call when no spinner runs.
func (h *CLIHooks) stopSpinnerAndClose() {
	h.mu.Lock()
	stop, done := h.stopSpinner, h.spinnerDone
	h.stopSpinner, h.spinnerDone = nil, nil
	h.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done

	h.mu.Lock()
	_ = h.progressBar.Close()
	h.mu.Unlock()
	// Keep the prompt off the spinner line.
	_, _ = fmt.Fprintln(h.progressOut)
}

// --- END OF FINAL REVISED FILE internal/cli/hooks/hooks.go ---
