// --- START OF FINAL REVISED FILE pkg/analyzer/session.go ---
package analyzer

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/encoding"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/highlight"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
	"github.com/spf13/afero"
)

// Session is the single controller that owns the current submission and the visible
// UI state. All mutations go through its methods (input operations in input.go,
// Submit in submit.go); the Presenter owns rendered reports.
//
// Session is safe for concurrent use. Hooks are always invoked without locks held.
type Session struct {
	mu          sync.Mutex
	submission  CodeSubmission
	highlighted string
	state       UIState
	inFlight    bool
	inputFailed bool // state.Phase is PhaseError because of a failed load

	client      AnalysisClient
	highlighter highlight.Highlighter
	decoder     encoding.Handler
	fs          afero.Fs
	presenter   *Presenter
	hooks       Hooks
	logger      *slog.Logger
}

// NewSession creates a Session from opts, filling in default dependencies for nil fields.
// The initial language is opts.Language, or language.Default when empty.
func NewSession(opts Options) (*Session, error) {
	loggerHandler := opts.Logger
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	logger := slog.New(loggerHandler).With(slog.String("component", "session"))

	initial, err := language.Parse(opts.Language)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	client := opts.Client
	if client == nil {
		endpoint := opts.Endpoint
		if endpoint == "" {
			endpoint = DefaultEndpoint
		}
		httpClient, clientErr := NewHTTPClient(endpoint, nil, opts.MaxResponseBytes(), loggerHandler)
		if clientErr != nil {
			return nil, clientErr
		}
		client = httpClient
	}

	h := opts.Highlighter
	if h == nil {
		if opts.Color {
			h = highlight.NewChroma(opts.HighlightStyle, "")
		} else {
			h = highlight.Plain{}
		}
	}

	decoder := opts.EncodingHandler
	if decoder == nil {
		decoder = encoding.NewCharsetHandler(opts.DefaultEncoding)
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	hooks := opts.EventHooks
	if hooks == nil {
		hooks = &NoOpHooks{}
	}

	s := &Session{
		submission:  CodeSubmission{Language: initial},
		state:       UIState{Phase: PhaseIdle},
		client:      client,
		highlighter: h,
		decoder:     decoder,
		fs:          fs,
		presenter:   NewPresenter(h, fs, opts.Clipboard, loggerHandler),
		hooks:       hooks,
		logger:      logger,
	}
	s.rehighlightLocked()
	return s, nil
}

// Presenter returns the presenter that renders and exports this session's reports.
func (s *Session) Presenter() *Presenter { return s.presenter }

// Snapshot returns a deep copy of the current submission.
func (s *Session) Snapshot() CodeSubmission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submission.clone()
}

// State returns a copy of the visible UI state.
func (s *Session) State() UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Highlighted returns the highlighted rendering of the current code.
func (s *Session) Highlighted() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlighted
}

// Busy reports whether a submission is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Result summarizes the current state for machine-readable output.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := Result{
		Phase:    s.state.Phase,
		Language: s.submission.Language,
		File:     s.submission.FileName(),
		Message:  s.state.Message,
	}
	if s.state.Phase == PhaseSuccess && s.state.Report != nil {
		res.Report = s.state.Report.Text
		res.Markup = s.state.Report.Markup
		res.CodeBlocks = len(s.state.Report.CodeBlocks)
	}
	return res
}

// rehighlightLocked refreshes the highlighted code. MUST be called with mu held.
func (s *Session) rehighlightLocked() {
	out, err := s.highlighter.Highlight(s.submission.Code, s.submission.Language.String())
	if err != nil {
		s.logger.Warn("Highlighting failed, showing plain code",
			slog.String("language", s.submission.Language.String()),
			slog.Any("error", err))
		out = s.submission.Code
	}
	s.highlighted = out
}

func (s *Session) notifyInput(submission CodeSubmission) {
	if err := s.hooks.OnInputChange(submission); err != nil {
		s.logger.Debug("Input hook returned an error", slog.Any("error", err))
	}
}

func (s *Session) notifyState(state UIState) {
	if err := s.hooks.OnStateChange(state); err != nil {
		s.logger.Debug("State hook returned an error", slog.Any("error", err))
	}
}

// --- END OF FINAL REVISED FILE pkg/analyzer/session.go ---
