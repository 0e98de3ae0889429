package analyzer

import (
	"context"
	"log/slog"
	"time"
)

// Submit sends the current submission for analysis and drives the UI state:
//
//  1. Loading is shown and both result regions are hidden before the request starts.
//  2. The submission is snapshotted once.
//  3. One request is made to the analysis service.
//  4. A report is rendered by the Presenter and the phase becomes PhaseSuccess, or
//  5. the phase becomes PhaseError with UserMessage of the failure.
//  6. Loading is cleared last, exactly once, on every path.
//
// The returned state is the final one. The error is informational; the state already
// reflects it. While another submission is in flight Submit returns ErrSubmitInProgress
// without changing anything.
func (s *Session) Submit(ctx context.Context) (final UIState, err error) {
	s.mu.Lock()
	if s.inFlight {
		current := s.state
		s.mu.Unlock()
		s.logger.Debug("Submit rejected, a submission is already in flight")
		return current, ErrSubmitInProgress
	}
	s.inFlight = true
	s.inputFailed = false
	s.state = UIState{Phase: PhaseLoading, Loading: true}
	loading := s.state
	snapshot := s.submission.clone()
	s.mu.Unlock()

	s.notifyState(loading)

	started := time.Now()
	defer func() {
		s.mu.Lock()
		s.state.Loading = false
		s.inFlight = false
		final = s.state
		s.mu.Unlock()

		s.logger.Debug("Submission finished",
			slog.String("phase", string(final.Phase)),
			slog.Duration("duration", time.Since(started)),
		)
		s.notifyState(final)
	}()

	report, err := s.client.Analyze(ctx, snapshot)
	if err != nil {
		s.setTerminal(UIState{Phase: PhaseError, Loading: true, Message: UserMessage(err)})
		s.logger.Info("Analysis failed", slog.Any("error", err))
		return UIState{}, err
	}

	rendered, err := s.presenter.Render(report, snapshot.Language)
	if err != nil {
		s.setTerminal(UIState{Phase: PhaseError, Loading: true, Message: UserMessage(err)})
		s.logger.Warn("Report could not be rendered", slog.Any("error", err))
		return UIState{}, err
	}

	s.setTerminal(UIState{Phase: PhaseSuccess, Loading: true, Report: rendered})
	return UIState{}, nil
}

func (s *Session) setTerminal(state UIState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}
