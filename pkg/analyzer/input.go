package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/encoding"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
	"github.com/spf13/afero"
)

// SetLanguage selects the language and re-highlights the code with it.
// An empty id selects language.Default. Unknown identifiers are rejected and leave the
// selection unchanged. Setting the current language again is a no-op apart from
// re-highlighting, which yields the same output.
func (s *Session) SetLanguage(id language.ID) error {
	if id == "" {
		id = language.Default
	}
	if !id.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, id)
	}

	s.mu.Lock()
	s.submission.Language = id
	s.rehighlightLocked()
	snapshot := s.submission.clone()
	s.mu.Unlock()

	s.notifyInput(snapshot)
	return nil
}

// SetCodeText replaces the code and re-highlights it with the current language.
// The language is never changed.
func (s *Session) SetCodeText(text string) {
	s.mu.Lock()
	s.submission.Code = text
	s.rehighlightLocked()
	snapshot := s.submission.clone()
	s.mu.Unlock()

	s.notifyInput(snapshot)
}

// ClearFile detaches the uploaded file. The code text is kept.
func (s *Session) ClearFile() {
	s.mu.Lock()
	s.submission.File = nil
	snapshot := s.submission.clone()
	s.mu.Unlock()

	s.notifyInput(snapshot)
}

// LoadFile reads path and makes it the uploaded file.
//
// On success the code becomes the file's text and the file is attached to the
// submission. If the extension is in the language table the language follows it;
// otherwise the current selection is kept.
//
// On failure the submission is left untouched, the UI moves to the error phase with a
// read-failure message (the loading indicator is not touched), and an error wrapping
// ErrReadFailed or ErrBinaryFile is returned. While a submission is in flight the state
// belongs to Submit, so a failure is only returned and logged.
//
// A successful load clears an error left by an earlier failed load. Errors and reports
// from submissions are kept.
func (s *Session) LoadFile(ctx context.Context, path string) error {
	name := filepath.Base(path)
	logArgs := []any{slog.String("path", path)}

	raw, err := s.readFile(ctx, path)
	if err != nil {
		s.failInput(err, logArgs)
		return err
	}

	text, encodingName, decodeErr := s.decoder.Decode(raw)
	if decodeErr != nil {
		if errors.Is(decodeErr, encoding.ErrBinaryContent) {
			err = fmt.Errorf("%w: '%s': %w", ErrBinaryFile, name, decodeErr)
		} else {
			err = fmt.Errorf("%w: '%s': %w", ErrReadFailed, name, decodeErr)
		}
		s.failInput(err, logArgs)
		return err
	}

	s.mu.Lock()
	s.submission.Code = text
	s.submission.File = &File{Name: name, Content: raw}
	resolved, ok := language.ResolvePath(name)
	if ok {
		s.submission.Language = resolved
	}
	s.rehighlightLocked()
	snapshot := s.submission.clone()
	cleared := s.inputFailed && !s.inFlight && s.state.Phase == PhaseError
	if cleared {
		s.state = UIState{Phase: PhaseIdle}
	}
	s.inputFailed = false
	state := s.state
	s.mu.Unlock()

	s.logger.Debug("File loaded", append(logArgs,
		slog.Int("bytes", len(raw)),
		slog.String("encoding", encodingName),
		slog.String("language", snapshot.Language.String()),
		slog.Bool("languageFromExtension", ok),
	)...)
	s.notifyInput(snapshot)
	if cleared {
		s.notifyState(state)
	}
	return nil
}

// readFile reads path through the session filesystem, enforcing MaxFileBytes.
func (s *Session) readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: '%s': %w", ErrReadFailed, path, err)
	}
	info, err := s.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: '%s' is a directory", ErrReadFailed, path)
	}
	if info.Size() > MaxFileBytes {
		return nil, fmt.Errorf("%w: '%s' is %d bytes, limit is %d", ErrReadFailed, path, info.Size(), MaxFileBytes)
	}
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	return raw, nil
}

// failInput surfaces an input error in the error region without touching Loading.
// It leaves the state alone while a submission is in flight.
func (s *Session) failInput(err error, logArgs []any) {
	s.logger.Warn("File could not be loaded", append(logArgs, slog.Any("error", err))...)

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return
	}
	s.state.Phase = PhaseError
	s.state.Report = nil
	s.state.Message = UserMessage(err)
	s.inputFailed = true
	state := s.state
	s.mu.Unlock()

	s.notifyState(state)
}
