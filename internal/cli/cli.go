package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/internal/cli/hooks"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/internal/cli/ui"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ErrAnalysisFailed is returned by Run when the run ended in the error phase. The failure
// has already been reported on the output streams.
var ErrAnalysisFailed = errors.New("analysis did not produce a report")

// Streams are the process streams Run reads from and writes to.
type Streams struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	InTTY  bool // In is an interactive terminal
	OutTTY bool // Out is an interactive terminal
	ErrTTY bool // Err is an interactive terminal
}

// NewStreams wraps in, out and errOut, detecting which of them are terminals.
func NewStreams(in io.Reader, out, errOut io.Writer) Streams {
	return Streams{
		In:     in,
		Out:    out,
		Err:    errOut,
		InTTY:  isTerminal(in),
		OutTTY: isTerminal(out),
		ErrTTY: isTerminal(errOut),
	}
}

// StdStreams returns the process's standard streams.
func StdStreams() Streams { return NewStreams(os.Stdin, os.Stdout, os.Stderr) }

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run orchestrates the main application logic after configuration loading.
// It starts the TUI when enabled and both stdin and stderr are terminals; otherwise it
// performs a single submission and prints the result.
func Run(ctx context.Context, opts analyzer.Options, logger *slog.Logger, streams Streams) error {
	if opts.TuiEnabled && streams.InTTY && streams.ErrTTY {
		return runTUI(ctx, opts, logger, streams)
	}
	return runBatch(ctx, opts, logger, streams)
}

// --- Non-interactive run ---

func runBatch(ctx context.Context, opts analyzer.Options, logger *slog.Logger, streams Streams) error {
	var bar hooks.ProgressBar
	if streams.ErrTTY && !opts.Verbose {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(streams.Err),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetDescription("Analyzing code..."),
			progressbar.OptionClearOnFinish(),
		)
	}
	cliHooks := hooks.NewCLIHooks(logger, false, opts.Verbose, nil, bar, streams.Err)
	opts.EventHooks = cliHooks

	session, err := analyzer.NewSession(opts)
	if err != nil {
		logger.Error("Failed to set up analysis session", slog.Any("error", err))
		return err
	}

	if err := applyInput(ctx, session, opts, streams, logger); err != nil {
		// The session is already in the error phase; report it like any other failure.
		if writeErr := writeResult(streams, session, opts); writeErr != nil {
			logger.Error("Failed to write result", slog.Any("error", writeErr))
		}
		return fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	final, submitErr := session.Submit(ctx)
	if writeErr := writeResult(streams, session, opts); writeErr != nil {
		logger.Error("Failed to write result", slog.Any("error", writeErr))
		return writeErr
	}
	if final.Phase == analyzer.PhaseError {
		return fmt.Errorf("%w: %w", ErrAnalysisFailed, submitErr)
	}

	if opts.ExportOnFinish {
		if err := exportReport(session, opts, logger, streams); err != nil {
			return err
		}
	}
	return nil
}

// applyInput fills the session from --file, --code and piped stdin, in that order.
// --code replaces the text of a loaded file; the file stays attached.
func applyInput(ctx context.Context, session *analyzer.Session, opts analyzer.Options, streams Streams, logger *slog.Logger) error {
	if opts.InputFile != "" {
		if err := session.LoadFile(ctx, opts.InputFile); err != nil {
			return err
		}
	}
	if opts.InputCodeSet {
		session.SetCodeText(opts.InputCode)
		return nil
	}
	if opts.InputFile != "" || streams.InTTY || streams.In == nil {
		return nil
	}

	data, err := io.ReadAll(streams.In)
	if err != nil {
		return fmt.Errorf("%w: standard input: %w", analyzer.ErrReadFailed, err)
	}
	session.SetCodeText(string(data))
	logger.Debug("Read code from standard input", slog.Int("bytes", len(data)))

	if opts.DetectLanguage {
		detector := opts.Detector
		if detector == nil {
			detector = language.NewGoEnryDetector()
		}
		if id, ok := detector.Detect(data, ""); ok {
			logger.Debug("Detected language of standard input", slog.String("language", id.String()))
			if err := session.SetLanguage(id); err != nil {
				return err
			}
		} else {
			logger.Debug("Language of standard input not detected, keeping selection",
				slog.String("language", session.Snapshot().Language.String()))
		}
	}
	return nil
}

func exportReport(session *analyzer.Session, opts analyzer.Options, logger *slog.Logger, streams Streams) error {
	path, err := session.Presenter().Export(opts.ExportDir)
	if err != nil {
		logger.Error("Failed to export report", slog.Any("error", err))
		return err
	}
	if path != "" {
		_, _ = fmt.Fprintf(streams.Err, "Report saved to %s\n", path)
	}
	return nil
}

// --- Interactive run ---

func runTUI(ctx context.Context, opts analyzer.Options, logger *slog.Logger, streams Streams) error {
	cliHooks := hooks.NewCLIHooks(logger, true, false, nil, nil, streams.Err)
	opts.EventHooks = cliHooks
	// Log output would corrupt the screen.
	opts.Logger = slog.NewTextHandler(io.Discard, nil)

	session, err := analyzer.NewSession(opts)
	if err != nil {
		logger.Error("Failed to set up analysis session", slog.Any("error", err))
		return err
	}
	if opts.InputFile != "" {
		// A failure is shown in the TUI's error region.
		_ = session.LoadFile(ctx, opts.InputFile)
	}
	if opts.InputCodeSet {
		session.SetCodeText(opts.InputCode)
	}

	model := ui.NewModel(ctx, session, ui.Config{
		Version:   opts.AppVersion,
		ExportDir: opts.ExportDir,
		Color:     opts.Color,
	})
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Err),
	)
	cliHooks.SetTUIProgram(program)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Error("Terminal UI failed", slog.Any("error", err))
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	if opts.ExportOnFinish && session.State().Phase == analyzer.PhaseSuccess {
		return exportReport(session, opts, logger, streams)
	}
	return nil
}

// errorLine formats a failure message for the text output.
func errorLine(msg string) string {
	return "Error: " + strings.TrimSpace(msg) + "\n"
}
