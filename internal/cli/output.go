package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// writeResult prints the outcome of a non-interactive run in the configured format.
// Text output goes to Out on success and to Err on failure, highlighted only when Out is
// a terminal. Structured formats always go to Out.
func writeResult(streams Streams, session *analyzer.Session, opts analyzer.Options) error {
	result := session.Result()

	switch opts.OutputFormat {
	case analyzer.OutputFormatJSON:
		enc := json.NewEncoder(streams.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON result: %w", err)
		}
		return nil

	case analyzer.OutputFormatYAML:
		enc := yaml.NewEncoder(streams.Out)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode YAML result: %w", err)
		}
		return enc.Close()

	case analyzer.OutputFormatTOML:
		if err := toml.NewEncoder(streams.Out).Encode(result); err != nil {
			return fmt.Errorf("failed to encode TOML result: %w", err)
		}
		return nil
	}

	return writeText(streams, session, opts, result)
}

func writeText(streams Streams, session *analyzer.Session, opts analyzer.Options, result analyzer.Result) error {
	if result.Phase == analyzer.PhaseError {
		_, err := io.WriteString(streams.Err, errorLine(result.Message))
		return err
	}
	report := session.Presenter().Current()
	if report == nil || result.Phase != analyzer.PhaseSuccess {
		return nil
	}
	// Escape codes only make sense on a terminal.
	text := report.Text
	if opts.Color && streams.OutTTY {
		text = report.Display
	}
	_, err := io.WriteString(streams.Out, text)
	return err
}
