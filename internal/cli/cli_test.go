package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/internal/testutil"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer"
	"github.com/Akankshasingh07/AI-Powered-Code-Analyzer/pkg/analyzer/language"
	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testStreams struct {
	Streams
	out *bytes.Buffer
	err *bytes.Buffer
}

func newStreams(stdin string) testStreams {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	var in io.Reader
	if stdin != "" {
		in = strings.NewReader(stdin)
	}
	return testStreams{
		Streams: Streams{In: in, Out: out, Err: errOut},
		out:     out,
		err:     errOut,
	}
}

func baseOptions(endpoint string) analyzer.Options {
	return analyzer.Options{
		Endpoint:     endpoint,
		Language:     "python",
		OutputFormat: analyzer.OutputFormatText,
		ExportDir:    ".",
	}
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fixedDetector struct {
	id language.ID
	ok bool
}

func (d fixedDetector) Detect([]byte, string) (language.ID, bool) { return d.id, d.ok }

func TestRun_TextOutput(t *testing.T) {
	service := testutil.NewJSONService(t, http.StatusOK, map[string]string{"analysis": "<p>Looks <b>good</b></p>"})
	opts := baseOptions(service.URL())
	opts.InputCode = "print(1)"
	opts.InputCodeSet = true
	streams := newStreams("")

	err := Run(context.Background(), opts, discardLogger(), streams.Streams)
	require.NoError(t, err)
	assert.Equal(t, "Looks good\n", streams.out.String())
	assert.Empty(t, streams.err.String())

	reqs := service.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, analyzer.AnalyzePath, reqs[0].Path)
	assert.Equal(t, "print(1)", reqs[0].Code)
	assert.Equal(t, "python", reqs[0].Language)
	assert.False(t, reqs[0].HasFile)
}

func TestRun_ServiceError(t *testing.T) {
	service := testutil.NewJSONService(t, http.StatusBadRequest, map[string]string{"error": "syntax error"})
	opts := baseOptions(service.URL())
	streams := newStreams("")

	err := Run(context.Background(), opts, discardLogger(), streams.Streams)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.ErrorIs(t, err, analyzer.ErrServiceReported)
	assert.Empty(t, streams.out.String())
	assert.Equal(t, "Error: syntax error\n", streams.err.String())
}

func TestRun_FileInput(t *testing.T) {
	service := testutil.NewJSONService(t, http.StatusOK, map[string]string{"analysis": "<p>ok</p>"})
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	opts := baseOptions(service.URL())
	opts.InputFile = path
	streams := newStreams("ignored because a file was given")

	require.NoError(t, Run(context.Background(), opts, discardLogger(), streams.Streams))

	reqs := service.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "go", reqs[0].Language)
	assert.Equal(t, "package main\n", reqs[0].Code)
	assert.True(t, reqs[0].HasFile)
	assert.Equal(t, "main.go", reqs[0].FileName)
	assert.Equal(t, []byte("package main\n"), reqs[0].FileContent)
}

func TestRun_MissingFile(t *testing.T) {
	service := testutil.NewJSONService(t, http.StatusOK, map[string]string{"analysis": "<p>ok</p>"})
	opts := baseOptions(service.URL())
	opts.InputFile = filepath.Join(t.TempDir(), "missing.py")
	streams := newStreams("")

	err := Run(context.Background(), opts, discardLogger(), streams.Streams)
	require.Error(t, err)
	assert.ErrorIs(t, err, analyzer.ErrReadFailed)
	assert.Empty(t, service.Requests(), "nothing is sent when the file cannot be read")
	assert.True(t, strings.HasPrefix(streams.err.String(), "Error: "))
}

func TestRun_StdinInput(t *testing.T) {
	t.Run("detected language", func(t *testing.T) {
		service := testutil.NewJSONService(t, http.StatusOK, map[string]string{"analysis": "<p>ok</p>"})
		opts := baseOptions(service.URL())
		opts.DetectLanguage = true
		opts.Detector = fixedDetector{id: language.Rust, ok: true}
		streams := newStreams("fn main() {}\n")

		require.NoError(t, Run(context.Background(), opts, discardLogger(), streams.Streams))
		reqs := service.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, "fn main() {}\n", reqs[0].Code)
		assert.Equal(t, "rust", reqs[0].Language)
	})

	t.Run("undetected keeps selection", func(t *testing.T) {
		service := testutil.NewJSONService(t, http.StatusOK, map[string]string{"analysis": "<p>ok</p>"})
		opts := baseOptions(service.URL())
		opts.Language = "ruby"
		opts.DetectLanguage = true
		opts.Detector = fixedDetector{}
		streams := newStreams("???")

		require.NoError(t, Run(context.Background(), opts, discardLogger(), streams.Streams))
		reqs := service.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, "ruby", reqs[0].Language)
	})

	t.Run("terminal stdin is not read", func(t *testing.T) {
		service := testutil.NewJSONService(t, http.StatusOK, map[string]string{"analysis": "<p>ok</p>"})
		opts := baseOptions(service.URL())
		streams := newStreams("typed")
		streams.InTTY = true

		require.NoError(t, Run(context.Background(), opts, discardLogger(), streams.Streams))
		reqs := service.Requests()
		require.Len(t, reqs, 1)
		assert.Empty(t, reqs[0].Code)
	})
}

func TestRun_StructuredOutput(t *testing.T) {
	body := map[string]string{"analysis": "<p>Fix:</p><pre><code>x = 1</code></pre>"}

	decoders := map[analyzer.OutputFormat]func([]byte, *analyzer.Result) error{
		analyzer.OutputFormatJSON: func(b []byte, r *analyzer.Result) error { return json.Unmarshal(b, r) },
		analyzer.OutputFormatYAML: func(b []byte, r *analyzer.Result) error { return yaml.Unmarshal(b, r) },
		analyzer.OutputFormatTOML: func(b []byte, r *analyzer.Result) error { return toml.Unmarshal(b, r) },
	}

	for format, decode := range decoders {
		t.Run(string(format), func(t *testing.T) {
			service := testutil.NewJSONService(t, http.StatusOK, body)
			opts := baseOptions(service.URL())
			opts.OutputFormat = format
			opts.InputCode = "x=1"
			opts.InputCodeSet = true
			streams := newStreams("")

			require.NoError(t, Run(context.Background(), opts, discardLogger(), streams.Streams))

			var got analyzer.Result
			require.NoError(t, decode(streams.out.Bytes(), &got), "output: %s", streams.out.String())
			assert.Equal(t, analyzer.PhaseSuccess, got.Phase)
			assert.Equal(t, language.Python, got.Language)
			assert.Equal(t, 1, got.CodeBlocks)
			assert.Contains(t, got.Report, "x = 1")
			assert.Contains(t, got.Markup, `class="language-python"`)
		})
	}
}

func TestRun_StructuredOutputOnError(t *testing.T) {
	service := testutil.NewFakeService(t, http.StatusInternalServerError, "")
	opts := baseOptions(service.URL())
	opts.OutputFormat = analyzer.OutputFormatJSON
	streams := newStreams("")

	err := Run(context.Background(), opts, discardLogger(), streams.Streams)
	require.ErrorIs(t, err, ErrAnalysisFailed)

	var got analyzer.Result
	require.NoError(t, json.Unmarshal(streams.out.Bytes(), &got))
	assert.Equal(t, analyzer.PhaseError, got.Phase)
	assert.Equal(t, analyzer.FallbackErrorMessage, got.Message)
	assert.Empty(t, got.Report)
}

func TestRun_Export(t *testing.T) {
	service := testutil.NewJSONService(t, http.StatusOK, map[string]string{"analysis": "<p>ok</p>"})
	dir := t.TempDir()
	opts := baseOptions(service.URL())
	opts.ExportOnFinish = true
	opts.ExportDir = dir
	streams := newStreams("")

	require.NoError(t, Run(context.Background(), opts, discardLogger(), streams.Streams))

	path := filepath.Join(dir, analyzer.ReportFileName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(data))
	assert.Equal(t, "Report saved to "+path+"\n", streams.err.String())
}

func TestRun_NoExportAfterFailure(t *testing.T) {
	service := testutil.NewFakeService(t, http.StatusBadGateway, "<html>bad gateway</html>")
	dir := t.TempDir()
	opts := baseOptions(service.URL())
	opts.ExportOnFinish = true
	opts.ExportDir = dir
	streams := newStreams("")

	require.Error(t, Run(context.Background(), opts, discardLogger(), streams.Streams))
	_, err := os.Stat(filepath.Join(dir, analyzer.ReportFileName))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_InvalidLanguage(t *testing.T) {
	opts := baseOptions("http://127.0.0.1:1")
	opts.Language = "cobol"
	streams := newStreams("")

	err := Run(context.Background(), opts, discardLogger(), streams.Streams)
	assert.ErrorIs(t, err, analyzer.ErrConfigValidation)
}

func TestRun_TUIRequiresTerminal(t *testing.T) {
	// Without terminals the batch path runs even when the TUI is enabled.
	service := testutil.NewJSONService(t, http.StatusOK, map[string]string{"analysis": "<p>ok</p>"})
	opts := baseOptions(service.URL())
	opts.TuiEnabled = true
	streams := newStreams("")

	require.NoError(t, Run(context.Background(), opts, discardLogger(), streams.Streams))
	assert.Equal(t, "ok\n", streams.out.String())
}

func TestRun_TextOutputColor(t *testing.T) {
	body := map[string]string{"analysis": "<p>Fix:</p><pre><code class=\"language-python\">def f():\n    return 1</code></pre>"}

	t.Run("redirected output is plain", func(t *testing.T) {
		service := testutil.NewJSONService(t, http.StatusOK, body)
		opts := baseOptions(service.URL())
		opts.Color = true
		streams := newStreams("")

		require.NoError(t, Run(context.Background(), opts, discardLogger(), streams.Streams))
		assert.NotContains(t, streams.out.String(), "\x1b[")
		assert.Equal(t, "Fix:\n\ndef f():\n    return 1\n", streams.out.String())
	})

	t.Run("terminal output is highlighted", func(t *testing.T) {
		service := testutil.NewJSONService(t, http.StatusOK, body)
		opts := baseOptions(service.URL())
		opts.Color = true
		opts.HighlightStyle = "monokai"
		streams := newStreams("")
		streams.OutTTY = true

		require.NoError(t, Run(context.Background(), opts, discardLogger(), streams.Streams))
		assert.Contains(t, streams.out.String(), "\x1b[")
	})
}

func TestRun_ProgressDrawsOnErrStream(t *testing.T) {
	service := testutil.NewJSONService(t, http.StatusOK, map[string]string{"analysis": "<p>ok</p>"})
	opts := baseOptions(service.URL())
	streams := newStreams("")
	streams.ErrTTY = true

	require.NoError(t, Run(context.Background(), opts, discardLogger(), streams.Streams))
	assert.Equal(t, "ok\n", streams.out.String())
	assert.True(t, strings.HasSuffix(streams.err.String(), "\n"), "the spinner line is finished on the error stream")
}
