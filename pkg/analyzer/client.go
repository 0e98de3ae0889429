// --- START OF FINAL REVISED FILE pkg/analyzer/client.go ---
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// AnalysisClient sends a submission to the analysis service and returns its report.
//
// Errors are *TransportError when no response was received and *ServiceError when a
// response could not be turned into a report.
type AnalysisClient interface {
	Analyze(ctx context.Context, submission CodeSubmission) (Report, error)
}

// HTTPClient implements AnalysisClient with a multipart POST to Endpoint + AnalyzePath.
type HTTPClient struct {
	target     string
	httpClient *http.Client
	maxBody    int64
	logger     *slog.Logger
}

// NewHTTPClient creates a client for the service at endpoint (a base URL such as
// "http://127.0.0.1:5000"). A nil httpClient uses a client without a timeout; requests
// run to completion or failure.
func NewHTTPClient(endpoint string, httpClient *http.Client, maxResponseBytes int64, loggerHandler slog.Handler) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint '%s': %w", ErrConfigValidation, endpoint, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: endpoint '%s' must use http or https", ErrConfigValidation, endpoint)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("%w: endpoint '%s' has no host", ErrConfigValidation, endpoint)
	}
	target := base.JoinPath(AnalyzePath)

	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		}
	}
	if maxResponseBytes <= 0 {
		maxResponseBytes = DefaultMaxResponseMB * 1024 * 1024
	}
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &HTTPClient{
		target:     target.String(),
		httpClient: httpClient,
		maxBody:    maxResponseBytes,
		logger:     slog.New(loggerHandler).With(slog.String("component", "analysisClient")),
	}, nil
}

// Target returns the full URL submissions are posted to.
func (c *HTTPClient) Target() string { return c.target }

// Analyze implements AnalysisClient.
func (c *HTTPClient) Analyze(ctx context.Context, submission CodeSubmission) (Report, error) {
	logArgs := []any{
		slog.String("target", c.target),
		slog.String("language", submission.Language.String()),
		slog.Int("codeBytes", len(submission.Code)),
	}
	if submission.File != nil {
		logArgs = append(logArgs, slog.String("file", submission.File.Name))
	}

	body, contentType, err := encodeSubmission(submission)
	if err != nil {
		c.logger.Error("Failed to encode submission", append(logArgs, slog.Any("error", err))...)
		return Report{}, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target, body)
	if err != nil {
		c.logger.Error("Failed to build request", append(logArgs, slog.Any("error", err))...)
		return Report{}, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Sending analysis request", logArgs...)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Analysis request failed without a response", append(logArgs, slog.Any("error", err))...)
		return Report{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	logArgs = append(logArgs, slog.Int("status", resp.StatusCode))
	data, readErr := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if readErr != nil {
		// A truncated body cannot be trusted; treat it as unparseable.
		c.logger.Warn("Failed to read response body", append(logArgs, slog.Any("error", readErr))...)
		data = nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := parseErrorMessage(data)
		c.logger.Info("Analysis service reported an error", append(logArgs, slog.String("message", msg))...)
		return Report{}, &ServiceError{StatusCode: resp.StatusCode, Message: msg, Kind: ErrServiceReported}
	}

	report, ok := parseReport(data)
	if !ok {
		msg := parseErrorMessage(data)
		c.logger.Warn("Analysis response has no report", append(logArgs, slog.String("message", msg))...)
		return Report{}, &ServiceError{StatusCode: resp.StatusCode, Message: msg, Kind: ErrMalformedResponse}
	}

	c.logger.Debug("Analysis report received", append(logArgs, slog.Int("reportBytes", len(report.Analysis)))...)
	return report, nil
}

// encodeSubmission builds the multipart body: code and language always, the file only
// when one is attached.
func encodeSubmission(submission CodeSubmission) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField(FieldCode, submission.Code); err != nil {
		return nil, "", fmt.Errorf("failed to write '%s' field: %w", FieldCode, err)
	}
	if err := mw.WriteField(FieldLanguage, submission.Language.String()); err != nil {
		return nil, "", fmt.Errorf("failed to write '%s' field: %w", FieldLanguage, err)
	}
	if submission.File != nil {
		part, err := mw.CreateFormFile(FieldFile, submission.File.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create '%s' part: %w", FieldFile, err)
		}
		if _, err := part.Write(submission.File.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write '%s' part: %w", FieldFile, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// parseReport extracts the report from a success body. The body must match the
// success schema: an object with a string "analysis" field.
func parseReport(data []byte) (Report, bool) {
	if !matchesSchema(successSchemaSource, data) {
		return Report{}, false
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, false
	}
	return report, true
}

// parseErrorMessage returns the body's "error" field, or "" when the body is absent,
// unparseable, or carries no usable message.
func parseErrorMessage(data []byte) string {
	if !matchesSchema(errorSchemaSource, data) {
		return ""
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Error)
}

// --- END OF FINAL REVISED FILE pkg/analyzer/client.go ---
