// --- START OF NEW FILE internal/testutil/helpers.go ---
package testutil

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// CreateMemFile writes content to path on fs, ensuring parent directories exist.
func CreateMemFile(t *testing.T, fs afero.Fs, path string, content []byte) {
	t.Helper()
	err := fs.MkdirAll(filepath.Dir(path), 0o755)
	require.NoError(t, err, "Failed to create directory for %s", path)
	err = afero.WriteFile(fs, path, content, 0o644)
	require.NoError(t, err, "Failed to write file %s", path)
}

// ReceivedRequest is what a fake analysis service saw in one request.
type ReceivedRequest struct {
	Method      string
	Path        string
	Code        string
	Language    string
	FileName    string
	FileContent []byte
	HasFile     bool
}

// FakeService is an httptest server standing in for the analysis service.
type FakeService struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []ReceivedRequest
}

// NewFakeService starts a server that records each multipart request and answers with
// status and body. Close is registered with t.Cleanup.
func NewFakeService(t *testing.T, status int, body string) *FakeService {
	t.Helper()
	fake := &FakeService{}
	fake.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fake.record(t, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(fake.Server.Close)
	return fake
}

// NewJSONService starts a fake service answering with v encoded as JSON.
func NewJSONService(t *testing.T, status int, v any) *FakeService {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return NewFakeService(t, status, string(data))
}

// Requests returns the recorded requests.
func (f *FakeService) Requests() []ReceivedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ReceivedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// URL returns the server's base URL.
func (f *FakeService) URL() string { return f.Server.URL }

func (f *FakeService) record(t *testing.T, r *http.Request) {
	rec := ReceivedRequest{Method: r.Method, Path: r.URL.Path}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			rec.Code = r.FormValue("code")
			rec.Language = r.FormValue("language")
			if file, header, err := r.FormFile("file"); err == nil {
				rec.HasFile = true
				rec.FileName = header.Filename
				rec.FileContent, _ = io.ReadAll(file)
				_ = file.Close()
			} else if err != http.ErrMissingFile {
				t.Logf("fake service: reading file part: %v", err)
			}
		} else {
			t.Logf("fake service: parsing multipart form: %v", err)
		}
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
}

// --- END OF NEW FILE internal/testutil/helpers.go ---
