package fetcher

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sonobird/sonobird/internal/errors"
)

// newTestFetcher returns a fetcher whose HTTP client is intercepted by httpmock
// and whose downloads land in a per-test temp directory. Retries are disabled
// unless a test opts in, so failure tests do not sleep through backoff.
func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()

	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)

	return &Fetcher{
		client:     client,
		timeout:    5 * time.Second,
		maxRetries: 0,
		userAgent:  defaultUserAgent,
		tempDir:    t.TempDir(),
	}
}

func TestResolveDownloadsURL(t *testing.T) {
	f := newTestFetcher(t)
	httpmock.RegisterResponder(http.MethodGet, "https://xeno-canto.org/sounds/robin.wav",
		httpmock.NewBytesResponder(http.StatusOK, []byte("RIFFdata")))

	localPath, err := f.Resolve(context.Background(), Source{URL: "https://xeno-canto.org/sounds/robin.wav"})
	require.NoError(t, err)

	data, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFFdata"), data)
	assert.Equal(t, "sonobird-robin.wav", filepath.Base(localPath))
}

func TestResolveNotFoundIsTerminal(t *testing.T) {
	f := newTestFetcher(t)
	httpmock.RegisterResponder(http.MethodGet, "https://xeno-canto.org/sounds/missing.wav",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	_, err := f.Resolve(context.Background(), Source{URL: "https://xeno-canto.org/sounds/missing.wav"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAcquisition))
	assert.Contains(t, err.Error(), "404")

	// A 404 must not be retried.
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestResolveRetriesServerErrors(t *testing.T) {
	f := newTestFetcher(t)
	f.maxRetries = 2

	calls := 0
	httpmock.RegisterResponder(http.MethodGet, "https://xeno-canto.org/sounds/flaky.wav",
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls < 3 {
				return httpmock.NewStringResponse(http.StatusInternalServerError, "try again"), nil
			}
			return httpmock.NewBytesResponse(http.StatusOK, []byte("audio")), nil
		})

	localPath, err := f.Resolve(context.Background(), Source{URL: "https://xeno-canto.org/sounds/flaky.wav"})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	data, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("audio"), data)
}

func TestResolveLocalFile(t *testing.T) {
	f := newTestFetcher(t)

	audioPath := filepath.Join(t.TempDir(), "recording.wav")
	require.NoError(t, os.WriteFile(audioPath, []byte("RIFFdata"), 0o644))

	localPath, err := f.Resolve(context.Background(), Source{Path: audioPath})
	require.NoError(t, err)
	assert.Equal(t, audioPath, localPath)
}

func TestResolveLocalFileErrors(t *testing.T) {
	f := newTestFetcher(t)
	dir := t.TempDir()

	emptyPath := filepath.Join(dir, "empty.wav")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o644))

	tests := []struct {
		name string
		path string
	}{
		{name: "missing file", path: filepath.Join(dir, "nope.wav")},
		{name: "directory", path: dir},
		{name: "empty file", path: emptyPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Resolve(context.Background(), Source{Path: tt.path})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAcquisition))
		})
	}
}

func TestResolveEmptySource(t *testing.T) {
	f := newTestFetcher(t)

	_, err := f.Resolve(context.Background(), Source{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAcquisition))
}

func TestDownloadFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://xeno-canto.org/sounds/robin.wav", "sonobird-robin.wav"},
		{"https://example.com/", "sonobird-download.audio"},
	}
	for _, tt := range tests {
		if got := downloadFileName(tt.url); got != tt.want {
			t.Errorf("downloadFileName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
