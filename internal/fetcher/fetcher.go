// Package fetcher resolves an audio source, a remote URL or a local path,
// into a readable file on local storage. Retry and timeout policy for network
// acquisition lives entirely here, downstream stages never retry.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/sonobird/sonobird/internal/conf"
	"github.com/sonobird/sonobird/internal/errors"
	"github.com/sonobird/sonobird/internal/logging"
)

// ErrAcquisition is the terminal failure for audio acquisition: network
// errors, non-success HTTP status, or a missing/unusable local file.
var ErrAcquisition = errors.NewStd("audio acquisition failed")

const (
	defaultUserAgent = "sonobird"

	// Connection pool settings
	defaultMaxIdleConns        = 10
	defaultIdleConnTimeout     = 90 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
	defaultDialTimeout         = 30 * time.Second
	defaultDialKeepAlive       = 30 * time.Second

	retryBaseDelay = 500 * time.Millisecond
)

var log = logging.ForService("fetcher")

// Source identifies the recording to analyze. Exactly one of URL or Path is set.
type Source struct {
	URL  string
	Path string
}

// Fetcher downloads remote recordings and validates local ones.
// Safe for concurrent use.
type Fetcher struct {
	client     *http.Client
	timeout    time.Duration
	maxRetries uint64
	userAgent  string
	tempDir    string
}

// New creates a Fetcher from settings with a tuned HTTP transport.
func New(settings *conf.Settings) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultDialTimeout,
			KeepAlive: defaultDialKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        defaultMaxIdleConns,
		IdleConnTimeout:     defaultIdleConnTimeout,
		TLSHandshakeTimeout: defaultTLSHandshakeTimeout,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			// No client-level timeout, handled per request via context.
		},
		timeout:    time.Duration(settings.Fetch.TimeoutSeconds) * time.Second,
		maxRetries: uint64(settings.Fetch.MaxRetries),
		userAgent:  defaultUserAgent,
		tempDir:    os.TempDir(),
	}
}

// Resolve yields the local path of the recording described by src. URLs are
// downloaded into a temporary file, local paths are validated in place.
// Fails with an error matching ErrAcquisition after a bounded wait.
func (f *Fetcher) Resolve(ctx context.Context, src Source) (string, error) {
	switch {
	case src.URL != "":
		return f.download(ctx, src.URL)
	case src.Path != "":
		return src.Path, validateLocalFile(src.Path)
	default:
		return "", errors.New(fmt.Errorf("%w: no audio source given", ErrAcquisition)).
			Component("fetcher").
			Category(errors.CategoryAudioSource).
			Build()
	}
}

// download fetches url into a temporary file, retrying transient failures
// with fibonacci backoff. Client errors such as 404 are permanent.
func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	destination := filepath.Join(f.tempDir, downloadFileName(url))
	start := time.Now()

	backoff := retry.WithMaxRetries(f.maxRetries, retry.NewFibonacci(retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return f.downloadOnce(ctx, url, destination)
	})
	if err != nil {
		return "", errors.New(fmt.Errorf("%w: %w", ErrAcquisition, err)).
			Component("fetcher").
			Category(errors.CategoryNetwork).
			Context("url_host", hostOf(url)).
			Timing("download", time.Since(start)).
			Build()
	}

	log.Info("audio downloaded",
		"url_host", hostOf(url),
		"destination", destination,
		"duration_ms", time.Since(start).Milliseconds())
	return destination, nil
}

func (f *Fetcher) downloadOnce(ctx context.Context, url, destination string) error {
	requestCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		// Transport-level failures are worth another attempt.
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return retry.RetryableError(fmt.Errorf("server returned status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	out, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		// A broken body mid-transfer can succeed on retry.
		return retry.RetryableError(err)
	}
	return nil
}

// validateLocalFile checks that path points to a usable audio file.
func validateLocalFile(filePath string) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return errors.New(fmt.Errorf("%w: cannot access %s: %w", ErrAcquisition, filepath.Base(filePath), err)).
			Component("fetcher").
			Category(errors.CategoryFileIO).
			Build()
	}

	if fileInfo.IsDir() {
		return errors.New(fmt.Errorf("%w: %s is a directory, not a file", ErrAcquisition, filepath.Base(filePath))).
			Component("fetcher").
			Category(errors.CategoryFileIO).
			Build()
	}

	if fileInfo.Size() == 0 {
		return errors.New(fmt.Errorf("%w: %s is empty (0 bytes)", ErrAcquisition, filepath.Base(filePath))).
			Component("fetcher").
			Category(errors.CategoryFileIO).
			Build()
	}

	return nil
}

// downloadFileName derives a stable temp file name from the URL path, falling
// back to a generic name when the URL has no useful basename.
func downloadFileName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "sonobird-download.audio"
	}
	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "sonobird-download.audio"
	}
	return "sonobird-" + name
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "invalid"
	}
	return parsed.Host
}
