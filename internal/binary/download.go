package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "flexsdk-install/1.0"
	// maxRedirects matches net/http's own limit.
	maxRedirects = 10
	// progressChunk is how many bytes pass between debug progress lines.
	progressChunk = 1 << 20
)

// Fetcher downloads the SDK archive and hands it to the Extractor.
type Fetcher struct {
	client    *http.Client
	extractor *Extractor
	logger    *log.Logger
	userAgent string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout bounds the whole request, body included. Zero means no limit.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTransport replaces the HTTP transport, e.g. for tests.
func WithTransport(rt http.RoundTripper) FetcherOption {
	return func(f *Fetcher) {
		f.client.Transport = rt
	}
}

// NewFetcher creates a fetcher. The client has no timeout unless
// WithTimeout is given; an unresponsive server stalls the run.
func NewFetcher(logger *log.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		logger:    orDiscard(logger),
		userAgent: DefaultUserAgent,
	}
	f.extractor = NewExtractor(f.logger)
	f.client = &http.Client{CheckRedirect: f.followRedirect}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// followRedirect logs every redirect hop.
func (f *Fetcher) followRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	f.logger.Info("Following redirect...", "location", req.URL.String(), "status", req.Response.StatusCode)
	return nil
}

// Fetch downloads url and extracts it into destDir. The archive is spooled
// to a temporary file inside destDir and removed afterwards.
func (f *Fetcher) Fetch(ctx context.Context, url, destDir string) error {
	f.logger.Info("Requesting", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{
			URL:        resp.Request.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header.Clone(),
		}
	}

	f.logger.Info("Receiving...", "status", resp.Status, "size", resp.ContentLength)

	archivePath, err := f.spool(resp.Body, destDir)
	if err != nil {
		return err
	}
	defer os.Remove(archivePath)

	if err := f.extractor.Extract(archivePath, destDir); err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}

	return nil
}

// spool copies body into a temp file in dir and returns its path.
func (f *Fetcher) spool(body io.Reader, dir string) (string, error) {
	tmpFile, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	pw := &progressWriter{logger: f.logger}
	n, err := io.Copy(io.MultiWriter(tmpFile, pw), body)
	if err != nil {
		return "", fmt.Errorf("copy response body: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	f.logger.Info("Download complete", "bytes", n)
	cleanupNeeded = false
	return tmpPath, nil
}

// progressWriter logs a debug line every progressChunk bytes.
type progressWriter struct {
	logger   *log.Logger
	total    int64
	notified int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.total += int64(len(b))
	if p.total/progressChunk > p.notified {
		p.notified = p.total / progressChunk
		p.logger.Debug("Received", "mib", p.notified)
	}
	return len(b), nil
}
