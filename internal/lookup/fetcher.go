package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single lookup, redirect hop included.
	DefaultTimeout = 15 * time.Second
	maxBodySize    = 10 * 1024 * 1024 // 10 MB
	maxRedirects   = 30
)

// sharedTransport is reused by every Fetcher so repeated lookups against the
// same search host keep their connections warm.
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	MaxIdleConns:          20,
	MaxIdleConnsPerHost:   4,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ResponseHeaderTimeout: 15 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
}

var errTooManyRedirects = errors.New("too many redirects")

// FetchResult holds the response of a single GET. It is never modified after
// Fetch returns.
type FetchResult struct {
	URL         string
	FinalURL    string // after HTTP redirects
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration
}

// Fetcher issues GET requests with a fixed header set. It never retries.
type Fetcher struct {
	client *http.Client
	header http.Header
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout overrides the client timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client. Its CheckRedirect is kept
// as provided.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithHeader adds a request header sent on every fetch.
func WithHeader(key, value string) FetcherOption {
	return func(f *Fetcher) { f.header.Set(key, value) }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher sending userAgent as the User-Agent header.
func NewFetcher(userAgent string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("%w (>%d)", errTooManyRedirects, maxRedirects)
				}
				return nil
			},
		},
		header: http.Header{},
		logger: slog.Default(),
	}
	f.header.Set("User-Agent", userAgent)
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch performs a GET on rawURL. Any transport failure is returned as a
// *FetchError; a non-200 status is not an error at this layer.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	for k, vs := range f.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("reading response body: %w", err)}
	}

	res := &FetchResult{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		Duration:    time.Since(start),
	}
	f.logger.Debug("fetched",
		"url", rawURL,
		"final_url", res.FinalURL,
		"status", res.StatusCode,
		"bytes", len(body),
		"duration", res.Duration)
	return res, nil
}
