package lookup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// FetchError reports a transport-level failure: DNS, refused connection,
// timeout, redirect loop or a broken body.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a deadline or client timeout.
func (e *FetchError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Summary is the short message shown to the user in place of documentation.
func (e *FetchError) Summary() string {
	if e.Timeout() {
		return "Error: request timed out"
	}
	var dnsErr *net.DNSError
	if errors.As(e.Err, &dnsErr) {
		return fmt.Sprintf("Error: could not reach %s", dnsErr.Name)
	}
	var opErr *net.OpError
	if errors.As(e.Err, &opErr) {
		if u, err := url.Parse(e.URL); err == nil && u.Host != "" {
			return fmt.Sprintf("Error: could not reach %s", u.Host)
		}
	}
	return "Error: request failed"
}

// StatusError reports a final response whose status code is not 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

// RedirectParseError reports a page that carries the script redirect marker
// but whose target could not be recovered.
type RedirectParseError struct {
	Reason string
}

func (e *RedirectParseError) Error() string {
	return "parsing script redirect: " + e.Reason
}
