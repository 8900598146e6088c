// Package launch hands URLs to the operating system's browser.
package launch

import (
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/browser"
)

// Opener opens a URL outside the terminal.
type Opener interface {
	Open(rawURL string) error
}

// Browser opens URLs with the desktop's default handler.
type Browser struct{}

// Quiet stops the helper process from writing over a running TUI.
func Quiet() {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Open validates rawURL and asks the OS to open it.
func (Browser) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}
	if err := browser.OpenURL(rawURL); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}
