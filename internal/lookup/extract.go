package lookup

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html/charset"
)

// NoInfo is shown when no selector produced any text.
const NoInfo = "No info found"

// Kind classifies tooltip content for presentation.
type Kind int

const (
	KindText     Kind = iota // extracted documentation
	KindNoResult             // the NoInfo sentinel
	KindError                // an "Error: ..." sentinel
)

// Content is the displayable result of a lookup. Errors travel through the
// same value as documentation.
type Content struct {
	Kind Kind
	Text string
}

func (c Content) String() string { return c.Text }

// TextContent wraps extracted documentation.
func TextContent(s string) Content { return Content{Kind: KindText, Text: s} }

// NoResultContent is the NoInfo sentinel.
func NoResultContent() Content { return Content{Kind: KindNoResult, Text: NoInfo} }

// ErrorContent wraps a user-visible failure message.
func ErrorContent(msg string) Content { return Content{Kind: KindError, Text: msg} }

// StatusContent is the sentinel for a non-200 response.
func StatusContent(code int) Content {
	return ErrorContent(fmt.Sprintf("Error: %d", code))
}

// Extract assembles tooltip text from result using selectors in order. Each
// selector contributes the text of its first match followed by a blank line.
// It does no I/O.
func Extract(result *FetchResult, selectors []string) Content {
	return extract(result, selectors, slog.Default())
}

func extract(result *FetchResult, selectors []string, logger *slog.Logger) Content {
	if result.StatusCode != http.StatusOK {
		return StatusContent(result.StatusCode)
	}

	doc, err := htmlquery.Parse(decode(result, logger))
	if err != nil {
		logger.Warn("parsing document", "url", result.FinalURL, "error", err)
		return NoResultContent()
	}

	var sb strings.Builder
	for _, sel := range selectors {
		nodes, err := htmlquery.QueryAll(doc, sel)
		if err != nil {
			logger.Warn("skipping invalid selector", "selector", sel, "error", err)
			continue
		}
		if len(nodes) == 0 {
			continue
		}
		sb.WriteString(htmlquery.InnerText(nodes[0]))
		sb.WriteString("\n\n")
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return NoResultContent()
	}
	return TextContent(text)
}

// decode returns the body as UTF-8. Bodies that are not valid UTF-8 are
// converted using the Content-Type header or a <meta> charset.
func decode(result *FetchResult, logger *slog.Logger) io.Reader {
	if utf8.Valid(result.Body) {
		return bytes.NewReader(result.Body)
	}
	r, err := charset.NewReader(bytes.NewReader(result.Body), result.ContentType)
	if err != nil {
		logger.Debug("unknown charset, reading as UTF-8", "content_type", result.ContentType, "error", err)
		return bytes.NewReader(result.Body)
	}
	return r
}
