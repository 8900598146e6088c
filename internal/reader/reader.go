// Package reader turns a resolved documentation page into readable terminal
// text for the full-page view.
package reader

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vidyasagar/tdoc/internal/lookup"
)

// Article holds the readable part of a documentation page.
type Article struct {
	Title       string
	Content     string // sanitized HTML
	TextContent string
	URL         string
	Links       []Link
}

// Link is a hyperlink found in the article body.
type Link struct {
	Index int
	Text  string
	URL   string
}

// Page is an article rendered for the terminal.
type Page struct {
	Title   string
	Content string
	Links   []Link
}

var (
	policy = bluemonday.UGCPolicy()

	mdConverter = converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	rendererMu          sync.Mutex
	cachedRenderer      *glamour.TermRenderer
	cachedRendererWidth int
)

// Extract pulls the main article out of a fetched page.
func Extract(result *lookup.FetchResult) (*Article, error) {
	if result.StatusCode != 200 {
		return nil, &lookup.StatusError{URL: result.FinalURL, StatusCode: result.StatusCode}
	}
	pageURL, err := url.Parse(result.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(result.Body), pageURL)
	if err != nil {
		return nil, fmt.Errorf("extracting article: %w", err)
	}

	a := &Article{
		Title:       article.Title,
		Content:     policy.Sanitize(article.Content),
		TextContent: article.TextContent,
		URL:         result.FinalURL,
	}
	a.Links = collectLinks(a.Content, pageURL)
	return a, nil
}

// collectLinks numbers the distinct absolute links of content in document
// order.
func collectLinks(content string, pageURL *url.URL) []Link {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var links []Link
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil || strings.HasPrefix(href, "#") {
			return
		}
		abs := pageURL.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		u := abs.String()
		if seen[u] {
			return
		}
		seen[u] = true
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			text = u
		}
		links = append(links, Link{Index: len(links) + 1, Text: text, URL: u})
	})
	return links
}

// Render converts article into styled terminal text wrapped at width.
func Render(article *Article, width int) *Page {
	if width <= 0 {
		width = 80
	}
	contentWidth := width - 4
	if contentWidth > 100 {
		contentWidth = 100
	}

	md, err := mdConverter.ConvertString(article.Content, converter.WithDomain(article.URL))
	if err != nil || strings.TrimSpace(md) == "" {
		md = article.TextContent
	}

	var sb strings.Builder
	if article.Title != "" {
		sb.WriteString("# " + article.Title + "\n\n")
	}
	sb.WriteString(md)
	if len(article.Links) > 0 {
		sb.WriteString("\n\n---\n\n")
		for _, l := range article.Links {
			fmt.Fprintf(&sb, "%d. [%s](%s)\n", l.Index, l.Text, l.URL)
		}
	}

	src := lookup.Printable(sb.String())
	out, err := renderMarkdown(src, contentWidth)
	if err != nil {
		out = src
	}
	return &Page{Title: lookup.Printable(article.Title), Content: out, Links: article.Links}
}

// renderMarkdown reuses one glamour renderer per width.
func renderMarkdown(md string, width int) (string, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	if cachedRenderer == nil || cachedRendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		cachedRenderer = r
		cachedRendererWidth = width
	}
	return cachedRenderer.Render(md)
}
