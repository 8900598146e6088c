package lookup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// Getter performs a single GET. *Fetcher implements it.
type Getter interface {
	Fetch(ctx context.Context, rawURL string) (*FetchResult, error)
}

// Settings is the part of the configuration the pipeline reads.
type Settings struct {
	Template  string
	Selectors []string
}

// Result is the outcome of one lookup.
type Result struct {
	Token     string
	SearchURL string
	FinalURL  string // page the content was extracted from; empty on fetch failure
	Content   Content
}

// Resolver turns a token into tooltip content. It holds no per-lookup state
// and may be used from any goroutine.
type Resolver struct {
	getter   Getter
	settings Settings
	logger   *slog.Logger
}

// NewResolver creates a Resolver. A nil logger means slog.Default().
func NewResolver(g Getter, s Settings, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{getter: g, settings: s, logger: logger}
}

// URL returns the search URL for token.
func (r *Resolver) URL(token string) string {
	return BuildURL(r.settings.Template, token)
}

// Resolve runs the full pipeline for token. Every failure is folded into
// Result.Content; the error is non-nil only when ctx was canceled, meaning
// the lookup was superseded and its result should be discarded.
func (r *Resolver) Resolve(ctx context.Context, token string) (Result, error) {
	res := Result{Token: token, SearchURL: r.URL(token)}
	log := r.logger.With("token", token)

	page, err := r.getter.Fetch(ctx, res.SearchURL)
	if err != nil {
		return r.failed(ctx, res, err, log)
	}

	if page.StatusCode == http.StatusOK {
		page, err = r.follow(ctx, page, log)
		if err != nil {
			return r.failed(ctx, res, err, log)
		}
	}

	res.FinalURL = page.FinalURL
	if page.StatusCode != http.StatusOK {
		log.Info("lookup got non-200 status",
			"error", &StatusError{URL: page.FinalURL, StatusCode: page.StatusCode})
	}
	res.Content = extract(page, r.settings.Selectors, log)
	log.Debug("lookup resolved", "final_url", res.FinalURL, "kind", res.Content.Kind)
	return res, nil
}

// follow re-fetches the target of a script redirect found in page. A page
// whose redirect cannot be parsed is returned as is.
func (r *Resolver) follow(ctx context.Context, page *FetchResult, log *slog.Logger) (*FetchResult, error) {
	target, found, err := RedirectTarget(string(page.Body))
	if !found {
		return page, nil
	}
	if err != nil {
		log.Warn("falling back to original page", "url", page.FinalURL, "error", err)
		return page, nil
	}
	log.Debug("following script redirect", "target", target)
	return r.getter.Fetch(ctx, target)
}

func (r *Resolver) failed(ctx context.Context, res Result, err error, log *slog.Logger) (Result, error) {
	if errors.Is(ctx.Err(), context.Canceled) {
		return res, ctx.Err()
	}
	log.Warn("lookup failed", "error", err)
	var fe *FetchError
	if errors.As(err, &fe) {
		res.Content = ErrorContent(fe.Summary())
	} else {
		res.Content = ErrorContent("Error: request failed")
	}
	return res, nil
}
