// Package fetcher issues the outbound search request for a keyword and
// returns the raw results markup.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"blockrank/internal/cache"
)

// Browser-like request headers. The search endpoint serves a degraded page
// to clients that do not look like a real browser.
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	acceptLanguage = "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7"
)

// maxBodySize caps how much markup we read from one response.
const maxBodySize = 4 << 20

// FetchError is any failure to obtain search markup: network error, timeout,
// or a non-2xx response.
type FetchError struct {
	Keyword    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %q: unexpected status %d", e.Keyword, e.StatusCode)
	}
	return fmt.Sprintf("fetch %q: %v", e.Keyword, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher performs rate-limited search page fetches with a bounded timeout.
// There are no retries here; a failed fetch becomes an ERROR outcome and the
// next scheduled tick tries again.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	cache   *cache.MarkupCache
	baseURL string
	referer string
}

// New creates a Fetcher. interval spaces outbound requests as a courtesy to
// the search endpoint; markupCache may be nil.
func New(baseURL string, timeout, interval time.Duration, markupCache *cache.MarkupCache) *Fetcher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		limiter: rate.NewLimiter(limit, 1),
		cache:   markupCache,
		baseURL: baseURL,
		referer: refererFor(baseURL),
	}
}

// Fetch performs one GET for the keyword's search results page and returns
// the raw markup. Cached markup is returned without touching the network.
func (f *Fetcher) Fetch(ctx context.Context, keyword string) (string, error) {
	if markup := f.cache.Get(keyword); markup != "" {
		return markup, nil
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", &FetchError{Keyword: keyword, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.searchURL(keyword), nil)
	if err != nil {
		return "", &FetchError{Keyword: keyword, Err: err}
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Referer", f.referer)
	req.AddCookie(&http.Cookie{Name: "NNB", Value: "BLOCKRANK"})
	req.AddCookie(&http.Cookie{Name: "nx_ssl", Value: "2"})

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{Keyword: keyword, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{Keyword: keyword, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &FetchError{Keyword: keyword, Err: err}
	}

	markup := string(body)
	f.cache.Set(keyword, markup)
	return markup, nil
}

// searchURL builds the results page URL for a keyword.
func (f *Fetcher) searchURL(keyword string) string {
	return f.baseURL + "?query=" + url.QueryEscape(keyword)
}

func refererFor(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Scheme + "://" + u.Host + "/"
}
