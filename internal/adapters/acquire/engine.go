package acquire

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/crgg/pkg/logger"
	"github.com/okian/crgg/pkg/metrics"
)

const (
	defaultResultSelector = "a[href]"
	defaultPageSize       = 10
	defaultSearchTimeout  = 10 * time.Second
	defaultSearchDelay    = 2 * time.Second
	defaultUserAgent      = "Mozilla/5.0 (compatible; crgg/1.0)"
	maxResponseBodyBytes  = 10 * 1024 * 1024
	// extraPages bounds pagination beyond what limit strictly needs.
	extraPages = 2
)

// SearchEngine returns result URLs for a free-text query, in rank order.
type SearchEngine interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// HTMLSearchEngine scrapes an HTML search results page.
type HTMLSearchEngine struct {
	endpoint  *url.URL
	selector  string
	pageSize  int
	userAgent string
	client    *http.Client
	limiter   *Limiter
	log       logger.Logger
}

// NewHTMLSearchEngine creates an engine for the given results endpoint.
func NewHTMLSearchEngine(searchURL string, opts ...EngineOption) (*HTMLSearchEngine, error) {
	u, err := url.Parse(strings.TrimSpace(searchURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSearchURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSearchURL, searchURL)
	}

	e := &HTMLSearchEngine{
		endpoint:  u,
		selector:  defaultResultSelector,
		pageSize:  defaultPageSize,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: defaultSearchTimeout},
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.limiter == nil {
		e.limiter = NewLimiter(defaultSearchDelay)
	}
	return e, nil
}

// Search collects up to limit result URLs, paginating as needed.
// Duplicate URLs on different ranks are kept.
func (e *HTMLSearchEngine) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	maxPages := (limit+e.pageSize-1)/e.pageSize + extraPages

	var urls []string
	for page := 0; page < maxPages && len(urls) < limit; page++ {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("search rate limiter: %w", err)
		}

		body, err := e.fetchPage(ctx, query, page*e.pageSize)
		if err != nil {
			return nil, err
		}

		links, err := e.parseLinks(body)
		if err != nil {
			return nil, err
		}
		e.log.Debug(ctx, "search page parsed",
			logger.Int("page", page),
			logger.Int("links", len(links)))
		if len(links) == 0 {
			break
		}
		urls = append(urls, links...)
	}

	if len(urls) == 0 {
		return nil, ErrNoResults
	}
	if len(urls) > limit {
		urls = urls[:limit]
	}
	return urls, nil
}

func (e *HTMLSearchEngine) pageURL(query string, start int) string {
	u := *e.endpoint
	v := u.Query()
	v.Set("q", query)
	v.Set("num", strconv.Itoa(e.pageSize))
	if start > 0 {
		v.Set("start", strconv.Itoa(start))
	} else {
		v.Del("start")
	}
	u.RawQuery = v.Encode()
	return u.String()
}

// fetchPage performs the HTTP GET for one result page.
func (e *HTMLSearchEngine) fetchPage(ctx context.Context, query string, start int) ([]byte, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, e.pageURL(query, start), http.NoBody)
	if reqErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSearchURL, reqErr)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, doErr := e.client.Do(req)
	if doErr != nil {
		metrics.RecordSearchFetch("transport_error")
		return nil, fmt.Errorf("search fetch: %w", doErr)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		metrics.RecordSearchFetch("rate_limited")
		return nil, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.Request != nil && strings.Contains(resp.Request.URL.Path, "/sorry/"):
		metrics.RecordSearchFetch("rate_limited")
		return nil, fmt.Errorf("%w: challenge page", ErrRateLimited)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.RecordSearchFetch("unexpected_status")
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if readErr != nil {
		metrics.RecordSearchFetch("transport_error")
		return nil, fmt.Errorf("read search body: %w", readErr)
	}
	metrics.RecordSearchFetch("ok")
	return body, nil
}

// parseLinks extracts organic result URLs from a page.
func (e *HTMLSearchEngine) parseLinks(body []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var links []string
	doc.Find(e.selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		if link, ok := e.resultLink(href); ok {
			links = append(links, link)
		}
	})
	return links, nil
}

// resultLink resolves href to an absolute off-site URL, unwrapping /url?q= redirects.
func (e *HTMLSearchEngine) resultLink(href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := e.endpoint.ResolveReference(ref)
	if abs.Host == e.endpoint.Host && abs.Path == "/url" {
		target := abs.Query().Get("q")
		if target == "" {
			target = abs.Query().Get("url")
		}
		if abs, err = url.Parse(target); err != nil {
			return "", false
		}
	}
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	if abs.Host == "" || sameSite(abs.Hostname(), e.endpoint.Hostname()) {
		return "", false
	}
	abs.Fragment = ""
	return abs.String(), true
}

// sameSite reports whether host is the search host, its bare domain or one of its subdomains.
func sameSite(host, searchHost string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	searchHost = strings.TrimPrefix(strings.ToLower(searchHost), "www.")
	return host == searchHost || strings.HasSuffix(host, "."+searchHost)
}
