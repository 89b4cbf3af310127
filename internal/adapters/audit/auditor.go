// Package audit inspects a business website for a handful of surface-level flaws.
package audit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/crgg/internal/domain/model"
	"github.com/okian/crgg/pkg/logger"
	"github.com/okian/crgg/pkg/metrics"
)

const (
	defaultTimeout       = 5 * time.Second
	defaultMaxRedirects  = 10
	defaultCTAKeyword    = "appointment"
	defaultUserAgent     = "Mozilla/5.0 (compatible; crgg/1.0)"
	maxResponseBodyBytes = 10 * 1024 * 1024
)

// Auditor inspects one website. It never fails: problems are reported in Audit.Error.
type Auditor interface {
	Audit(ctx context.Context, rawURL string) model.Audit
}

// SiteAuditor implements Auditor with a single HTTP GET and an anchor scan.
type SiteAuditor struct {
	client       *http.Client
	timeout      time.Duration
	maxRedirects int
	ctaKeyword   string
	userAgent    string
	log          logger.Logger
}

// NewSiteAuditor creates a SiteAuditor with configuration options.
func NewSiteAuditor(opts ...Option) *SiteAuditor {
	a := &SiteAuditor{
		client:       &http.Client{},
		timeout:      defaultTimeout,
		maxRedirects: defaultMaxRedirects,
		ctaKeyword:   defaultCTAKeyword,
		userAgent:    defaultUserAgent,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	c := *a.client
	c.Timeout = a.timeout
	c.CheckRedirect = redirectPolicy(a.maxRedirects)
	a.client = &c
	return a
}

// Audit fetches rawURL and reports SSL and call-to-action presence.
// SSL is judged from the declared scheme only; certificates are not inspected.
func (a *SiteAuditor) Audit(ctx context.Context, rawURL string) model.Audit {
	start := time.Now()
	res, err := a.audit(ctx, rawURL)
	latency := float64(time.Since(start).Milliseconds())

	if err != nil {
		metrics.RecordAudit("error", latency)
		metrics.RecordErrorByComponent("auditor", "fetch_error")
		a.log.Debug(ctx, "audit failed", logger.String("url", rawURL), logger.Error(err))
		return model.Audit{Error: err.Error()}
	}

	metrics.RecordAudit("ok", latency)
	if !res.HasSSL {
		metrics.RecordAuditFlaw("no_ssl")
	}
	if !res.HasCTA {
		metrics.RecordAuditFlaw("no_cta")
	}
	return res
}

func (a *SiteAuditor) audit(ctx context.Context, rawURL string) (model.Audit, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return model.Audit{}, ErrEmptyURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return model.Audit{}, fmt.Errorf("parse url: %w", err)
	}
	if s := strings.ToLower(u.Scheme); s != "http" && s != "https" {
		return model.Audit{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	body, status, err := a.fetch(ctx, rawURL)
	if err != nil {
		return model.Audit{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return model.Audit{}, fmt.Errorf("parse html: %w", err)
	}

	return model.Audit{
		HasSSL:     strings.HasPrefix(strings.ToLower(rawURL), "https"),
		HasCTA:     hasCTA(doc, a.ctaKeyword),
		StatusCode: status,
	}, nil
}

// fetch performs the HTTP GET. Non-2xx responses are returned with their body.
func (a *SiteAuditor) fetch(ctx context.Context, rawURL string) (body []byte, statusCode int, err error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if reqErr != nil {
		return nil, 0, fmt.Errorf("create request: %w", reqErr)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, doErr := a.client.Do(req)
	if doErr != nil {
		return nil, 0, fmt.Errorf("http fetch: %w", doErr)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", readErr)
	}
	return body, resp.StatusCode, nil
}

// hasCTA reports whether any anchor's visible text contains keyword.
func hasCTA(doc *goquery.Document, keyword string) bool {
	found := false
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.Text()), keyword) {
			found = true
			return false
		}
		return true
	})
	return found
}
