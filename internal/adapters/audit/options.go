package audit

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/crgg/pkg/logger"
)

// Option configures the SiteAuditor.
type Option func(*SiteAuditor)

// WithTimeout bounds a single audit request.
func WithTimeout(d time.Duration) Option {
	return func(a *SiteAuditor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithMaxRedirects caps redirect hops.
func WithMaxRedirects(n int) Option {
	return func(a *SiteAuditor) { a.maxRedirects = n }
}

// WithCTAKeyword sets the call-to-action keyword matched against link text.
func WithCTAKeyword(kw string) Option {
	return func(a *SiteAuditor) {
		if kw = strings.TrimSpace(kw); kw != "" {
			a.ctaKeyword = strings.ToLower(kw)
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(a *SiteAuditor) {
		if ua != "" {
			a.userAgent = ua
		}
	}
}

// WithHTTPClient overrides the transport. Timeout and redirect policy are
// still applied on a copy of the client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *SiteAuditor) {
		if c != nil {
			a.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *SiteAuditor) {
		if l != nil {
			a.log = l
		}
	}
}
