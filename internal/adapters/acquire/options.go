package acquire

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/crgg/pkg/logger"
)

// Option configures acquirers.
type Option func(*settings)

type settings struct {
	target targetProfile
	log    logger.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		target: targetProfile{rating: defaultTargetRating, reviewCount: defaultTargetReviewCount},
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithTargetProfile sets the synthetic rating and review count of the target.
func WithTargetProfile(rating float64, reviewCount int) Option {
	return func(s *settings) {
		if rating > 0 {
			s.target.rating = rating
		}
		if reviewCount >= 0 {
			s.target.reviewCount = reviewCount
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// EngineOption configures the HTMLSearchEngine.
type EngineOption func(*HTMLSearchEngine)

// WithResultSelector sets the goquery selector for result anchors.
func WithResultSelector(sel string) EngineOption {
	return func(e *HTMLSearchEngine) {
		if strings.TrimSpace(sel) != "" {
			e.selector = sel
		}
	}
}

// WithPageSize sets the number of results requested per page.
func WithPageSize(n int) EngineOption {
	return func(e *HTMLSearchEngine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// WithRequestTimeout bounds a single result page fetch.
func WithRequestTimeout(d time.Duration) EngineOption {
	return func(e *HTMLSearchEngine) {
		if d > 0 {
			e.client.Timeout = d
		}
	}
}

// WithEngineUserAgent sets the User-Agent header of page fetches.
func WithEngineUserAgent(ua string) EngineOption {
	return func(e *HTMLSearchEngine) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithLimiter shares a politeness limiter between engines.
func WithLimiter(l *Limiter) EngineOption {
	return func(e *HTMLSearchEngine) {
		if l != nil {
			e.limiter = l
		}
	}
}

// WithEngineHTTPClient overrides the transport.
func WithEngineHTTPClient(c *http.Client) EngineOption {
	return func(e *HTMLSearchEngine) {
		if c != nil {
			timeout := e.client.Timeout
			cp := *c
			if cp.Timeout == 0 {
				cp.Timeout = timeout
			}
			e.client = &cp
		}
	}
}

// WithEngineLogger sets the engine logger.
func WithEngineLogger(l logger.Logger) EngineOption {
	return func(e *HTMLSearchEngine) {
		if l != nil {
			e.log = l
		}
	}
}
