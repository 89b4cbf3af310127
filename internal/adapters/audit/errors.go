package audit

import "errors"

var (
	// ErrEmptyURL is reported when an entity has no website to inspect.
	ErrEmptyURL = errors.New("empty url")
	// ErrUnsupportedScheme is reported for URLs that are not http or https.
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
	// ErrTooManyRedirects is returned when the redirect hop limit is exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")
)
