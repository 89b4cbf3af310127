package acquire

import (
	"context"
	"errors"
	"net"
	"net/url"
)

var (
	// ErrInvalidQuery is returned when the query lacks a target name.
	ErrInvalidQuery = errors.New("invalid acquisition query")
	// ErrInvalidSearchURL is returned when the configured search endpoint is unusable.
	ErrInvalidSearchURL = errors.New("invalid search url")
	// ErrRateLimited is returned when the search engine throttles or challenges us.
	ErrRateLimited = errors.New("search engine rate limited")
	// ErrParse is returned when a result page cannot be parsed.
	ErrParse = errors.New("search result parse failed")
	// ErrNoResults is returned when no usable result link was found.
	ErrNoResults = errors.New("no search results")
	// ErrUnexpectedStatus is returned for non-2xx answers other than throttling.
	ErrUnexpectedStatus = errors.New("unexpected search status")
)

// recoverable reports whether err should be absorbed by the fallback set.
// Cancellation of the caller's context and configuration errors always propagate.
func recoverable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	switch {
	case errors.Is(err, ErrInvalidSearchURL):
		return false
	case errors.Is(err, ErrRateLimited), errors.Is(err, ErrUnexpectedStatus),
		errors.Is(err, ErrParse), errors.Is(err, ErrNoResults):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}
