package dedupe

import "errors"

var (
	ErrInFlight = errors.New("key already in flight")
	ErrCapacity = errors.New("in-flight guard at capacity")
)
