package archive

import "errors"

var (
	// ErrTransport is returned for network, DNS and HTTP status failures.
	// It aborts a harvest run.
	ErrTransport = errors.New("archive transport error")

	// ErrParse is returned when the landing page carries no named input
	// elements, so no form session can be built from it.
	ErrParse = errors.New("archive landing page has no form inputs")

	// ErrInvalidURL is returned by NewClient for an unusable archive URL.
	ErrInvalidURL = errors.New("invalid archive url")
)
