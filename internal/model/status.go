package model

import "time"

// PageStatus is the outcome of processing one archive date.
type PageStatus string

const (
	// StatusExtracted means the page parsed and its CSV was written.
	StatusExtracted PageStatus = "extracted"

	// StatusMalformed means the page did not have the expected table layout
	// and was skipped.
	StatusMalformed PageStatus = "malformed"
)

// PageSource tells whether a page came from the local cache or the network.
type PageSource string

const (
	SourceCache   PageSource = "cache"
	SourceNetwork PageSource = "network"
)

// PageOutcome describes what happened to one archive date during a run.
type PageOutcome struct {
	Date      time.Time  `json:"date"`
	Status    PageStatus `json:"status"`
	Source    PageSource `json:"source"`
	Tables    int        `json:"tables"`
	Records   int        `json:"records"`
	Levels    []string   `json:"levels,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`

	// FetchedAt is when the page was first downloaded. It survives later
	// runs that read the page from the cache.
	FetchedAt time.Time `json:"fetched_at,omitzero"`
}
