package model

import (
	"slices"
	"time"
)

// HarvestReport summarizes the recorded outcome of every archive date.
type HarvestReport struct {
	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`

	// DataDir is the data root the outcomes belong to.
	DataDir string `json:"data_dir"`

	// Oldest and Newest span the recorded dates.
	Oldest time.Time `json:"oldest,omitzero"`
	Newest time.Time `json:"newest,omitzero"`

	Pages       int `json:"pages"`
	Extracted   int `json:"extracted"`
	Malformed   int `json:"malformed"`
	FromCache   int `json:"from_cache"`
	FromNetwork int `json:"from_network"`
	Records     int `json:"records"`

	// MalformedDates lists the skipped dates, newest first.
	MalformedDates []time.Time `json:"malformed_dates,omitempty"`

	// Outcomes holds every date, newest first.
	Outcomes []PageOutcome `json:"outcomes"`
}

// NewHarvestReport builds a report from recorded outcomes.
func NewHarvestReport(dataDir string, outcomes []PageOutcome, now time.Time) *HarvestReport {
	sorted := slices.Clone(outcomes)
	slices.SortStableFunc(sorted, func(a, b PageOutcome) int {
		return b.Date.Compare(a.Date)
	})

	r := &HarvestReport{
		GeneratedAt: now,
		DataDir:     dataDir,
		Outcomes:    sorted,
	}
	if sorted == nil {
		r.Outcomes = make([]PageOutcome, 0)
	}
	if len(sorted) > 0 {
		r.Newest = sorted[0].Date
		r.Oldest = sorted[len(sorted)-1].Date
	}

	for _, o := range sorted {
		r.Pages++
		r.Records += o.Records
		switch o.Status {
		case StatusExtracted:
			r.Extracted++
		case StatusMalformed:
			r.Malformed++
			r.MalformedDates = append(r.MalformedDates, o.Date)
		}
		switch o.Source {
		case SourceCache:
			r.FromCache++
		case SourceNetwork:
			r.FromNetwork++
		}
	}
	return r
}

// HasMalformed reports whether any date was skipped.
func (r *HarvestReport) HasMalformed() bool {
	return r.Malformed > 0
}

// Coverage returns the share of dates that produced records, in [0, 1].
func (r *HarvestReport) Coverage() float64 {
	if r.Pages == 0 {
		return 0
	}
	return float64(r.Extracted) / float64(r.Pages)
}
