// Package model defines the data structures shared by the harvester packages.
//
// This package contains the following main types:
//   - FormSession: the hidden form state scraped from the archive landing page
//   - RecordSet: the normalized long-format rows extracted from one archive page
//   - PageOutcome: what happened to one archive date during a run
//   - HarvestReport: the per-status and per-source totals over all dates
//
// Dates are calendar days. They are carried as time.Time values at UTC
// midnight and rendered through ISODate and FormDate.
package model
